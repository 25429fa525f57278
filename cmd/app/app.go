package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kidmood/kidmood-api/internal/api"
	"github.com/kidmood/kidmood-api/internal/config"
	"github.com/kidmood/kidmood-api/internal/logger"
	"github.com/kidmood/kidmood-api/internal/store"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := store.Open(ctx, conf.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage -> %w", err)
	}
	defer st.Close(context.Background())

	s := api.NewServer(conf, st)
	s.StartJanitor()

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
