package api

import (
	"context"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/kidmood/kidmood-api/docs"
	v1 "github.com/kidmood/kidmood-api/internal/api/handler/v1"
	"github.com/kidmood/kidmood-api/internal/api/middleware"
	"github.com/kidmood/kidmood-api/internal/config"
	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/repository"
	"github.com/kidmood/kidmood-api/internal/service"
	"github.com/kidmood/kidmood-api/internal/store"
)

const janitorInterval = time.Minute

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	pins    *repository.PinRepository
	limiter *service.RateLimiter
}

func NewServer(conf *config.AppConfig, st store.Store) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	checkinRepo := repository.NewCheckinRepository(st)
	directoryRepo := repository.NewDirectoryRepository(st)
	moodRepo := repository.NewMoodRepository(st)
	userRepo := repository.NewUserRepository(st)
	pinRepo := repository.NewPinRepository(st)
	avatarRepo := repository.NewAvatarRepository(st)

	scopeSvc := service.NewScopeService(directoryRepo, userRepo)
	moodSvc := service.NewMoodService(moodRepo)
	checkinSvc := service.NewCheckinService(checkinRepo, scopeSvc, moodSvc)
	summarySvc := service.NewSummaryService(checkinRepo, scopeSvc, service.NewInsightClient(conf.Insight))
	authSvc := service.NewAuthService(userRepo, directoryRepo, pinRepo)

	s := &Server{
		Config:  conf,
		Router:  engine,
		pins:    pinRepo,
		limiter: service.NewRateLimiter(5, time.Minute),
	}

	s.MountMiddlewares()
	s.MountHandlers(
		v1.NewAuthHandler(conf.API, authSvc, s.limiter),
		v1.NewCheckinHandler(checkinSvc),
		v1.NewSummaryHandler(summarySvc),
		v1.NewMoodHandler(moodSvc, userRepo),
		v1.NewAvatarHandler(avatarRepo),
		v1.NewClassHandler(directoryRepo),
	)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	checkinHandler *v1.CheckinHandler,
	summaryHandler *v1.SummaryHandler,
	moodHandler *v1.MoodHandler,
	avatarHandler *v1.AvatarHandler,
	classHandler *v1.ClassHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/child/signup", authHandler.HandleChildSignup)
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	verify := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	children := s.Router.Group(basePath, verify, middleware.RequireRoles(domain.RoleChild))
	{
		children.POST("/checkins", checkinHandler.HandleCreateCheckin)
		children.POST("/mood/award", moodHandler.HandleAwardMood)
		children.POST("/link/pin", authHandler.HandleCreatePin)
		children.GET("/avatar", avatarHandler.HandleGetAvatar)
		children.PUT("/avatar", avatarHandler.HandleUpsertAvatar)
	}

	parents := s.Router.Group(basePath, verify, middleware.RequireRoles(domain.RoleParent))
	{
		parents.POST("/link/claim", authHandler.HandleClaimPin)
		parents.POST("/link/code", authHandler.HandleClaimLinkCode)
	}

	viewers := s.Router.Group(basePath, verify, middleware.RequireRoles(domain.RoleParent, domain.RolePro))
	{
		viewers.GET("/checkins", checkinHandler.HandleListCheckins)
		viewers.GET("/summary/weekly", summaryHandler.HandleWeeklySummary)
		viewers.GET("/summary/text", summaryHandler.HandleSummaryText)
		viewers.GET("/summary/export.csv", summaryHandler.HandleCSVExport)
	}

	mood := s.Router.Group(basePath, verify, middleware.RequireRoles(domain.RoleChild, domain.RoleParent))
	{
		mood.GET("/mood", moodHandler.HandleGetMood)
	}

	pros := s.Router.Group(basePath, verify, middleware.RequireRoles(domain.RolePro))
	{
		pros.DELETE("/classes/:code", classHandler.HandleDeleteClass)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "kidmood API"
	docs.SwaggerInfo.Description = "Emotional check-in API for children, parents and teachers."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// StartJanitor sweeps expired pins and stale rate-limit windows on an
// interval for the life of the process.
func (s *Server) StartJanitor() {
	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()

		for now := range ticker.C {
			deleted, err := s.pins.DeleteExpired(context.Background(), now.UTC())
			if err != nil {
				zap.L().Warn("pin sweep failed", zap.Error(err))
			} else if deleted > 0 {
				zap.L().Debug("expired pins deleted", zap.Int64("count", deleted))
			}

			s.limiter.Cleanup(now)
		}
	}()
}
