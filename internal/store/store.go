// Package store provides the low-level persistence primitives behind
// the repository layer. Two interchangeable backends implement the same
// collection-keyed contract: a MongoDB database and a single JSON file
// on local disk. Which one is live is decided once, at boot.
package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	CollectionOrgs     = "orgs"
	CollectionClasses  = "classes"
	CollectionStudents = "students"
	CollectionCheckins = "checkins"
	CollectionMoods    = "moods"
	CollectionAvatars  = "avatars"
	CollectionPins     = "pins"
	CollectionUsers    = "users"
)

var ErrNotFound = errors.New("document not found")

// Filter is a flat equality match on document fields, keyed by the
// fields' bson names.
type Filter map[string]interface{}

// Store is the contract both backends implement. Find decodes all
// matches into out (a pointer to a slice); FindOne decodes the first
// match into out (a pointer to a struct) or returns ErrNotFound.
// UpdateOne replaces the first matching document wholesale.
type Store interface {
	Find(ctx context.Context, collection string, filter Filter, out interface{}) error
	FindOne(ctx context.Context, collection string, filter Filter, out interface{}) error
	Insert(ctx context.Context, collection string, doc interface{}) error
	UpdateOne(ctx context.Context, collection string, filter Filter, doc interface{}) error
	DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error)
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	Close(ctx context.Context) error
}

// Config selects and parameterizes the active backend. An empty
// MongoURI (or an unreachable server) selects the file backend.
type Config struct {
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
	FilePath      string `mapstructure:"file_path"`
}

// Open probes connectivity once and returns the backend for the rest
// of the process lifetime. There is no per-request re-probing and no
// mid-request failover.
func Open(ctx context.Context, conf *Config) (Store, error) {
	if conf.MongoURI != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		ms, err := OpenMongo(pingCtx, conf.MongoURI, conf.MongoDatabase)
		if err == nil {
			zap.L().Info("storage backend selected",
				zap.String("backend", "mongo"),
				zap.String("database", conf.MongoDatabase))

			return ms, nil
		}

		zap.L().Warn("mongo unreachable, falling back to file store", zap.Error(err))
	}

	fs, err := OpenFile(conf.FilePath)
	if err != nil {
		return nil, err
	}

	zap.L().Info("storage backend selected",
		zap.String("backend", "file"),
		zap.String("path", conf.FilePath))

	return fs, nil
}
