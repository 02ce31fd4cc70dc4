package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BookmarksCollection = "bookmarks"
	FoldersCollection   = "folders"
	UsersCollection     = "users"
)

const (
	HealthUp   = "It's healthy"
	HealthDown = "db down"
)

type Service interface {
	Health() map[string]string
	Client() *mongo.Client
	Database() *mongo.Database
	EnsureIndexes(ctx context.Context) error
	Close() error
}

type service struct {
	db     *mongo.Client
	dbName string
}

func New(mongoURI, dbName string) (Service, error) {
	if mongoURI == "" {
		return nil, fmt.Errorf("mongo URI not set")
	}
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	return &service{
		db:     client,
		dbName: dbName,
	}, nil
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := s.db.Ping(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("Database health check failed")
		return map[string]string{
			"message": HealthDown,
		}
	}

	return map[string]string{
		"message": HealthUp,
	}
}

func (s *service) Client() *mongo.Client {
	return s.db
}

func (s *service) Database() *mongo.Database {
	return s.db.Database(s.dbName)
}

// EnsureIndexes creates the indexes the repositories rely on. Suggested bookmarks
// are unique per user by lower-cased title and URL, folder names are unique per
// user, and e-mails, usernames and GitHub logins are unique.
func (s *service) EnsureIndexes(ctx context.Context) error {
	suggested := bson.M{"suggested": true}
	indexes := map[string][]mongo.IndexModel{
		BookmarksCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "title_key", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(suggested).SetName("uidx_suggested_title"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "url_key", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(suggested).SetName("uidx_suggested_url"),
			},
		},
		FoldersCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "github_login", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
	}

	for name, models := range indexes {
		if _, err := s.Database().Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
		log.Debug().Str("collection", name).Int("count", len(models)).Msg("Indexes ensured")
	}
	return nil
}

func (s *service) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("Disconnecting from MongoDB")
	return s.db.Disconnect(ctx)
}
