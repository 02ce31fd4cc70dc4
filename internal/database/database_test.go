package database

import (
	"context"
	"flag"
	"os"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var mongoURI string

func mustStartMongoContainer() (func(context.Context) error, error) {
	dbContainer, err := mongodb.Run(context.Background(), "mongo:7")
	if err != nil {
		return nil, err
	}

	uri, err := dbContainer.ConnectionString(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}
	mongoURI = uri

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	teardown, err := mustStartMongoContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not start mongodb container")
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Could not teardown mongodb container")
		}
	}
	os.Exit(code)
}

func newTestService(t *testing.T) Service {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode.")
	}
	srv, err := New(mongoURI, "bookmarker_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestNew(t *testing.T) {
	_, err := New("", "bookmarker")
	assert.Error(t, err)

	srv := newTestService(t)
	assert.NotNil(t, srv.Client())
	assert.Equal(t, "bookmarker_test", srv.Database().Name())
}

func TestHealth(t *testing.T) {
	srv := newTestService(t)

	stats := srv.Health()

	assert.Equal(t, "It's healthy", stats["message"])
}

func TestEnsureIndexesRejectsDuplicateSuggestions(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()
	require.NoError(t, srv.EnsureIndexes(ctx))
	// Idempotent.
	require.NoError(t, srv.EnsureIndexes(ctx))

	coll := srv.Database().Collection(BookmarksCollection)
	userID := primitive.NewObjectID()
	doc := func(title string, suggested bool) bson.M {
		return bson.M{"user_id": userID, "title_key": title, "url_key": "https://" + title, "suggested": suggested}
	}

	_, err := coll.InsertOne(ctx, doc("youtube", true))
	require.NoError(t, err)

	_, err = coll.InsertOne(ctx, doc("youtube", true))
	assert.True(t, mongo.IsDuplicateKeyError(err))

	// Manually created bookmarks may repeat titles.
	_, err = coll.InsertOne(ctx, doc("youtube", false))
	assert.NoError(t, err)
}
