package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookmarker/internal/database"
	"bookmarker/internal/models"
)

const bookmarkRepo = "bookmark"

// ErrDuplicateBookmark is returned when a unique index rejects an insert or update.
var ErrDuplicateBookmark = errors.New("bookmark already exists")

type BookmarkRepository interface {
	Create(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Bookmark, error)
	Find(ctx context.Context, filter bson.M, limit, page int64) ([]models.Bookmark, error)
	FindOne(ctx context.Context, filter bson.M) (*models.Bookmark, error)
	UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*mongo.UpdateResult, error)
	UpdateMany(ctx context.Context, filter bson.M, update bson.M) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter bson.M) (*mongo.DeleteResult, error)
}

type bookmarkRepository struct {
	db database.Service
}

func NewBookmarkRepository(db database.Service) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(database.BookmarksCollection)
}

func (r *bookmarkRepository) Create(ctx context.Context, bm *models.Bookmark) (_ *models.Bookmark, err error) {
	defer trackQuery("create", bookmarkRepo)(&err)

	if bm.ID.IsZero() {
		bm.ID = primitive.NewObjectID()
	}
	bm.TitleKey = models.MatchKey(bm.Title)
	bm.URLKey = models.MatchKey(bm.URL)

	if _, err = r.collection().InsertOne(ctx, bm); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateBookmark
		}
		return nil, fmt.Errorf("failed to add bookmark: %w", err)
	}
	return bm, nil
}

// FindByUser returns every bookmark of the user, newest first.
func (r *bookmarkRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Bookmark, error) {
	return r.Find(ctx, bson.M{"user_id": userID}, 0, 1)
}

// Find returns bookmarks matching filter, newest first. A limit of 0 means no limit.
func (r *bookmarkRepository) Find(ctx context.Context, filter bson.M, limit, page int64) (_ []models.Bookmark, err error) {
	defer trackQuery("find", bookmarkRepo)(&err)

	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip((page - 1) * limit)

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookmarks: %w", err)
	}
	defer cursor.Close(ctx)

	bookmarks := make([]models.Bookmark, 0)
	if err = cursor.All(ctx, &bookmarks); err != nil {
		return nil, fmt.Errorf("error decoding bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (r *bookmarkRepository) FindOne(ctx context.Context, filter bson.M) (_ *models.Bookmark, err error) {
	defer trackQuery("findOne", bookmarkRepo)(&err)

	var bm models.Bookmark
	if err = r.collection().FindOne(ctx, filter).Decode(&bm); err != nil {
		return nil, err
	}
	return &bm, nil
}

func (r *bookmarkRepository) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (_ *mongo.UpdateResult, err error) {
	defer trackQuery("updateOne", bookmarkRepo)(&err)

	result, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateBookmark
		}
		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}
	return result, nil
}

func (r *bookmarkRepository) UpdateMany(ctx context.Context, filter bson.M, update bson.M) (_ *mongo.UpdateResult, err error) {
	defer trackQuery("updateMany", bookmarkRepo)(&err)

	result, err := r.collection().UpdateMany(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update bookmarks: %w", err)
	}
	return result, nil
}

func (r *bookmarkRepository) DeleteOne(ctx context.Context, filter bson.M) (_ *mongo.DeleteResult, err error) {
	defer trackQuery("deleteOne", bookmarkRepo)(&err)

	deleteResult, err := r.collection().DeleteOne(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return deleteResult, nil
}

func (r *bookmarkRepository) DeleteMany(ctx context.Context, filter bson.M) (_ *mongo.DeleteResult, err error) {
	defer trackQuery("deleteMany", bookmarkRepo)(&err)

	deleteResult, err := r.collection().DeleteMany(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to delete bookmarks: %w", err)
	}
	return deleteResult, nil
}
