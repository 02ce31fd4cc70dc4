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

const folderRepo = "folder"

var ErrDuplicateFolder = errors.New("folder name already exists")

type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) (*models.Folder, error)
	FindByID(ctx context.Context, userID, folderID primitive.ObjectID) (*models.Folder, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Folder, error)
	Update(ctx context.Context, userID, folderID primitive.ObjectID, updateFields bson.M) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, userID, folderID primitive.ObjectID) (*mongo.DeleteResult, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (*mongo.DeleteResult, error)
}

type folderRepository struct {
	db database.Service
}

func NewFolderRepository(db database.Service) FolderRepository {
	return &folderRepository{db: db}
}

func (r *folderRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(database.FoldersCollection)
}

func (r *folderRepository) Create(ctx context.Context, folder *models.Folder) (_ *models.Folder, err error) {
	defer trackQuery("create", folderRepo)(&err)

	if folder.ID.IsZero() {
		folder.ID = primitive.NewObjectID()
	}
	if _, err = r.collection().InsertOne(ctx, folder); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateFolder
		}
		return nil, fmt.Errorf("failed to insert folder: %w", err)
	}
	return folder, nil
}

func (r *folderRepository) FindByID(ctx context.Context, userID, folderID primitive.ObjectID) (_ *models.Folder, err error) {
	defer trackQuery("findByID", folderRepo)(&err)

	var folder models.Folder
	filter := bson.M{"_id": folderID, "user_id": userID}
	if err = r.collection().FindOne(ctx, filter).Decode(&folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *folderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (_ []models.Folder, err error) {
	defer trackQuery("findByUser", folderRepo)(&err)

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching folders: %w", err)
	}
	defer cursor.Close(ctx)

	folders := make([]models.Folder, 0)
	if err = cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("error decoding folders: %w", err)
	}
	return folders, nil
}

func (r *folderRepository) Update(ctx context.Context, userID, folderID primitive.ObjectID, updateFields bson.M) (_ *mongo.UpdateResult, err error) {
	defer trackQuery("update", folderRepo)(&err)

	filter := bson.M{"_id": folderID, "user_id": userID}
	result, err := r.collection().UpdateOne(ctx, filter, bson.M{"$set": updateFields})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateFolder
		}
		return nil, fmt.Errorf("failed to update folder: %w", err)
	}
	return result, nil
}

func (r *folderRepository) Delete(ctx context.Context, userID, folderID primitive.ObjectID) (_ *mongo.DeleteResult, err error) {
	defer trackQuery("delete", folderRepo)(&err)

	filter := bson.M{"_id": folderID, "user_id": userID}
	result, err := r.collection().DeleteOne(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to delete folder: %w", err)
	}
	return result, nil
}

func (r *folderRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (_ *mongo.DeleteResult, err error) {
	defer trackQuery("deleteByUser", folderRepo)(&err)

	result, err := r.collection().DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to delete folders: %w", err)
	}
	return result, nil
}
