package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookmarker/internal/metrics"
	"bookmarker/internal/models"
	"bookmarker/internal/repositories"
)

var (
	ErrFolderNameRequired = errors.New("folder name is required")
	ErrFolderExists       = errors.New("folder name already exists")
)

// FolderService defines the interface for folder-related business logic.
type FolderService interface {
	AddFolder(ctx context.Context, userID primitive.ObjectID, name string) (*models.Folder, error)
	GetFolders(ctx context.Context, userID primitive.ObjectID) ([]models.Folder, error)
	RenameFolder(ctx context.Context, userID, folderID primitive.ObjectID, name string) (*models.Folder, error)
	DeleteFolder(ctx context.Context, userID, folderID primitive.ObjectID) error
}

type folderServiceImpl struct {
	folderRepo   repositories.FolderRepository
	bookmarkRepo repositories.BookmarkRepository
}

func NewFolderService(folderRepo repositories.FolderRepository, bookmarkRepo repositories.BookmarkRepository) FolderService {
	return &folderServiceImpl{folderRepo: folderRepo, bookmarkRepo: bookmarkRepo}
}

func (s *folderServiceImpl) AddFolder(ctx context.Context, userID primitive.ObjectID, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFolderNameRequired
	}
	log.Debug().Str("userID", userID.Hex()).Str("folderName", name).Msg("Attempting to add folder")

	folder, err := s.folderRepo.Create(ctx, &models.Folder{UserID: userID, Name: name})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateFolder) {
			log.Warn().Str("userID", userID.Hex()).Str("folderName", name).Msg("Folder name already exists for this user")
			return nil, ErrFolderExists
		}
		log.Error().Err(err).Str("userID", userID.Hex()).Msg("Failed to insert folder")
		return nil, err
	}

	metrics.FolderCreatedTotal.Inc()
	log.Info().Str("userID", userID.Hex()).Str("folderID", folder.ID.Hex()).Msg("Folder added successfully")
	return folder, nil
}

func (s *folderServiceImpl) GetFolders(ctx context.Context, userID primitive.ObjectID) ([]models.Folder, error) {
	folders, err := s.folderRepo.FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Msg("Database error fetching folders")
		return nil, err
	}
	return folders, nil
}

func (s *folderServiceImpl) RenameFolder(ctx context.Context, userID, folderID primitive.ObjectID, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFolderNameRequired
	}

	result, err := s.folderRepo.Update(ctx, userID, folderID, bson.M{"name": name})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateFolder) {
			return nil, ErrFolderExists
		}
		log.Error().Err(err).Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Msg("Failed to rename folder")
		return nil, err
	}
	if result.MatchedCount == 0 {
		log.Warn().Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Msg("Folder not found or not authorized to update")
		return nil, ErrFolderNotFound
	}

	log.Info().Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Msg("Folder renamed successfully")
	return &models.Folder{ID: folderID, UserID: userID, Name: name}, nil
}

// DeleteFolder leaves the folder's bookmarks without a folder and then removes it.
// Bookmarks are detached first so a failed call can be retried.
func (s *folderServiceImpl) DeleteFolder(ctx context.Context, userID, folderID primitive.ObjectID) error {
	if _, err := s.folderRepo.FindByID(ctx, userID, folderID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrFolderNotFound
		}
		log.Error().Err(err).Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Msg("Failed to find folder")
		return err
	}

	filter := bson.M{"user_id": userID, "folder_id": folderID}
	update := bson.M{"$set": bson.M{"folder_id": nil}}
	detached, err := s.bookmarkRepo.UpdateMany(ctx, filter, update)
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Msg("Failed to detach bookmarks from folder")
		return fmt.Errorf("failed to detach bookmarks: %w", err)
	}

	result, err := s.folderRepo.Delete(ctx, userID, folderID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Msg("Failed to delete folder")
		return err
	}
	if result.DeletedCount == 0 {
		return ErrFolderNotFound
	}

	log.Info().Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Int64("detached", detached.ModifiedCount).Msg("Folder deleted successfully")
	return nil
}
