package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookmarker/internal/metrics"
	"bookmarker/internal/models"
	"bookmarker/internal/repositories"
	"bookmarker/internal/utils"
)

// BookmarksPageSize is the page length of GetBookmarks when a page is requested.
const BookmarksPageSize int64 = 20

var (
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrFolderNotFound   = errors.New("folder not found")
	ErrNoUpdateFields   = errors.New("no valid fields provided for update")
	ErrInvalidBookmark  = errors.New("title and url cannot be empty")
)

type BookmarkService interface {
	GetBookmarks(ctx context.Context, userID primitive.ObjectID, folderID *primitive.ObjectID, page int64) ([]models.Bookmark, error)
	AddBookmark(ctx context.Context, userID primitive.ObjectID, reqBody models.AddBookmarkRequestBody) (*models.Bookmark, error)
	GetBookmarkByID(ctx context.Context, userID, bookmarkID primitive.ObjectID) (*models.Bookmark, error)
	DeleteBookmark(ctx context.Context, userID, bookmarkID primitive.ObjectID) error
	UpdateBookmark(ctx context.Context, userID, bookmarkID primitive.ObjectID, updatePayload models.UpdateBookmarkRequestBody) (*models.Bookmark, error)
	MoveBookmark(ctx context.Context, userID, bookmarkID primitive.ObjectID, folderID *primitive.ObjectID) (*models.Bookmark, error)
}

type bookmarkServiceImpl struct {
	bookmarkRepo repositories.BookmarkRepository
	folderRepo   repositories.FolderRepository
}

func NewBookmarkService(bookmarkRepo repositories.BookmarkRepository, folderRepo repositories.FolderRepository) BookmarkService {
	return &bookmarkServiceImpl{bookmarkRepo: bookmarkRepo, folderRepo: folderRepo}
}

// GetBookmarks lists the user's bookmarks newest first. A page below 1 returns everything.
func (s *bookmarkServiceImpl) GetBookmarks(ctx context.Context, userID primitive.ObjectID, folderID *primitive.ObjectID, page int64) ([]models.Bookmark, error) {
	log.Debug().Str("userID", userID.Hex()).Int64("page", page).Msg("Attempting to retrieve bookmarks")
	filter := bson.M{"user_id": userID}
	if folderID != nil {
		filter["folder_id"] = *folderID
	}

	var limit int64
	if page > 0 {
		limit = BookmarksPageSize
	}

	bookmarks, err := s.bookmarkRepo.Find(ctx, filter, limit, page)
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Interface("filter", filter).Msg("Error finding bookmarks")
		return nil, err
	}

	log.Debug().Str("userID", userID.Hex()).Int("count", len(bookmarks)).Msg("Successfully retrieved bookmarks")
	return bookmarks, nil
}

func (s *bookmarkServiceImpl) AddBookmark(ctx context.Context, userID primitive.ObjectID, reqBody models.AddBookmarkRequestBody) (*models.Bookmark, error) {
	log.Debug().Str("userID", userID.Hex()).Interface("reqBody", reqBody).Msg("Attempting to add bookmark")
	title := strings.TrimSpace(reqBody.Title)
	url := strings.TrimSpace(reqBody.URL)
	if title == "" || url == "" {
		log.Warn().Str("userID", userID.Hex()).Msg("URL and Title are required for adding bookmark")
		return nil, ErrInvalidBookmark
	}

	folderID, err := utils.ParseOptionalObjectID(reqBody.FolderID)
	if err != nil {
		log.Warn().Err(err).Str("userID", userID.Hex()).Msg("Invalid folder ID format during AddBookmark")
		return nil, ErrFolderNotFound
	}
	if err := s.checkFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}

	bm := models.Bookmark{
		UserID:      userID,
		FolderID:    folderID,
		Title:       title,
		URL:         url,
		Description: strings.TrimSpace(reqBody.Description),
		CreatedAt:   time.Now().UTC(),
	}

	createdBookmark, err := s.bookmarkRepo.Create(ctx, &bm)
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Msg("Error inserting bookmark")
		return nil, err
	}

	metrics.BookmarkCreatedTotal.Inc()
	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", createdBookmark.ID.Hex()).Msg("Bookmark added successfully")
	return createdBookmark, nil
}

func (s *bookmarkServiceImpl) GetBookmarkByID(ctx context.Context, userID, bookmarkID primitive.ObjectID) (*models.Bookmark, error) {
	log.Debug().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Attempting to retrieve bookmark by ID")
	filter := bson.M{"_id": bookmarkID, "user_id": userID}

	bm, err := s.bookmarkRepo.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warn().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark not found")
			return nil, ErrBookmarkNotFound
		}
		log.Error().Err(err).Str("bookmark_id", bookmarkID.Hex()).Str("userID", userID.Hex()).Msg("Error finding bookmark by ID")
		return nil, fmt.Errorf("failed to retrieve bookmark: %w", err)
	}
	return bm, nil
}

func (s *bookmarkServiceImpl) DeleteBookmark(ctx context.Context, userID, bookmarkID primitive.ObjectID) error {
	log.Debug().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Attempting to delete bookmark")
	filter := bson.M{"_id": bookmarkID, "user_id": userID}

	deleteResult, err := s.bookmarkRepo.DeleteOne(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("bookmark_id", bookmarkID.Hex()).Str("userID", userID.Hex()).Msg("Error deleting bookmark")
		return err
	}

	if deleteResult.DeletedCount == 0 {
		log.Warn().Str("bookmark_id", bookmarkID.Hex()).Str("userID", userID.Hex()).Msg("Bookmark not found or not authorized to delete")
		return ErrBookmarkNotFound
	}
	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark deleted successfully")
	return nil
}

func buildUpdateFields(updatePayload models.UpdateBookmarkRequestBody) (bson.M, error) {
	updateFields := bson.M{}

	if updatePayload.Title != nil {
		title := strings.TrimSpace(*updatePayload.Title)
		if title == "" {
			return nil, ErrInvalidBookmark
		}
		updateFields["title"] = title
		updateFields["title_key"] = models.MatchKey(title)
	}
	if updatePayload.URL != nil {
		url := strings.TrimSpace(*updatePayload.URL)
		if url == "" {
			return nil, ErrInvalidBookmark
		}
		updateFields["url"] = url
		updateFields["url_key"] = models.MatchKey(url)
	}
	if updatePayload.Description != nil {
		updateFields["description"] = strings.TrimSpace(*updatePayload.Description)
	}
	return updateFields, nil
}

func (s *bookmarkServiceImpl) UpdateBookmark(ctx context.Context, userID, bookmarkID primitive.ObjectID, updatePayload models.UpdateBookmarkRequestBody) (*models.Bookmark, error) {
	log.Debug().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Interface("updatePayload", updatePayload).Msg("Attempting to update bookmark")
	updateFields, err := buildUpdateFields(updatePayload)
	if err != nil {
		log.Warn().Err(err).Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Invalid bookmark update")
		return nil, err
	}

	if len(updateFields) == 0 {
		log.Warn().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("No valid fields provided for bookmark update")
		return nil, ErrNoUpdateFields
	}

	return s.applyUpdate(ctx, userID, bookmarkID, updateFields)
}

// MoveBookmark puts the bookmark into folderID, or takes it out of any folder when folderID is nil.
func (s *bookmarkServiceImpl) MoveBookmark(ctx context.Context, userID, bookmarkID primitive.ObjectID, folderID *primitive.ObjectID) (*models.Bookmark, error) {
	log.Debug().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Attempting to move bookmark")
	if err := s.checkFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, userID, bookmarkID, bson.M{"folder_id": folderID})
}

func (s *bookmarkServiceImpl) applyUpdate(ctx context.Context, userID, bookmarkID primitive.ObjectID, updateFields bson.M) (*models.Bookmark, error) {
	filter := bson.M{"_id": bookmarkID, "user_id": userID}
	update := bson.M{"$set": updateFields}

	result, err := s.bookmarkRepo.UpdateOne(ctx, filter, update)
	if err != nil {
		log.Error().Err(err).Str("bookmark_id", bookmarkID.Hex()).Str("userID", userID.Hex()).Msg("Error updating bookmark")
		return nil, err
	}

	if result.MatchedCount == 0 {
		log.Warn().Str("bookmark_id", bookmarkID.Hex()).Str("userID", userID.Hex()).Msg("Bookmark not found or not authorized to update")
		return nil, ErrBookmarkNotFound
	}

	updatedBookmark, err := s.bookmarkRepo.FindOne(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("bookmark_id", bookmarkID.Hex()).Str("userID", userID.Hex()).Msg("Error fetching updated bookmark")
		return nil, fmt.Errorf("failed to retrieve updated bookmark: %w", err)
	}
	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark updated successfully")
	return updatedBookmark, nil
}

// checkFolder verifies that folderID, when set, belongs to the user.
func (s *bookmarkServiceImpl) checkFolder(ctx context.Context, userID primitive.ObjectID, folderID *primitive.ObjectID) error {
	if folderID == nil {
		return nil
	}
	if _, err := s.folderRepo.FindByID(ctx, userID, *folderID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warn().Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Msg("Folder not found for bookmark")
			return ErrFolderNotFound
		}
		log.Error().Err(err).Str("userID", userID.Hex()).Str("folderID", folderID.Hex()).Msg("Error checking folder")
		return err
	}
	return nil
}
