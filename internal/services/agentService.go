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

const DescriptionMaxTokens = 60

var ErrEmptyDescription = errors.New("generated description was empty")

// AgentService generates bookmark descriptions with the text generator.
type AgentService struct {
	bookmarkRepo repositories.BookmarkRepository
	generator    TextGenerator
}

func NewAgentService(bookmarkRepo repositories.BookmarkRepository, generator TextGenerator) *AgentService {
	return &AgentService{bookmarkRepo: bookmarkRepo, generator: generator}
}

// DescribeBookmark fills in the description of a bookmark that has none.
// Bookmarks that already have one are returned unchanged.
func (s *AgentService) DescribeBookmark(ctx context.Context, userID, bookmarkID primitive.ObjectID) (*models.Bookmark, error) {
	log.Debug().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Attempting to describe bookmark")
	filter := bson.M{"_id": bookmarkID, "user_id": userID}

	bookmark, err := s.bookmarkRepo.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookmarkNotFound
		}
		log.Error().Err(err).Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Failed to retrieve bookmark for description")
		return nil, &BackendError{Op: "find bookmark", Err: err}
	}
	if strings.TrimSpace(bookmark.Description) != "" {
		return bookmark, nil
	}

	text, err := s.generator.Generate(ctx, buildDescriptionPrompt(bookmark.Title, bookmark.URL), DescriptionMaxTokens)
	if err != nil {
		log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Msg("Failed to generate description")
		return nil, &BackendError{Op: "generate description", Err: err}
	}
	description := firstLine(text)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	update := bson.M{"$set": bson.M{"description": description}}
	result, err := s.bookmarkRepo.UpdateOne(ctx, filter, update)
	if err != nil {
		log.Error().Err(err).Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Failed to update bookmark description")
		return nil, &BackendError{Op: "store description", Err: err}
	}
	if result.MatchedCount == 0 {
		log.Warn().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark removed while its description was generated")
		return nil, ErrBookmarkNotFound
	}

	metrics.DescriptionGeneratedTotal.Inc()
	log.Info().Str("userID", userID.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark description generated")
	bookmark.Description = description
	return bookmark, nil
}

func buildDescriptionPrompt(title, url string) string {
	return fmt.Sprintf(
		"You are a bookmark describer. Describe the following bookmark in one short sentence. "+
			"Return only the sentence, without quotes or formatting.\n\nTitle: %s\nURL: %s",
		title,
		url,
	)
}

// firstLine returns the first non-blank line of text, trimmed.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
