package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookmarker/internal/metrics"
	"bookmarker/internal/models"
	"bookmarker/internal/repositories"
)

const (
	MaxSuggestionAttempts = 3
	SuggestionMaxTokens   = 100
)

var (
	ErrInvalidInput           = errors.New("user id is required")
	ErrInsufficientData       = errors.New("no bookmark descriptions to suggest from")
	ErrAllSuggestionsRejected = errors.New("could not generate a new bookmark suggestion")

	errParseFailure       = errors.New("no suggestion line in generated text")
	errDuplicateCandidate = errors.New("suggestion duplicates an existing bookmark")
)

// BackendError wraps a failure of the bookmark store or the text generator.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// BookmarkStore is the part of the bookmark repository the suggestion engine needs.
type BookmarkStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Bookmark, error)
	Create(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error)
}

type SuggestionService interface {
	Suggest(ctx context.Context, userID string) (*models.Bookmark, error)
}

type suggestionService struct {
	store     BookmarkStore
	generator TextGenerator
}

func NewSuggestionService(store BookmarkStore, generator TextGenerator) SuggestionService {
	return &suggestionService{store: store, generator: generator}
}

// Suggest asks the generator for a bookmark the user does not have yet and
// stores the first acceptable one. Nothing is stored when every attempt is
// rejected.
func (s *suggestionService) Suggest(ctx context.Context, userID string) (*models.Bookmark, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidInput
	}

	bookmarks, err := s.store.FindByUser(ctx, uid)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Failed to load bookmarks for suggestion")
		return nil, &BackendError{Op: "list bookmarks", Err: err}
	}

	existingTitles := make(map[string]struct{}, len(bookmarks))
	existingURLs := make(map[string]struct{}, len(bookmarks))
	var descriptions []string
	for _, bm := range bookmarks {
		existingTitles[models.MatchKey(bm.Title)] = struct{}{}
		existingURLs[models.MatchKey(bm.URL)] = struct{}{}
		if d := strings.TrimSpace(bm.Description); d != "" {
			descriptions = append(descriptions, d)
		}
	}
	if len(descriptions) == 0 {
		log.Info().Str("userID", userID).Msg("No bookmark descriptions to suggest from")
		metrics.SuggestionsTotal.WithLabelValues("insufficient_data").Inc()
		return nil, ErrInsufficientData
	}

	prompt := buildSuggestionPrompt(descriptions)

	for attempt := 1; attempt <= MaxSuggestionAttempts; attempt++ {
		bm, err := s.attempt(ctx, uid, prompt, existingTitles, existingURLs)
		switch {
		case err == nil:
			metrics.SuggestionAttemptsTotal.WithLabelValues("accepted").Inc()
			metrics.SuggestionsTotal.WithLabelValues("accepted").Inc()
			log.Info().Str("userID", userID).Str("bookmarkID", bm.ID.Hex()).Int("attempt", attempt).Msg("Suggested bookmark stored")
			return bm, nil
		case errors.Is(err, errParseFailure):
			metrics.SuggestionAttemptsTotal.WithLabelValues("parse_failure").Inc()
			log.Warn().Str("userID", userID).Int("attempt", attempt).Msg("Generated text had no usable suggestion")
		case errors.Is(err, errDuplicateCandidate):
			metrics.SuggestionAttemptsTotal.WithLabelValues("duplicate").Inc()
			log.Warn().Str("userID", userID).Int("attempt", attempt).Msg("Generated suggestion duplicates an existing bookmark")
		default:
			metrics.SuggestionsTotal.WithLabelValues("error").Inc()
			log.Error().Err(err).Str("userID", userID).Int("attempt", attempt).Msg("Suggestion attempt failed")
			return nil, err
		}
	}

	metrics.SuggestionsTotal.WithLabelValues("rejected").Inc()
	return nil, ErrAllSuggestionsRejected
}

func (s *suggestionService) attempt(ctx context.Context, userID primitive.ObjectID, prompt string, existingTitles, existingURLs map[string]struct{}) (*models.Bookmark, error) {
	text, err := s.generator.Generate(ctx, prompt, SuggestionMaxTokens)
	if err != nil {
		return nil, &BackendError{Op: "generate suggestion", Err: err}
	}

	candidate, err := parseSuggestion(text)
	if err != nil {
		return nil, err
	}

	if _, ok := existingTitles[models.MatchKey(candidate.Title)]; ok {
		return nil, errDuplicateCandidate
	}
	if _, ok := existingURLs[models.MatchKey(candidate.URL)]; ok {
		return nil, errDuplicateCandidate
	}

	bm := &models.Bookmark{
		UserID:      userID,
		Title:       candidate.Title,
		URL:         candidate.URL,
		Description: candidate.Description,
		Suggested:   true,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := s.store.Create(ctx, bm)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateBookmark) {
			return nil, errDuplicateCandidate
		}
		return nil, &BackendError{Op: "store suggestion", Err: err}
	}
	return created, nil
}

func buildSuggestionPrompt(descriptions []string) string {
	var b strings.Builder
	b.WriteString("You are an assistant that suggests a new bookmark based on the descriptions of a user's existing bookmarks.\n")
	b.WriteString("Reply with exactly one line in the format Title;URL;Description.\n")
	b.WriteString("Do not repeat a title or URL the user already has and do not add any other text.\n")
	b.WriteString("Existing bookmark descriptions:\n")
	for _, d := range descriptions {
		b.WriteString("- ")
		b.WriteString(d)
		b.WriteString("\n")
	}
	return b.String()
}

// parseSuggestion takes the first line with exactly two ';' as Title;URL;Description.
func parseSuggestion(text string) (models.SuggestionCandidate, error) {
	for _, line := range strings.Split(text, "\n") {
		if strings.Count(line, ";") != 2 {
			continue
		}
		fields := strings.SplitN(line, ";", 3)
		candidate := models.SuggestionCandidate{
			Title:       strings.TrimSpace(fields[0]),
			URL:         strings.TrimSpace(fields[1]),
			Description: strings.TrimSpace(fields[2]),
		}
		if candidate.Title == "" || candidate.URL == "" {
			return models.SuggestionCandidate{}, errParseFailure
		}
		return candidate, nil
	}
	return models.SuggestionCandidate{}, errParseFailure
}
