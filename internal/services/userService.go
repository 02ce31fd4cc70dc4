package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"bookmarker/internal/metrics"
	"bookmarker/internal/models"
	"bookmarker/internal/repositories"
	"bookmarker/internal/utils"
)

const bcryptCost = 8

var (
	ErrMissingCredentials = errors.New("username, email, and password are required")
	ErrEmailExists        = errors.New("email already exists")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	RegisterUser(ctx context.Context, user *models.User) (*models.User, error)
	LoginUser(ctx context.Context, creds *models.Login) (*models.LoginResponse, error)
	GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	DeleteUser(ctx context.Context, userID primitive.ObjectID) error
	GetTotalUsers(ctx context.Context) (int64, error)
	RefreshUserCount(ctx context.Context, interval time.Duration)
}

// userService implements UserService using a UserRepository.
type userService struct {
	userRepo     repositories.UserRepository
	bookmarkRepo repositories.BookmarkRepository
	folderRepo   repositories.FolderRepository
	jwtSecret    string
}

// NewUserService creates a new UserService that signs tokens with jwtSecret.
// The bookmark and folder repositories are used to remove a deleted user's data.
func NewUserService(userRepo repositories.UserRepository, bookmarkRepo repositories.BookmarkRepository, folderRepo repositories.FolderRepository, jwtSecret string) UserService {
	return &userService{userRepo: userRepo, bookmarkRepo: bookmarkRepo, folderRepo: folderRepo, jwtSecret: jwtSecret}
}

func (s *userService) GetTotalUsers(ctx context.Context) (int64, error) {
	return s.userRepo.CountAll(ctx)
}

// RefreshUserCount keeps the total users gauge current until ctx is done.
func (s *userService) RefreshUserCount(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.updateUserGauge(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *userService) updateUserGauge(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := s.GetTotalUsers(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("Error updating total users gauge")
		}
		return
	}
	metrics.TotalUsers.Set(float64(count))
}

func (s *userService) RegisterUser(ctx context.Context, user *models.User) (*models.User, error) {
	log.Debug().Str("email", user.Email).Msg("Attempting to register user")
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Username == "" || user.Email == "" || user.Password == "" {
		log.Warn().Msg("Username, email, and password are required for registration")
		return nil, ErrMissingCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password during registration")
		return nil, err
	}

	now := time.Now().UTC()
	user.Password = string(hashedPassword)
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	createdUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			log.Warn().Str("email", user.Email).Msg("Email already exists during user insertion")
			return nil, ErrEmailExists
		}
		if errors.Is(err, repositories.ErrDuplicateUsername) {
			log.Warn().Str("username", user.Username).Msg("Username already exists during user insertion")
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	createdUser.Password = ""
	metrics.NewUsersTotal.Inc()
	log.Info().Str("user_id", createdUser.ID.Hex()).Str("email", createdUser.Email).Msg("User registered successfully")

	s.updateUserGauge(ctx)
	return createdUser, nil
}

func (s *userService) LoginUser(ctx context.Context, creds *models.Login) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	log.Debug().Str("email", email).Msg("Attempting user login")

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warn().Str("email", email).Msg("Invalid credentials during login attempt")
			metrics.LoginAttemptsTotal.WithLabelValues("password", "failed").Inc()
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Str("email", email).Msg("Error finding user for login")
		return nil, err
	}

	// GitHub accounts have no password and cannot log in this way.
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		log.Warn().Str("email", email).Msg("Invalid credentials (password mismatch) during login attempt")
		metrics.LoginAttemptsTotal.WithLabelValues("password", "failed").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, s.jwtSecret)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token for user")
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("password", "success").Inc()
	log.Info().Str("user_id", user.ID.Hex()).Msg("User logged in successfully")
	return &models.LoginResponse{Token: token, UserID: user.ID.Hex(), Username: user.Username}, nil
}

func (s *userService) GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warn().Str("user_id", userID.Hex()).Msg("User not found for GetUserProfile")
			return nil, ErrUserNotFound
		}
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Error fetching user profile")
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// DeleteUser removes the user's bookmarks and folders before the account itself,
// so a failed call can be retried.
func (s *userService) DeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	log.Debug().Str("userID", userID.Hex()).Msg("Attempting to delete user account")
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warn().Str("user_id", userID.Hex()).Msg("User account not found or not authorized to delete")
			return ErrUserNotFound
		}
		return err
	}

	bookmarks, err := s.bookmarkRepo.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Failed to delete user bookmarks")
		return err
	}
	folders, err := s.folderRepo.DeleteByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Failed to delete user folders")
		return err
	}
	log.Debug().Str("user_id", userID.Hex()).Int64("bookmarks", bookmarks.DeletedCount).Int64("folders", folders.DeletedCount).Msg("User data deleted")

	result, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		log.Warn().Str("user_id", userID.Hex()).Msg("User account not found or not authorized to delete")
		return ErrUserNotFound
	}

	log.Info().Str("user_id", userID.Hex()).Msg("User account deleted successfully")
	s.updateUserGauge(ctx)
	return nil
}
