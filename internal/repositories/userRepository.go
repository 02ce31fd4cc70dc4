package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookmarker/internal/database"
	"bookmarker/internal/models"
)

const userRepo = "user"

var (
	ErrDuplicateUser     = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateGithub   = errors.New("github login already linked")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByGithubLogin(ctx context.Context, login string) (*models.User, error)
	FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	Delete(ctx context.Context, userID primitive.ObjectID) (*mongo.DeleteResult, error)
	CountAll(ctx context.Context) (int64, error)
}

type userRepository struct {
	db database.Service
}

func NewUserRepository(db database.Service) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(database.UsersCollection)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (_ *models.User, err error) {
	defer trackQuery("create", userRepo)(&err)

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err = r.collection().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateUserError(err)
		}
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to insert user into database")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// duplicateUserError tells which unique user index rejected the insert.
func duplicateUserError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "username_1"):
		return ErrDuplicateUsername
	case strings.Contains(msg, "github_login_1"):
		return ErrDuplicateGithub
	default:
		return ErrDuplicateUser
	}
}

func (r *userRepository) findOne(ctx context.Context, queryType string, filter bson.M) (_ *models.User, err error) {
	defer trackQuery(queryType, userRepo)(&err)

	var user models.User
	if err = r.collection().FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err // Can be mongo.ErrNoDocuments
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "findByEmail", bson.M{"email": email})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "findByUsername", bson.M{"username": username})
}

func (r *userRepository) FindByGithubLogin(ctx context.Context, login string) (*models.User, error) {
	return r.findOne(ctx, "findByGithubLogin", bson.M{"github_login": login})
}

func (r *userRepository) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, "findById", bson.M{"_id": userID})
}

func (r *userRepository) Delete(ctx context.Context, userID primitive.ObjectID) (_ *mongo.DeleteResult, err error) {
	defer trackQuery("delete", userRepo)(&err)

	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Error deleting user account")
		return nil, fmt.Errorf("failed to delete account: %w", err)
	}
	return result, nil
}

func (r *userRepository) CountAll(ctx context.Context) (_ int64, err error) {
	defer trackQuery("countAll", userRepo)(&err)

	count, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to count total users")
		return 0, fmt.Errorf("failed to count total users: %w", err)
	}
	return count, nil
}
