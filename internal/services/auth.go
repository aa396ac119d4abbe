package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/salesboard/salesboard/internal/apperr"
	"github.com/salesboard/salesboard/internal/models"
	"github.com/salesboard/salesboard/internal/token"
)

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AuthResult is returned from register and login: the user profile plus
// a fresh bearer token.
type AuthResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// AuthService manages user accounts and credential verification.
type AuthService struct {
	users  *mongo.Collection
	tokens *token.Manager
	logger *zap.Logger
}

// NewAuthService creates an AuthService over the users collection.
func NewAuthService(database *mongo.Database, tokens *token.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  database.Collection("users"),
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new user account and issues a token. Every account
// gets the admin role; the dashboard is single-tenant.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (AuthResult, error) {
	count, err := s.users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return AuthResult{}, err
	}
	if count > 0 {
		return AuthResult{}, apperr.Conflict("Email already registered")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      "admin",
		CreatedAt: time.Now(),
	}

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return AuthResult{}, apperr.Conflict("Email already registered")
		}
		return AuthResult{}, err
	}

	t, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.Info("user registered", zap.String("email", email))

	user.Password = ""
	return AuthResult{User: user, Token: t}, nil
}

// Login verifies credentials and issues a token. Unknown emails and bad
// passwords produce the same error so callers cannot probe accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return AuthResult{}, apperr.Authentication("Invalid email or password")
	}

	if !VerifyPassword(password, user.Password) {
		return AuthResult{}, apperr.Authentication("Invalid email or password")
	}

	t, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.Info("user logged in", zap.String("email", email))

	user.Password = ""
	return AuthResult{User: user, Token: t}, nil
}

// FindByID loads a user profile. Also used by the auth middleware to
// reject tokens whose user no longer exists.
func (s *AuthService) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return models.User{}, err
	}

	user.Password = ""
	return user, nil
}
