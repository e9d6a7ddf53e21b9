package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tolmol/bidbazaar/internal/db"
	"github.com/tolmol/bidbazaar/internal/models"
)

// ErrUserExists means the username or email is already registered.
var ErrUserExists = errors.New("username or email already exists")

// Identity is the authenticated caller extracted from a token. Handlers
// pass it explicitly into every store call; there is no ambient
// current-user state.
type Identity struct {
	UserID            int
	Username          string
	IsServiceProvider bool
}

// RegisterParams carries the fields needed to create an account.
type RegisterParams struct {
	Username          string
	Email             string
	Phone             string
	Password          string
	IsServiceProvider bool
}

// AuthService handles registration, login and token verification
type AuthService struct {
	DB     *db.DB
	secret []byte
	expiry time.Duration
}

// NewAuthService creates a new auth service signing tokens with secret
func NewAuthService(database *db.DB, secret string, expiry time.Duration) *AuthService {
	return &AuthService{DB: database, secret: []byte(secret), expiry: expiry}
}

// Register creates a new user with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	if p.Username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if p.Email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}
	if p.Password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}
	if len(p.Username) > 80 {
		return nil, fmt.Errorf("username too long (max 80 characters)")
	}
	if len(p.Password) > 100 {
		return nil, fmt.Errorf("password too long (max 100 characters)")
	}

	taken, err := s.DB.UserExists(ctx, p.Username, p.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.DB.CreateUser(ctx, &models.User{
		Username:          p.Username,
		Email:             p.Email,
		Phone:             p.Phone,
		PasswordHash:      string(hashedPassword),
		IsServiceProvider: p.IsServiceProvider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and generates a signed JWT. The login name
// may be either the username or the registered email address.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, *models.User, error) {
	user, err := s.DB.GetUserByUsername(ctx, login)
	if err != nil {
		user, err = s.DB.GetUserByEmail(ctx, login)
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":             user.ID,
		"username":            user.Username,
		"is_service_provider": user.IsServiceProvider,
		"exp":                 time.Now().Add(s.expiry).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, user, nil
}

// ParseToken extracts the caller's identity from a JWT
func (s *AuthService) ParseToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	username, _ := claims["username"].(string)
	provider, _ := claims["is_service_provider"].(bool)

	return &Identity{
		UserID:            int(userID),
		Username:          username,
		IsServiceProvider: provider,
	}, nil
}
