package services

import (
	"database/sql"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teamworkhq/teamwork/internal/database"
	models "github.com/teamworkhq/teamwork/internal/models/users"
	"github.com/teamworkhq/teamwork/pkg/utils"
)

type AuthService struct {
	DB *sql.DB
}

// NewAuthService creates a new instance of AuthService
func NewAuthService() *AuthService {
	return &AuthService{
		DB: database.DB,
	}
}

// Signup registers a new user and returns its id.
func (s *AuthService) Signup(user models.User) (int64, error) {
	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		return 0, err
	}

	var existingUserID int64
	err = s.DB.QueryRow("SELECT user_id FROM users WHERE email = ?", user.Email).Scan(&existingUserID)
	if err == nil {
		return 0, errors.New("email already registered")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	result, err := s.DB.Exec(
		"INSERT INTO users (email, password, name, created_at) VALUES (?, ?, ?, ?)",
		user.Email, hashedPassword, user.Name, time.Now().Unix(),
	)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// Login authenticates a user and returns a signed token.
func (s *AuthService) Login(email, password string) (string, models.User, error) {
	var user models.User
	query := "SELECT user_id, email, password, name FROM users WHERE email = ?"
	err := s.DB.QueryRow(query, email).Scan(&user.UserID, &user.Email, &user.Password, &user.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.User{}, errors.New("user not found")
		}
		return "", models.User{}, err
	}
	if err := utils.CheckPassword(user.Password, password); err != nil {
		return "", models.User{}, errors.New("invalid credentials")
	}

	token, err := s.GenerateJWT(user.Email, user.UserID)
	user.Password = ""
	if err != nil {
		return "", models.User{}, err
	}

	return token, user, nil
}

// GenerateJWT creates a JWT token for authentication
func (s *AuthService) GenerateJWT(email string, userID int64) (string, error) {
	secretKey := os.Getenv("JWT_SECRET")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":   email,
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})

	return token.SignedString([]byte(secretKey))
}
