package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mindgrid-games/mindgrid-web/internal/database"
	"github.com/mindgrid-games/mindgrid-web/internal/logger"
	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

type UserService struct {
	db  *database.DB
	log *logger.Log
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db, log: logger.New()}
}

// CreateUser creates a new player account
func (s *UserService) CreateUser(req *models.RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	if exists, err := s.UsernameExists(req.Username); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("username already exists")
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	user := &models.User{
		Username:    req.Username,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (username, password_hash, display_name, created_at)
		VALUES (:username, :password_hash, :display_name, :created_at)
	`

	result, err := s.db.NamedExec(query, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user ID: %w", err)
	}

	user.ID = int(id)
	return user, nil
}

// AuthenticateUser validates login credentials and returns the user
func (s *UserService) AuthenticateUser(req *models.LoginRequest) (*models.User, error) {
	user, err := s.GetUserByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if !user.CheckPassword(req.Password) {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := s.UpdateLastLogin(user.ID); err != nil {
		// Non-fatal, the login itself succeeded
		s.log.WithError(err).Warn(fmt.Sprintf("failed to update last login for user %d", user.ID))
	}

	return user, nil
}

// GetUserByUsername retrieves a user by their username
func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, password_hash, display_name, created_at, last_login_at
			  FROM users WHERE username = ?`

	err := s.db.Get(&user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UsernameExists checks whether a username is already taken
func (s *UserService) UsernameExists(username string) (bool, error) {
	var count int
	if err := s.db.Get(&count, `SELECT COUNT(*) FROM users WHERE username = ?`, username); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// UpdateLastLogin stamps the user's last login time
func (s *UserService) UpdateLastLogin(id int) error {
	_, err := s.db.Exec(`UPDATE users SET last_login_at = ? WHERE id = ?`, time.Now(), id)
	return err
}
