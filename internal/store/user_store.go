package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/snehitv/vidshare-server/internal/apperror"
	"github.com/snehitv/vidshare-server/internal/models"
)

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil for PostgresUserStore")
	}
	return &PostgresUserStore{db: db}
}

type UserStore interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uuid.UUID) (*models.User, error)
}

func (pg *PostgresUserStore) CreateUser(user *models.User) error {

	query := `
	INSERT INTO users (username, email, password_hash)
	VALUES ($1, $2, $3)
	RETURNING id, created_at, updated_at;
	`

	err := pg.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.Created_At, &user.Updated_At)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("User already exists")
		}
		return fmt.Errorf("error running create user query: %w", err)
	}

	return nil
}

func (pg *PostgresUserStore) GetUserByEmail(email string) (*models.User, error) {
	user := &models.User{}

	query := `
	SELECT id, username, email, password_hash, created_at, updated_at
	FROM users
	WHERE email = $1;
	`

	err := pg.db.QueryRow(query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Created_At,
		&user.Updated_At,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("error running get user by email query: %w", err)
	}

	return user, nil
}

func (pg *PostgresUserStore) GetUserByID(id uuid.UUID) (*models.User, error) {
	user := &models.User{}

	query := `
	SELECT id, username, email, password_hash, created_at, updated_at
	FROM users
	WHERE id = $1;
	`

	err := pg.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Created_At,
		&user.Updated_At,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("error running get user by id query: %w", err)
	}

	return user, nil
}
