package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/snehitv/vidshare-server/internal/apperror"
	"github.com/snehitv/vidshare-server/internal/models"
)

type PostgresCommentStore struct {
	db *sql.DB
}

func NewPostgresCommentStore(db *sql.DB) *PostgresCommentStore {
	if db == nil {
		panic("db cannot be nil for PostgresCommentStore")
	}
	return &PostgresCommentStore{db: db}
}

type CommentStore interface {
	CreateComment(comment *models.Comment) (*CommentWithAuthor, error)
	GetCommentsByVideoID(videoID uuid.UUID) ([]CommentWithAuthor, error)
	GetCommentByID(commentID uuid.UUID) (*models.Comment, error)
	DeleteComment(commentID uuid.UUID) error
}

// CreateComment inserts the comment and returns it with the author's
// username resolved.
func (pg *PostgresCommentStore) CreateComment(comment *models.Comment) (*CommentWithAuthor, error) {

	query := `
	INSERT INTO comments (video_id, user_id, body)
	VALUES ($1, $2, $3)
	RETURNING id, created_at;
	`

	err := pg.db.QueryRow(query, comment.Video_ID, comment.User_ID, comment.Text).
		Scan(&comment.Id, &comment.Created_At)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperror.NotFound("Video")
		}
		return nil, fmt.Errorf("error running create comment query: %w", err)
	}

	var username string
	err = pg.db.QueryRow(`SELECT username FROM users WHERE id = $1`, comment.User_ID).Scan(&username)
	if err != nil {
		return nil, fmt.Errorf("error resolving comment author: %w", err)
	}

	return &CommentWithAuthor{Comment: *comment, Username: username}, nil
}

func (pg *PostgresCommentStore) GetCommentsByVideoID(videoID uuid.UUID) ([]CommentWithAuthor, error) {

	query := `
	SELECT cm.id, cm.video_id, cm.user_id, cm.body, cm.created_at, u.username
	FROM comments cm
	JOIN users u ON u.id = cm.user_id
	WHERE cm.video_id = $1
	ORDER BY cm.created_at, cm.id;
	`

	rows, err := pg.db.Query(query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []CommentWithAuthor
	for rows.Next() {
		var c CommentWithAuthor
		err := rows.Scan(&c.Id, &c.Video_ID, &c.User_ID, &c.Text, &c.Created_At, &c.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over comment rows: %w", err)
	}

	return comments, nil
}

func (pg *PostgresCommentStore) GetCommentByID(commentID uuid.UUID) (*models.Comment, error) {

	comment := &models.Comment{}

	query := `
	SELECT id, video_id, user_id, body, created_at
	FROM comments
	WHERE id = $1;
	`

	err := pg.db.QueryRow(query, commentID).Scan(
		&comment.Id,
		&comment.Video_ID,
		&comment.User_ID,
		&comment.Text,
		&comment.Created_At,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("Comment")
	}
	if err != nil {
		return nil, fmt.Errorf("error running get comment query: %w", err)
	}

	return comment, nil
}

func (pg *PostgresCommentStore) DeleteComment(commentID uuid.UUID) error {

	result, err := pg.db.Exec(`DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("error running delete comment query: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading delete comment result: %w", err)
	}
	if rows == 0 {
		return apperror.NotFound("Comment")
	}

	return nil
}
