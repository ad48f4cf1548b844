package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/snehitv/vidshare-server/internal/apperror"
	"github.com/snehitv/vidshare-server/internal/models"
)

type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Categories a video may be uploaded under.
var Categories = []string{
	"Music",
	"Gaming",
	"Education",
	"Web Development",
	"JavaScript",
	"Sports",
	"Fun Video",
	"Food",
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type VideoWithChannel struct {
	models.Video
	ChannelName string `json:"channel_name"`
}

type CommentWithAuthor struct {
	models.Comment
	Username string `json:"username"`
}

type VideoDetail struct {
	models.Video
	ChannelName   string              `json:"channel_name"`
	ChannelBanner string              `json:"channel_banner"`
	Likes         int                 `json:"likes"`
	Dislikes      int                 `json:"dislikes"`
	Comments      []CommentWithAuthor `json:"comments"`
}

type PostgresVideoStore struct {
	db *sql.DB
}

func NewPostgresVideoStore(db *sql.DB) *PostgresVideoStore {
	if db == nil {
		panic("db cannot be nil for PostgresVideoStore")
	}
	return &PostgresVideoStore{db: db}
}

type VideoStore interface {
	CreateVideo(video *models.Video) error
	GetVideos() ([]VideoWithChannel, error)
	GetVideoByID(videoID uuid.UUID) (*VideoDetail, error)
	SearchVideos(query string) ([]VideoWithChannel, error)
	DeleteVideo(videoID uuid.UUID) error
	ToggleReaction(videoID uuid.UUID, userID uuid.UUID, reaction Reaction) (active bool, count int, err error)
	GetLikeStatus(videoID uuid.UUID, userID uuid.UUID) (bool, error)
	IncrementViews(videoID uuid.UUID) (*models.Video, error)
}

func (pg *PostgresVideoStore) CreateVideo(video *models.Video) error {

	query := `
	INSERT INTO videos (title, description, thumbnail_url, video_url, category, uploader_id, channel_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, views, created_at, updated_at;
	`

	err := pg.db.QueryRow(query,
		video.Title,
		video.Description,
		video.Thumbnail,
		video.VideoURL,
		video.Category,
		video.UploaderID,
		video.Channel_ID,
	).Scan(&video.Id, &video.Views, &video.Created_At, &video.Updated_At)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("Channel")
		}
		return fmt.Errorf("error running create video query: %w", err)
	}

	return nil
}

// GetVideos returns every video with its channel name, in insertion order.
func (pg *PostgresVideoStore) GetVideos() ([]VideoWithChannel, error) {

	query := `
	SELECT v.id, v.title, v.description, v.thumbnail_url, v.video_url, v.category,
	       v.uploader_id, v.channel_id, v.views, v.created_at, v.updated_at,
	       c.channel_name
	FROM videos v
	JOIN channels c ON c.id = v.channel_id
	ORDER BY v.created_at, v.id;
	`

	rows, err := pg.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get videos: %w", err)
	}
	defer rows.Close()

	return scanVideosWithChannel(rows)
}

func (pg *PostgresVideoStore) GetVideoByID(videoID uuid.UUID) (*VideoDetail, error) {

	query := `
	SELECT v.id, v.title, v.description, v.thumbnail_url, v.video_url, v.category,
	       v.uploader_id, v.channel_id, v.views, v.created_at, v.updated_at,
	       c.channel_name, c.channel_banner,
	       (SELECT COUNT(*) FROM video_reactions r WHERE r.video_id = v.id AND r.reaction = 'like'),
	       (SELECT COUNT(*) FROM video_reactions r WHERE r.video_id = v.id AND r.reaction = 'dislike')
	FROM videos v
	JOIN channels c ON c.id = v.channel_id
	WHERE v.id = $1;
	`

	video := &VideoDetail{}
	err := pg.db.QueryRow(query, videoID).Scan(
		&video.Id,
		&video.Title,
		&video.Description,
		&video.Thumbnail,
		&video.VideoURL,
		&video.Category,
		&video.UploaderID,
		&video.Channel_ID,
		&video.Views,
		&video.Created_At,
		&video.Updated_At,
		&video.ChannelName,
		&video.ChannelBanner,
		&video.Likes,
		&video.Dislikes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("Video")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}

	comments, err := pg.getVideoComments(videoID)
	if err != nil {
		return nil, err
	}
	video.Comments = comments

	return video, nil
}

// SearchVideos matches the query as a literal, case-insensitive substring of
// title, description or category. LIKE metacharacters in user input are
// escaped so "c++" or "100%" cannot act as pattern syntax.
func (pg *PostgresVideoStore) SearchVideos(searchQuery string) ([]VideoWithChannel, error) {

	pattern := "%" + escapeLikePattern(searchQuery) + "%"

	query := `
	SELECT v.id, v.title, v.description, v.thumbnail_url, v.video_url, v.category,
	       v.uploader_id, v.channel_id, v.views, v.created_at, v.updated_at,
	       c.channel_name
	FROM videos v
	JOIN channels c ON c.id = v.channel_id
	WHERE v.title ILIKE $1 ESCAPE '\'
	   OR v.description ILIKE $1 ESCAPE '\'
	   OR v.category ILIKE $1 ESCAPE '\'
	ORDER BY v.created_at, v.id;
	`

	rows, err := pg.db.Query(query, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}
	defer rows.Close()

	return scanVideosWithChannel(rows)
}

// DeleteVideo drops the video row. Comments and reactions cascade with it,
// and the channel's video list loses the entry implicitly.
func (pg *PostgresVideoStore) DeleteVideo(videoID uuid.UUID) error {

	result, err := pg.db.Exec(`DELETE FROM videos WHERE id = $1`, videoID)
	if err != nil {
		return fmt.Errorf("error running delete video query: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading delete video result: %w", err)
	}
	if rows == 0 {
		return apperror.NotFound("Video")
	}

	return nil
}

// ToggleReaction flips the caller's like or dislike on a video. A single
// reaction row exists per (video, user), so setting a like atomically clears
// a prior dislike and vice versa. Returns whether the reaction is active
// after the toggle and the new count for that reaction kind.
func (pg *PostgresVideoStore) ToggleReaction(videoID uuid.UUID, userID uuid.UUID, reaction Reaction) (bool, int, error) {

	tx, err := pg.db.Begin()
	if err != nil {
		return false, 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`, videoID).Scan(&exists)
	if err != nil {
		return false, 0, fmt.Errorf("error checking video: %w", err)
	}
	if !exists {
		return false, 0, apperror.NotFound("Video")
	}

	// Remove the same reaction if present (toggle off)...
	var removed bool
	err = tx.QueryRow(`
		WITH deleted AS (
			DELETE FROM video_reactions
			WHERE video_id = $1 AND user_id = $2 AND reaction = $3
			RETURNING 1
		)
		SELECT EXISTS (SELECT 1 FROM deleted);
	`, videoID, userID, string(reaction)).Scan(&removed)
	if err != nil {
		return false, 0, fmt.Errorf("error removing reaction: %w", err)
	}

	// ...otherwise set it, replacing any opposite reaction.
	active := false
	if !removed {
		_, err = tx.Exec(`
			INSERT INTO video_reactions (video_id, user_id, reaction)
			VALUES ($1, $2, $3)
			ON CONFLICT (video_id, user_id) DO UPDATE SET reaction = EXCLUDED.reaction;
		`, videoID, userID, string(reaction))
		if err != nil {
			return false, 0, fmt.Errorf("error setting reaction: %w", err)
		}
		active = true
	}

	var count int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM video_reactions
		WHERE video_id = $1 AND reaction = $2;
	`, videoID, string(reaction)).Scan(&count)
	if err != nil {
		return false, 0, fmt.Errorf("error counting reactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return active, count, nil
}

func (pg *PostgresVideoStore) GetLikeStatus(videoID uuid.UUID, userID uuid.UUID) (bool, error) {

	var exists bool
	err := pg.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`, videoID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking video: %w", err)
	}
	if !exists {
		return false, apperror.NotFound("Video")
	}

	var liked bool
	err = pg.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM video_reactions
			WHERE video_id = $1 AND user_id = $2 AND reaction = 'like'
		);
	`, videoID, userID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("error getting like status: %w", err)
	}

	return liked, nil
}

// IncrementViews bumps the view counter in a single UPDATE so concurrent
// callers never lose an increment.
func (pg *PostgresVideoStore) IncrementViews(videoID uuid.UUID) (*models.Video, error) {

	query := `
	UPDATE videos
	SET views = views + 1, updated_at = now()
	WHERE id = $1
	RETURNING id, title, description, thumbnail_url, video_url, category,
	          uploader_id, channel_id, views, created_at, updated_at;
	`

	video := &models.Video{}
	err := pg.db.QueryRow(query, videoID).Scan(
		&video.Id,
		&video.Title,
		&video.Description,
		&video.Thumbnail,
		&video.VideoURL,
		&video.Category,
		&video.UploaderID,
		&video.Channel_ID,
		&video.Views,
		&video.Created_At,
		&video.Updated_At,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("Video")
	}
	if err != nil {
		return nil, fmt.Errorf("error incrementing video views: %w", err)
	}

	return video, nil
}

func (pg *PostgresVideoStore) getVideoComments(videoID uuid.UUID) ([]CommentWithAuthor, error) {

	query := `
	SELECT cm.id, cm.video_id, cm.user_id, cm.body, cm.created_at, u.username
	FROM comments cm
	JOIN users u ON u.id = cm.user_id
	WHERE cm.video_id = $1
	ORDER BY cm.created_at, cm.id;
	`

	rows, err := pg.db.Query(query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get video comments: %w", err)
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

func scanVideosWithChannel(rows *sql.Rows) ([]VideoWithChannel, error) {
	var videos []VideoWithChannel
	for rows.Next() {
		var v VideoWithChannel
		err := rows.Scan(
			&v.Id,
			&v.Title,
			&v.Description,
			&v.Thumbnail,
			&v.VideoURL,
			&v.Category,
			&v.UploaderID,
			&v.Channel_ID,
			&v.Views,
			&v.Created_At,
			&v.Updated_At,
			&v.ChannelName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over video rows: %w", err)
	}

	return videos, nil
}

// escapeLikePattern escapes LIKE/ILIKE metacharacters so user input matches
// literally.
func escapeLikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
