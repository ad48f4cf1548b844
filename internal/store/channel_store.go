package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/snehitv/vidshare-server/internal/apperror"
	"github.com/snehitv/vidshare-server/internal/models"
)

type ChannelWithVideos struct {
	models.Channel
	SubscriberCount int            `json:"subscribers"`
	Videos          []models.Video `json:"videos"`
}

type ChannelStats struct {
	Subscribers int `json:"subscribers"`
	Videos      int `json:"videos"`
	TotalViews  int `json:"total_views"`
}

type PostgresChannelStore struct {
	db *sql.DB
}

func NewPostgresChannelStore(db *sql.DB) *PostgresChannelStore {
	if db == nil {
		panic("db cannot be nil for PostgresChannelStore")
	}
	return &PostgresChannelStore{db: db}
}

type ChannelStore interface {
	CreateChannel(channel *models.Channel) error
	GetChannelByID(channelID uuid.UUID) (*ChannelWithVideos, error)
	GetChannelByOwner(userID uuid.UUID) (*ChannelWithVideos, error)
	DeleteChannel(channelID uuid.UUID) error
	ToggleSubscription(channelID uuid.UUID, userID uuid.UUID) (subscribed bool, subscribers int, err error)
	GetChannelStats(channelID uuid.UUID) (*ChannelStats, error)
}

func (pg *PostgresChannelStore) CreateChannel(channel *models.Channel) error {

	query := `
	INSERT INTO channels (channel_name, description, channel_banner, owner_id)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at, updated_at;
	`

	err := pg.db.QueryRow(query, channel.Name, channel.Description, channel.Banner, channel.OwnerID).
		Scan(&channel.Id, &channel.Created_At, &channel.Updated_At)
	if err != nil {
		// channels.owner_id is UNIQUE: one channel per user
		if isUniqueViolation(err) {
			return apperror.Conflict("You already have a channel.")
		}
		return fmt.Errorf("error running create channel query: %w", err)
	}

	return nil
}

func (pg *PostgresChannelStore) GetChannelByID(channelID uuid.UUID) (*ChannelWithVideos, error) {

	query := `
	SELECT c.id, c.channel_name, c.description, c.channel_banner, c.owner_id,
	       c.created_at, c.updated_at,
	       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = c.id)
	FROM channels c
	WHERE c.id = $1;
	`

	channel := &ChannelWithVideos{}
	err := pg.db.QueryRow(query, channelID).Scan(
		&channel.Id,
		&channel.Name,
		&channel.Description,
		&channel.Banner,
		&channel.OwnerID,
		&channel.Created_At,
		&channel.Updated_At,
		&channel.SubscriberCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("Channel")
	}
	if err != nil {
		return nil, fmt.Errorf("error running get channel query: %w", err)
	}

	videos, err := pg.getChannelVideos(channel.Id)
	if err != nil {
		return nil, err
	}
	channel.Videos = videos

	return channel, nil
}

// GetChannelByOwner returns (nil, nil) when the user has no channel. Callers
// must treat that as "no channel yet", not as a lookup failure.
func (pg *PostgresChannelStore) GetChannelByOwner(userID uuid.UUID) (*ChannelWithVideos, error) {

	query := `
	SELECT c.id, c.channel_name, c.description, c.channel_banner, c.owner_id,
	       c.created_at, c.updated_at,
	       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = c.id)
	FROM channels c
	WHERE c.owner_id = $1;
	`

	channel := &ChannelWithVideos{}
	err := pg.db.QueryRow(query, userID).Scan(
		&channel.Id,
		&channel.Name,
		&channel.Description,
		&channel.Banner,
		&channel.OwnerID,
		&channel.Created_At,
		&channel.Updated_At,
		&channel.SubscriberCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error running get channel by owner query: %w", err)
	}

	videos, err := pg.getChannelVideos(channel.Id)
	if err != nil {
		return nil, err
	}
	channel.Videos = videos

	return channel, nil
}

// DeleteChannel removes the channel in one statement. The videos FK carries
// ON DELETE CASCADE, so the channel's videos (and through them their
// comments and reactions) go in the same atomic operation; a crash cannot
// leave orphan videos behind.
func (pg *PostgresChannelStore) DeleteChannel(channelID uuid.UUID) error {

	result, err := pg.db.Exec(`DELETE FROM channels WHERE id = $1`, channelID)
	if err != nil {
		return fmt.Errorf("error running delete channel query: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading delete channel result: %w", err)
	}
	if rows == 0 {
		return apperror.NotFound("Channel")
	}

	return nil
}

// ToggleSubscription flips the caller's membership in the channel's
// subscriber set. The remove and add are each a single conditional
// statement, so concurrent identical requests cannot double-add.
func (pg *PostgresChannelStore) ToggleSubscription(channelID uuid.UUID, userID uuid.UUID) (bool, int, error) {

	tx, err := pg.db.Begin()
	if err != nil {
		return false, 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM channels WHERE id = $1)`, channelID).Scan(&exists)
	if err != nil {
		return false, 0, fmt.Errorf("error checking channel: %w", err)
	}
	if !exists {
		return false, 0, apperror.NotFound("Channel")
	}

	var removed bool
	err = tx.QueryRow(`
		WITH deleted AS (
			DELETE FROM subscriptions
			WHERE channel_id = $1 AND user_id = $2
			RETURNING 1
		)
		SELECT EXISTS (SELECT 1 FROM deleted);
	`, channelID, userID).Scan(&removed)
	if err != nil {
		return false, 0, fmt.Errorf("error removing subscription: %w", err)
	}

	subscribed := false
	if !removed {
		_, err = tx.Exec(`
			INSERT INTO subscriptions (channel_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (channel_id, user_id) DO NOTHING;
		`, channelID, userID)
		if err != nil {
			return false, 0, fmt.Errorf("error adding subscription: %w", err)
		}
		subscribed = true
	}

	var count int
	err = tx.QueryRow(`SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID).Scan(&count)
	if err != nil {
		return false, 0, fmt.Errorf("error counting subscribers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return subscribed, count, nil
}

func (pg *PostgresChannelStore) GetChannelStats(channelID uuid.UUID) (*ChannelStats, error) {

	var exists bool
	err := pg.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM channels WHERE id = $1)`, channelID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("error checking channel: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("Channel")
	}

	var stats ChannelStats

	query := `
	SELECT
		(SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1),
		(SELECT COUNT(*) FROM videos WHERE channel_id = $1),
		(SELECT COALESCE(SUM(views), 0) FROM videos WHERE channel_id = $1);
	`

	err = pg.db.QueryRow(query, channelID).Scan(&stats.Subscribers, &stats.Videos, &stats.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("error getting channel stats: %w", err)
	}

	return &stats, nil
}

func (pg *PostgresChannelStore) getChannelVideos(channelID uuid.UUID) ([]models.Video, error) {

	query := `
	SELECT id, title, description, thumbnail_url, video_url, category,
	       uploader_id, channel_id, views, created_at, updated_at
	FROM videos
	WHERE channel_id = $1
	ORDER BY created_at, id;
	`

	rows, err := pg.db.Query(query, channelID)
	if err != nil {
		return nil, fmt.Errorf("error running get channel videos query: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
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
