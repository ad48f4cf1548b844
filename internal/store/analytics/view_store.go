package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
)

type ClickhouseViewStore struct {
	conn driver.Conn
}

func NewClickhouseViewStore(conn driver.Conn) *ClickhouseViewStore {
	return &ClickhouseViewStore{conn: conn}
}

type DailyViews struct {
	Day   time.Time `json:"day"`
	Views uint64    `json:"views"`
}

type ViewStore interface {
	RecordView(ctx context.Context, videoID uuid.UUID) error
	GetViewTimeline(ctx context.Context, videoID uuid.UUID) ([]DailyViews, error)
}

// RecordView appends one view event. Best effort: the caller logs failures
// and never fails the request over analytics.
func (c *ClickhouseViewStore) RecordView(ctx context.Context, videoID uuid.UUID) error {

	query := `
		INSERT INTO view_events (video_id, viewed_at)
		VALUES (?, now())
	`

	if err := c.conn.Exec(ctx, query, videoID.String()); err != nil {
		return fmt.Errorf("failed to record view event: %w", err)
	}

	return nil
}

func (c *ClickhouseViewStore) GetViewTimeline(ctx context.Context, videoID uuid.UUID) ([]DailyViews, error) {

	query := `
		SELECT toStartOfDay(viewed_at) AS day, count() AS views
		FROM view_events
		WHERE video_id = ?
		GROUP BY day
		ORDER BY day DESC
	`

	rows, err := c.conn.Query(ctx, query, videoID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get view timeline: %w", err)
	}
	defer rows.Close()

	var timeline []DailyViews

	for rows.Next() {
		var d DailyViews
		if err := rows.Scan(&d.Day, &d.Views); err != nil {
			return nil, fmt.Errorf("failed to scan view row: %w", err)
		}
		timeline = append(timeline, d)
	}

	return timeline, nil
}
