package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail_url"`
	VideoURL    string    `json:"video_url"`
	Category    string    `json:"category"`
	UploaderID  uuid.UUID `json:"uploader"`
	Channel_ID  uuid.UUID `json:"channel_id"`
	Views       int       `json:"views"`
	Created_At  time.Time `json:"created_at"`
	Updated_At  time.Time `json:"updated_at"`
}
