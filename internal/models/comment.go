package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	Id         uuid.UUID `json:"id"`
	Video_ID   uuid.UUID `json:"video_id"`
	User_ID    uuid.UUID `json:"user_id"`
	Text       string    `json:"text"`
	Created_At time.Time `json:"created_at"`
}
