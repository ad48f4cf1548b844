package models

import (
	"time"

	"github.com/google/uuid"
)

type Channel struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"channel_name"`
	Description string    `json:"description"`
	Banner      string    `json:"channel_banner"`
	OwnerID     uuid.UUID `json:"owner"`
	Created_At  time.Time `json:"created_at"`
	Updated_At  time.Time `json:"updated_at"`
}
