package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Gender       string    `json:"gender"`
	Age          int       `json:"age"`
	Bio          string    `json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
}
