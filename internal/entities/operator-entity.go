package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Operator struct {
	ID           uint64
	Username     string
	Fio          string
	Email        null.String
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
