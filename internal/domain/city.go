package domain

import (
	"time"

	"github.com/google/uuid"
)

// City represents a locality referenced by real-estate investments
type City struct {
	ID        uuid.UUID
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
