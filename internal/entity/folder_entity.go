package entity

import (
	"time"

	"github.com/google/uuid"
)

type Folder struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
