package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Document struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	FolderId        *uuid.UUID     `gorm:"type:uuid;index"`
	Title           string         `gorm:"type:varchar(255);not null"`
	Content         datatypes.JSON `gorm:"type:jsonb"`
	ContentMarkdown string         `gorm:"type:text"`
	WordCount       int            `gorm:"default:0"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
