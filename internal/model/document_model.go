package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Document struct {
	Id          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Url         string            `gorm:"type:text;not null"`
	StorageKey  string            `gorm:"type:text;not null"`
	Filename    string            `gorm:"type:text;not null"`
	Text        string            `gorm:"type:text;not null"`
	ContentType string            `gorm:"type:varchar(128)"`
	SizeBytes   int64             `gorm:"default:0"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt   time.Time         `gorm:"autoCreateTime;index"`
}

func (Document) TableName() string {
	return "documents"
}
