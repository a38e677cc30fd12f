package model

import (
	"time"

	"gorm.io/datatypes"
)

// ChatMessage is one transcript row. The autoincrement id is the insertion
// order; history reads sort on it rather than on the timestamp, which has
// only second precision in imported transcripts.
type ChatMessage struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	SessionID string         `gorm:"type:varchar(255);not null;index"`
	Role      string         `gorm:"type:varchar(32);not null"`
	Content   string         `gorm:"type:text;not null"`
	Timestamp time.Time      `gorm:"autoCreateTime:false"`
	Metadata  datatypes.JSON
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
