package model

import (
	"time"

	"gorm.io/datatypes"
)

// ChatSession is the relational session row. Timestamps are managed by the
// repository, not gorm: a rename rewrites session ids without touching
// updated_at, so auto-time hooks stay off.
type ChatSession struct {
	SessionID   string    `gorm:"type:varchar(255);primaryKey"`
	UserName    string    `gorm:"type:varchar(255);not null"`
	UserPersona string    `gorm:"type:text"`
	Model       string    `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
	Context     datatypes.JSON
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
