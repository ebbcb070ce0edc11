package models

import "time"

// KVEntry is a device-local key-value slot. The session blob lives in one
// of these under a fixed key; concurrent writers are not coordinated, the
// last write wins.
type KVEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// ChatMessage is a locally persisted group-chat message. Messages never
// leave the device and never reach the remote directory.
type ChatMessage struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	GroupID    string    `gorm:"not null;index" json:"group_id"`
	AuthorID   string    `gorm:"not null" json:"author_id"`
	AuthorName string    `gorm:"not null" json:"author_name"`
	Body       string    `gorm:"not null" json:"body"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
