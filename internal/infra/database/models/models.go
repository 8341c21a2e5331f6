package models

import (
	"time"
)

type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid"`
	Username string `json:"username" gorm:"type:text;uniqueIndex;not null"`
	Password string `json:"-" gorm:"type:text;not null"`
}

type Content struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Title     string    `json:"title" gorm:"type:text;not null"`
	Link      string    `json:"link" gorm:"type:text;not null"`
	Type      string    `json:"type" gorm:"type:text;not null"`
	OwnerID   string    `json:"userId" gorm:"type:uuid;index;not null"`
	Owner     User      `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;"`
	Tags      []Tag     `json:"tags" gorm:"many2many:content_tags;"`
	CreatedAt time.Time `json:"createdAt" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Tag struct {
	ID   string `json:"id" gorm:"primaryKey;type:uuid"`
	Name string `json:"name" gorm:"type:text;uniqueIndex;not null"`
}

type ShareLink struct {
	ID      string `json:"id" gorm:"primaryKey;type:uuid"`
	Hash    string `json:"hash" gorm:"type:text;index;not null"`
	OwnerID string `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	Owner   User   `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;"`
}
