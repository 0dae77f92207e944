package gormstore

import "time"

type principalModel struct {
	ID                   string `gorm:"primaryKey;size:36"`
	Username             string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash         string
	Email                string `gorm:"size:255"`
	DisplayName          string `gorm:"size:255"`
	LastCredentialChange *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (principalModel) TableName() string { return "principals" }

type socialLinkModel struct {
	Provider    string `gorm:"primaryKey;size:64"`
	ExternalID  string `gorm:"primaryKey;size:255"`
	PrincipalID string `gorm:"index;size:36;not null"`
	CreatedAt   time.Time
}

func (socialLinkModel) TableName() string { return "social_links" }
