// Package model holds the GORM persistence models backing the domain entities.
package model

import "time"

// AccountModel mirrors the 'accounts' table.
type AccountModel struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	Email        string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string  `gorm:"type:varchar(100);not null"`
	PasswordHash string  `gorm:"type:varchar(255);not null"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'"`
	Confirmed    bool    `gorm:"not null;default:false"`
	RefreshToken *string `gorm:"type:varchar(512)"`
	AvatarURL    *string `gorm:"type:varchar(512)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Contacts []ContactModel `gorm:"foreignKey:AccountID"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
