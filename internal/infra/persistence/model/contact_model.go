package model

import "time"

// ContactModel mirrors the 'contacts' table. Every row is owned by exactly one
// account; all queries are scoped by AccountID.
type ContactModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	AccountID   int64     `gorm:"index;not null"`
	FirstName   string    `gorm:"type:varchar(100);not null"`
	LastName    string    `gorm:"type:varchar(100);not null"`
	Email       string    `gorm:"type:varchar(255);not null"`
	PhoneNumber string    `gorm:"type:varchar(50)"`
	Birthday    time.Time `gorm:"type:date"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ContactModel) TableName() string {
	return "contacts"
}
