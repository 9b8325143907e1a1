// Package model contains the GORM models persisted by the application
package model

import "time"

type Contact struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"not null" json:"name"`
	Email    string  `gorm:"not null" json:"email"`
	Phone    string  `gorm:"not null" json:"phone"`
	Favorite bool    `gorm:"default:false" json:"favorite"`
	OwnerID  *string `gorm:"index" json:"owner,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
