package model

import "time"

const (
	SubscriptionStarter  = "starter"
	SubscriptionPro      = "pro"
	SubscriptionBusiness = "business"
)

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Subscription string `gorm:"default:starter"`
	AvatarURL    string

	// Token holds the live session JWT. A new login overwrites it,
	// logout sets it back to NULL.
	Token *string

	Verified          bool    `gorm:"default:false"`
	VerificationToken *string `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Contacts []Contact `gorm:"foreignKey:OwnerID"`
}

// Profile is the public subset of a user returned by the auth endpoints.
type Profile struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
	AvatarURL    string `json:"avatarURL"`
}

func (u *User) Public() Profile {
	return Profile{
		Email:        u.Email,
		Subscription: u.Subscription,
		AvatarURL:    u.AvatarURL,
	}
}
