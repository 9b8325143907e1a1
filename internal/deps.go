package internal

import (
	"contactbook/contacts-api/internal/service"
	"contactbook/contacts-api/pkg/security"

	"gorm.io/gorm"
)

// Deps bundles everything the handlers need. Tests build one by hand
// with stub Mailer/Avatars implementations.
type Deps struct {
	DB      *gorm.DB
	Argon   *security.ArgonHash
	Mailer  service.Mailer
	Avatars service.AvatarStore
}
