package validators

import "errors"

var (
	ErrNameMissing   = errors.New("missing required name field")
	ErrNameLength    = errors.New("name must be between 3 and 30 characters long")
	ErrContactEmail  = errors.New("a valid email is required")
	ErrPhoneMissing  = errors.New("missing required phone field")
	ErrPhoneTooShort = errors.New("phone must be at least 8 characters long")
)

// ContactValidator reports the first violation in a contact payload,
// in field order, so error responses always surface a single message.
func ContactValidator(name, email, phone string) error {
	if name == "" {
		return ErrNameMissing
	}

	if len(name) < 3 || len(name) > 30 {
		return ErrNameLength
	}

	if EmailValidator(email) != nil {
		return ErrContactEmail
	}

	if phone == "" {
		return ErrPhoneMissing
	}

	if len(phone) < 8 {
		return ErrPhoneTooShort
	}

	return nil
}
