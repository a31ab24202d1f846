package domain

import "unicode"

// MinPasswordLength is the shortest password accepted at user creation.
const MinPasswordLength = 6

// ValidatePassword enforces the password strength policy: at least
// MinPasswordLength characters with a digit, a lower case letter, an upper
// case letter and a non-alphanumeric character.
func ValidatePassword(password string) error {
	if password == "" {
		return NewValidationError("password", "password is required")
	}

	var n int
	var digit, lower, upper, symbol bool
	for _, r := range password {
		n++
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			symbol = true
		}
	}

	switch {
	case n < MinPasswordLength:
		return NewValidationError("password", "password must be at least 6 characters")
	case !digit:
		return NewValidationError("password", "password must contain a digit")
	case !lower:
		return NewValidationError("password", "password must contain a lower case letter")
	case !upper:
		return NewValidationError("password", "password must contain an upper case letter")
	case !symbol:
		return NewValidationError("password", "password must contain a non-alphanumeric character")
	}
	return nil
}
