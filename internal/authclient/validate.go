package authclient

import "strings"

type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

const MinPasswordLength = 6

type Credentials struct {
	Name     string
	Email    string
	Password string
}

// ValidationError is a form problem detected before any request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks the form the way the sign-in screen does, first problem wins.
func Validate(mode Mode, c Credentials) error {
	switch {
	case strings.TrimSpace(c.Email) == "":
		return &ValidationError{"Please enter your email address."}
	case strings.TrimSpace(c.Password) == "":
		return &ValidationError{"Please enter your password."}
	case mode == ModeSignup && strings.TrimSpace(c.Name) == "":
		return &ValidationError{"Please enter your full name."}
	case len(c.Password) < MinPasswordLength:
		return &ValidationError{"Password must be at least 6 characters."}
	}
	return nil
}
