package command

import "errors"

// Domain-specific errors for the command package.
var (
	ErrEmptyCommand = errors.New("command text is empty")
	ErrAuthExpired  = errors.New("calendar authorization expired")
)
