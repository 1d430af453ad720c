package interpreter

import "errors"

// Domain-specific errors for the interpreter package.
var (
	// ErrUnparsable means the model's text contained no usable JSON action.
	// It triggers the local fallback parser and is never shown to the user.
	ErrUnparsable = errors.New("no usable action in model response")
)
