package session

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

const tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// TokenLength matches the session_id format accepted by the validation package.
const TokenLength = 96

func NewTokenGenerator() (func() string, error) {
	generate, err := nanoid.CustomASCII(tokenAlphabet, TokenLength)
	if err != nil {
		return nil, fmt.Errorf("session: failed to initialize token generator: %w", err)
	}
	return generate, nil
}
