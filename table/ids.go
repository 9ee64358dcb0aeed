package table

import gonanoid "github.com/matoous/go-nanoid/v2"

const gameIDAlphabet = "23456789abcdefghjkmnpqrstuvwxyz"

// NewGameID returns a short URL-safe game identifier.
func NewGameID() (string, error) {
	return gonanoid.Generate(gameIDAlphabet, 10)
}
