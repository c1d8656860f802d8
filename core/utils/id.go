package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"

	"today-scheduler/core/constants"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateEventID returns a short handle users can type back in chat
// (e.g. "/accept aB3xK9q").
func GenerateEventID() string {
	id, err := gonanoid.Generate(idAlphabet, constants.EventIDLength)
	if err != nil {
		return ""
	}
	return id
}
