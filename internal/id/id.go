// Package id generates prefixed NanoIDs for sessions and stream clients.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the IDs handed out by the service.
const (
	PrefixSession = "ses"
	PrefixClient  = "sse"
)

// Generate creates an ID of the form prefix-nanoid (e.g. "ses-V1StGXR8_Z5jdHi6B-myT").
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if the system has no entropy.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewSessionID returns a fresh discovery session ID.
func NewSessionID() (string, error) {
	return Generate(PrefixSession)
}

// NewClientID returns a fresh event stream client ID.
func NewClientID() string {
	return MustGenerate(PrefixClient)
}
