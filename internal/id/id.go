// Package id provides identifier generation for local and synced records.
package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "space-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character. They are
// used for records that never leave the local store, such as spaces,
// whose remote identity is resolved by name rather than by id.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewUUID generates a random UUID string.
//
// Records whose ids cross the wire (collections, tabs) must be UUIDs
// because the remote schema uses uuid primary keys.
func NewUUID() string {
	return uuid.NewString()
}

// IsUUID reports whether s is a syntactically valid UUID. Legacy local
// tab ids ("tab-1699...") fail this check and are regenerated before
// they are pushed remotely.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Slug converts a name to a lowercase, hyphen-separated identifier.
// Used to derive a readable local space id from a workspace name when
// one is first pulled from the remote store.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
