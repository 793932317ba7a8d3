package service

import "github.com/google/uuid"

// MintToken returns a fresh magic-link access token. A random v4 UUID carries
// 122 bits of entropy; that entropy is the entire access control on the
// tracking endpoint, so the token must never be derived from the project id
// and must never appear in logs.
func MintToken() string {
	return uuid.NewString()
}
