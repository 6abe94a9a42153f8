package id

import "github.com/google/uuid"

// GenerateID creates a unique identifier for a stored report.
func GenerateID() string {
	return uuid.NewString()
}
