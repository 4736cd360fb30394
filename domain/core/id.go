package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID    ID
	IndexKey ID
)

func (id RunID) String() string    { return ID(id).String() }
func (id IndexKey) String() string { return ID(id).String() }

// ParseIndexKey parses a string into IndexKey
func ParseIndexKey(s string) (IndexKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("index key cannot be empty")
	}
	return IndexKey(s), nil
}
