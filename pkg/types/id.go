package types

import "github.com/google/uuid"

// NewID generates a record ID (UUID v7, falling back to v4).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// FillIDs gives every question without an ID a fresh one and reports how
// many it filled. Existing IDs are kept.
func FillIDs(questions []Question) int {
	filled := 0
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = NewID()
			filled++
		}
	}
	return filled
}
