package domain

import (
	"slices"
	"time"
)

// OtherCategory is assigned when nothing more specific matches.
const OtherCategory = "Otros"

// Entity is a responsible organization in the directory.
type Entity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	WhatsApp    string    `json:"whatsapp,omitempty"`
	Address     string    `json:"address,omitempty"`
	Categories  []string  `json:"categories"`
	Active      bool      `json:"active"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Handles reports whether the entity declares category. Matching is exact.
func (e *Entity) Handles(category string) bool {
	return slices.Contains(e.Categories, category)
}

// Snapshot copies the fields a complaint keeps about its entity.
func (e *Entity) Snapshot() EntitySnapshot {
	return EntitySnapshot{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Website:     e.Website,
		Email:       e.Email,
		Phone:       e.Phone,
		WhatsApp:    e.WhatsApp,
		Address:     e.Address,
		Categories:  slices.Clone(e.Categories),
	}
}

// EntitySnapshot is the denormalized copy of an Entity stored on a complaint.
// Later directory edits do not touch it unless an admin re-resolves it.
type EntitySnapshot struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Website     string   `json:"website,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	WhatsApp    string   `json:"whatsapp,omitempty"`
	Address     string   `json:"address,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}
