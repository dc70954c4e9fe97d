package domain

// Identity is the authenticated caller as supplied by the session layer.
type Identity struct {
	UserID  string
	Email   string
	Name    string
	Phone   string
	IsAdmin bool
}

// Snapshot copies the attribution fields stored on complaints and comments.
func (i Identity) Snapshot() UserSnapshot {
	return UserSnapshot{ID: i.UserID, Email: i.Email, Name: i.Name, Phone: i.Phone}
}

// UserSnapshot is a denormalized copy of a user taken at write time.
type UserSnapshot struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}
