package domain

import "time"

// Location is where the problem was reported.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Address   string  `json:"address,omitempty"`
}

// Complaint is a citizen report. Entity and Submitter are owned copies.
// Images holds the URLs of photos attached at creation.
type Complaint struct {
	ID                   string               `json:"id"`
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	Location             Location             `json:"location"`
	Images               []string             `json:"images"`
	Category             string               `json:"category"`
	EntityName           string               `json:"entity_name"`
	Entity               EntitySnapshot       `json:"entity"`
	ClassificationMethod ClassificationMethod `json:"classification_method"`
	Confidence           int                  `json:"confidence"`
	Reasoning            string               `json:"reasoning,omitempty"`
	Status               Status               `json:"status"`
	Priority             Priority             `json:"priority"`
	Submitter            UserSnapshot         `json:"submitter"`
	Rating               *int                 `json:"rating"`
	RatingComment        string               `json:"rating_comment,omitempty"`
	Redirected           bool                 `json:"redirected_to_entity"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
	ResolvedAt           *time.Time           `json:"resolved_at,omitempty"`
}

// OwnedBy reports whether userID submitted the complaint.
func (c *Complaint) OwnedBy(userID string) bool {
	return userID != "" && c.Submitter.ID == userID
}

// ComplaintPatch is a partial update. Nil fields are left untouched.
// UpdatedAt is applied as max(current, UpdatedAt) so it never moves back.
// ResolvedAt is only written when the stored value is still empty.
type ComplaintPatch struct {
	Status               *Status
	Priority             *Priority
	Rating               *int
	RatingComment        *string
	Redirected           *bool
	Category             *string
	Entity               *EntitySnapshot
	ClassificationMethod *ClassificationMethod
	Confidence           *int
	Reasoning            *string
	ResolvedAt           *time.Time
	UpdatedAt            time.Time
}

// Apply mutates c the way a store applies the patch.
func (p *ComplaintPatch) Apply(c *Complaint) {
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Priority != nil {
		c.Priority = *p.Priority
	}
	if p.Rating != nil {
		r := *p.Rating
		c.Rating = &r
	}
	if p.RatingComment != nil {
		c.RatingComment = *p.RatingComment
	}
	if p.Redirected != nil {
		c.Redirected = *p.Redirected
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Entity != nil {
		c.Entity = *p.Entity
		c.EntityName = p.Entity.Name
	}
	if p.ClassificationMethod != nil {
		c.ClassificationMethod = *p.ClassificationMethod
	}
	if p.Confidence != nil {
		c.Confidence = *p.Confidence
	}
	if p.Reasoning != nil {
		c.Reasoning = *p.Reasoning
	}
	if p.ResolvedAt != nil && c.ResolvedAt == nil {
		t := *p.ResolvedAt
		c.ResolvedAt = &t
	}
	if p.UpdatedAt.After(c.UpdatedAt) {
		c.UpdatedAt = p.UpdatedAt
	}
}

// ComplaintFilter narrows ListComplaints. The zero value lists everything.
type ComplaintFilter struct {
	OwnerID string
}

// Comment is one message in a complaint's thread.
type Comment struct {
	ID          string       `json:"id"`
	ComplaintID string       `json:"complaint_id"`
	Author      UserSnapshot `json:"author"`
	IsAdmin     bool         `json:"is_admin"`
	Text        string       `json:"text"`
	CreatedAt   time.Time    `json:"created_at"`
}
