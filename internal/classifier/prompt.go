package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

// ErrMalformedResponse is returned when a provider reply is not the
// expected JSON object.
var ErrMalformedResponse = errors.New("malformed classification response")

// AIResponse is the object providers are asked to return. Entity is the
// older name-based field, accepted when entity_id is missing or unknown.
// Confidence and Reasoning are optional.
type AIResponse struct {
	Category   string  `json:"category"`
	EntityID   string  `json:"entity_id"`
	Entity     string  `json:"entity"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Percent maps Confidence onto 0-100. Fractions up to 1 are read as ratios;
// missing or negative values yield 0.
func (r AIResponse) Percent() int {
	c := r.Confidence
	switch {
	case c <= 0:
		return 0
	case c <= 1:
		c *= 100
	}
	return int(math.Round(math.Min(c, 100)))
}

// BuildPrompt renders the classification request for one complaint.
func BuildPrompt(title, description string, entities []domain.Entity, categories []string) string {
	var b strings.Builder

	b.WriteString("Analiza la siguiente queja ciudadana del Distrito de Buenaventura ")
	b.WriteString("y decide su categoría y la entidad responsable de atenderla.\n\n")
	fmt.Fprintf(&b, "Título: %s\n", strings.TrimSpace(title))
	fmt.Fprintf(&b, "Descripción: %s\n\n", strings.TrimSpace(description))

	b.WriteString("Entidades disponibles:\n")
	for _, e := range entities {
		fmt.Fprintf(&b, "- %s (id: %s): %s\n", e.Name, e.ID, strings.Join(e.Categories, ", "))
	}

	fmt.Fprintf(&b, "\nCategorías válidas: %s\n\n", strings.Join(categories, ", "))
	b.WriteString("Responde únicamente con un objeto JSON, sin texto adicional:\n")
	b.WriteString(`{"category": "<categoría>", "entity_id": "<id de la entidad>", `)
	b.WriteString(`"confidence": <0-100>, "reasoning": "<explicación breve>"}`)
	return b.String()
}

// ParseResponse decodes a provider reply. Surrounding whitespace and a
// fenced code block are tolerated; anything else that is not a JSON object
// with a non-empty category is ErrMalformedResponse.
func ParseResponse(raw string) (AIResponse, error) {
	body := stripFence(strings.TrimSpace(raw))
	if !strings.HasPrefix(body, "{") {
		return AIResponse{}, fmt.Errorf("%w: not a JSON object", ErrMalformedResponse)
	}

	var resp AIResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return AIResponse{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	resp.Category = strings.TrimSpace(resp.Category)
	resp.EntityID = strings.TrimSpace(resp.EntityID)
	resp.Entity = strings.TrimSpace(resp.Entity)
	resp.Reasoning = strings.TrimSpace(resp.Reasoning)
	if resp.Category == "" {
		return AIResponse{}, fmt.Errorf("%w: missing category", ErrMalformedResponse)
	}
	return resp, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// optional language tag on the opening line
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
