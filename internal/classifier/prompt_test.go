package classifier_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/classifier"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/directory"
)

func TestBuildPrompt_ListsEveryEntity(t *testing.T) {
	catalog := directory.SeedCatalog()
	prompt := classifier.BuildPrompt(" Hueco ", "Hueco enorme", catalog, []string{"Vías y Calles", "Otros"})

	for _, e := range catalog {
		if !strings.Contains(prompt, "(id: "+e.ID+")") {
			t.Errorf("prompt missing entity %s", e.ID)
		}
	}
	if !strings.Contains(prompt, "Título: Hueco\n") {
		t.Error("prompt missing trimmed title")
	}
	for _, field := range []string{`"entity_id"`, `"confidence"`, `"reasoning"`} {
		if !strings.Contains(prompt, field) {
			t.Errorf("prompt missing response field %s", field)
		}
	}
}

func TestAIResponse_Percent(t *testing.T) {
	tests := []struct {
		confidence float64
		want       int
	}{
		{0, 0},
		{-5, 0},
		{0.5, 50},
		{1, 100},
		{85, 85},
		{72.6, 73},
		{250, 100},
	}

	for _, tt := range tests {
		if got := (classifier.AIResponse{Confidence: tt.confidence}).Percent(); got != tt.want {
			t.Errorf("Percent(%v) = %d, want %d", tt.confidence, got, tt.want)
		}
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantCat    string
		wantEntity string
		wantErr    bool
	}{
		{
			name:       "plain object",
			raw:        `{"category": "Agua Potable", "entity_id": "acueducto-alcantarillado"}`,
			wantCat:    "Agua Potable",
			wantEntity: "acueducto-alcantarillado",
		},
		{
			name:       "fenced with language tag",
			raw:        "```json\n{\"category\": \"Seguridad\", \"entity_id\": \"policia-nacional\"}\n```",
			wantCat:    "Seguridad",
			wantEntity: "policia-nacional",
		},
		{
			name:    "surrounding whitespace",
			raw:     "\n  {\"category\": \"Otros\"}  \n",
			wantCat: "Otros",
		},
		{name: "prose", raw: "La categoría es Seguridad", wantErr: true},
		{name: "prose before object", raw: `Respuesta: {"category": "Otros"}`, wantErr: true},
		{name: "broken json", raw: `{"category": "Otros"`, wantErr: true},
		{name: "missing category", raw: `{"entity_id": "policia-nacional"}`, wantErr: true},
		{name: "blank category", raw: `{"category": "  "}`, wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifier.ParseResponse(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, classifier.ErrMalformedResponse) {
					t.Errorf("err = %v, want ErrMalformedResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Category != tt.wantCat || got.EntityID != tt.wantEntity {
				t.Errorf("got %+v", got)
			}
		})
	}
}
