package classifier_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/classifier"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/directory"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

func seededDirectory(t *testing.T) *directory.Directory {
	t.Helper()
	dir, err := directory.New(directory.SeedCatalog(), directory.FallbackEntityID, nil, nil)
	if err != nil {
		t.Fatalf("directory.New() error = %v", err)
	}
	return dir
}

func newKeywordClassifier(t *testing.T) *classifier.KeywordClassifier {
	t.Helper()
	return classifier.NewKeywordClassifier(classifier.DefaultKeywords(), seededDirectory(t), nil)
}

func TestKeywordClassifier_Classify(t *testing.T) {
	k := newKeywordClassifier(t)

	tests := []struct {
		name         string
		title        string
		description  string
		wantCategory string
		wantEntity   string
	}{
		{
			name:         "empty text falls back",
			wantCategory: domain.OtherCategory,
			wantEntity:   directory.FallbackEntityID,
		},
		{
			name:         "whitespace only falls back",
			title:        "   ",
			description:  "\n\t ",
			wantCategory: domain.OtherCategory,
			wantEntity:   directory.FallbackEntityID,
		},
		{
			name:         "no keywords falls back",
			title:        "Consulta general",
			description:  "Quisiera información sobre trámites",
			wantCategory: domain.OtherCategory,
			wantEntity:   directory.FallbackEntityID,
		},
		{
			name:         "lighting only",
			title:        "Alumbrado dañado",
			description:  "No hay alumbrado en el barrio desde el lunes",
			wantCategory: "Alumbrado Público",
			wantEntity:   "secretaria-infraestructura",
		},
		{
			name:         "water leak beats the street it is on",
			title:        "Fuga de agua en la calle 5",
			description:  "Hay una tubería rota que bota agua todo el día",
			wantCategory: "Agua Potable",
			wantEntity:   "acueducto-alcantarillado",
		},
		{
			name:         "case and punctuation are ignored",
			title:        "¡¡TUBERÍA!!",
			description:  "FUGA...",
			wantCategory: "Agua Potable",
			wantEntity:   "acueducto-alcantarillado",
		},
		{
			name:         "sewage",
			title:        "Alcantarilla destapada",
			description:  "Salen aguas negras a la vía",
			wantCategory: "Alcantarillado",
			wantEntity:   "acueducto-alcantarillado",
		},
		{
			name:         "shared category resolves to first entity",
			title:        "Robo en el parque",
			description:  "Un atraco a plena luz del día",
			wantCategory: "Seguridad",
			wantEntity:   "secretaria-gobierno",
		},
		{
			name:         "environment",
			title:        "Tala de árboles en el manglar",
			description:  "Están talando el manglar del estero",
			wantCategory: "Medio Ambiente",
			wantEntity:   "establecimiento-ambiental",
		},
		{
			name:         "power outage goes to the utility",
			title:        "No hay luz",
			description:  "Llevamos dos días sin energía eléctrica",
			wantCategory: "Energía Eléctrica",
			wantEntity:   "empresa-energia",
		},
		{
			name:         "fallen pole",
			title:        "Poste caído",
			description:  "El poste de la esquina se cayó",
			wantCategory: "Alumbrado Público",
			wantEntity:   "secretaria-infraestructura",
		},
		{
			name:         "dark street lamp",
			title:        "No hay luz en el barrio",
			description:  "La luminaria de la esquina está apagada",
			wantCategory: "Alumbrado Público",
			wantEntity:   "secretaria-infraestructura",
		},
		{
			name:         "house fire",
			title:        "Incendio en una casa",
			description:  "Hay fuego y llamas saliendo del techo",
			wantCategory: "Incendios y Rescate",
			wantEntity:   "cuerpo-bomberos",
		},
		{
			name:         "school building",
			title:        "Colegio en mal estado",
			description:  "El techo tiene goteras y los estudiantes se mojan",
			wantCategory: "Educación",
			wantEntity:   "secretaria-educacion",
		},
		{
			name:         "public works fraud",
			title:        "Elefante blanco",
			description:  "El contratista cobró y dejó la obra abandonada",
			wantCategory: "Control Fiscal",
			wantEntity:   "contraloria-distrital",
		},
		{
			name:         "street cleaning",
			title:        "Falta limpieza",
			description:  "No pasa el aseo por el barrio",
			wantCategory: "Recolección de Basuras",
			wantEntity:   "empresa-servicios-publicos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := k.Classify(tt.title, tt.description)
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Entity.ID != tt.wantEntity {
				t.Errorf("Entity = %q, want %q", got.Entity.ID, tt.wantEntity)
			}
			if got.Entity.Name == "" {
				t.Error("entity snapshot has no name")
			}
			if got.Method != domain.MethodKeyword {
				t.Errorf("Method = %q", got.Method)
			}
		})
	}
}

// Vías y Calles is declared before Recolección de Basuras, and Agua Potable
// before Seguridad, so each wins its tie regardless of word order.
func TestKeywordClassifier_TieGoesToEarlierCategory(t *testing.T) {
	k := newKeywordClassifier(t)

	tests := []struct {
		text string
		want string
	}{
		{"Hay un hueco y mucha basura", "Vías y Calles"},
		{"Mucha basura junto al hueco", "Vías y Calles"},
		{"Robo de agua del vecino", "Agua Potable"},
		{"Agua robada: robo", "Agua Potable"},
	}

	for _, tt := range tests {
		if got, _ := k.Match(tt.text); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestKeywordClassifier_CountsDistinctKeywords(t *testing.T) {
	k := newKeywordClassifier(t)

	// three mentions of one waste keyword lose to two different road keywords
	got, matched := k.Match("basura basura basura, hueco y bache")
	if got != "Vías y Calles" {
		t.Fatalf("Match() = %q, want Vías y Calles", got)
	}
	if len(matched) != 2 {
		t.Errorf("matched = %v, want 2 keywords", matched)
	}
}

func TestKeywordClassifier_EmptyTable(t *testing.T) {
	k := classifier.NewKeywordClassifier(nil, seededDirectory(t), nil)

	got := k.Classify("Alumbrado", "hueco")
	if got.Category != domain.OtherCategory || got.Entity.ID != directory.FallbackEntityID {
		t.Errorf("Classify() = %+v", got)
	}
}

func TestKeywordClassifier_ConcurrentUse(t *testing.T) {
	k := newKeywordClassifier(t)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				if got, _ := k.Match("fuga de agua por tubería rota en la calle"); got != "Agua Potable" {
					t.Errorf("Match() = %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestKeywordClassifier_WordsMatchWholeWordsOnly(t *testing.T) {
	k := newKeywordClassifier(t)

	tests := []struct {
		text string
		want string
	}{
		{"Todavía no responden", domain.OtherCategory},
		{"Un paseo por la tarde", domain.OtherCategory},
		{"Hace mucho frío", domain.OtherCategory},
		{"La vía está cerrada", "Vías y Calles"},
		{"Se cayó el poste", "Alumbrado Público"},
		{"Basura en el río", "Recolección de Basuras"},
	}

	for _, tt := range tests {
		if got, _ := k.Match(tt.text); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestKeywordClassifier_ConfidenceAndReasoning(t *testing.T) {
	k := newKeywordClassifier(t)

	unmatched := k.Classify("Consulta general", "Quisiera información sobre trámites")
	if unmatched.Confidence != classifier.UnmatchedConfidence {
		t.Errorf("unmatched Confidence = %d, want %d", unmatched.Confidence, classifier.UnmatchedConfidence)
	}
	if !strings.Contains(unmatched.Reasoning, "por defecto") {
		t.Errorf("unmatched Reasoning = %q", unmatched.Reasoning)
	}

	weak := k.Classify("Poste caído", "El poste de la esquina se cayó")
	if weak.Confidence != classifier.MinKeywordConfidence {
		t.Errorf("single hit Confidence = %d, want %d", weak.Confidence, classifier.MinKeywordConfidence)
	}

	strong := k.Classify("Tala de árboles en el manglar", "Están talando el manglar del estero")
	if strong.Confidence <= classifier.MinKeywordConfidence || strong.Confidence > classifier.MaxKeywordConfidence {
		t.Errorf("many hits Confidence = %d", strong.Confidence)
	}
	if !strings.Contains(strong.Reasoning, "Medio Ambiente") || !strings.Contains(strong.Reasoning, "manglar") {
		t.Errorf("Reasoning = %q", strong.Reasoning)
	}
}
