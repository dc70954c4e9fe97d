// Package classifier decides which category and responsible entity a
// complaint belongs to: a keyword engine that always answers, an optional
// AI adapter, and the orchestrator that chains them.
package classifier

import (
	"fmt"
	"strings"
	"sync"
	"time"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/telemetry"
)

// Directory is the view of the entity directory classification needs.
type Directory interface {
	Resolve(category string) domain.Entity
	Fallback() domain.Entity
	Lookup(id string) (domain.Entity, bool)
	Active() []domain.Entity
	Categories() []string
}

// KeywordClassifier maps text to a category by counting distinct keyword
// hits per category in a single Aho-Corasick pass.
type KeywordClassifier struct {
	// the matcher keeps per-call state, so Match calls are serialized
	mu         sync.Mutex
	matcher    *ahocorasick.Matcher
	keywords   []string
	owners     [][]int // keyword index -> category indexes
	categories []string
	sizes      []int // distinct keywords per category
	dir        Directory
	telemetry  *telemetry.Provider
}

// NewKeywordClassifier builds the automaton from table.
func NewKeywordClassifier(table []CategoryKeywords, dir Directory, tp *telemetry.Provider) *KeywordClassifier {
	k := &KeywordClassifier{dir: dir, telemetry: tp}
	index := make(map[string]int)

	add := func(ci int, pattern string) {
		ki, ok := index[pattern]
		if !ok {
			ki = len(k.keywords)
			index[pattern] = ki
			k.keywords = append(k.keywords, pattern)
			k.owners = append(k.owners, nil)
		}
		if !containsInt(k.owners[ki], ci) {
			k.owners[ki] = append(k.owners[ki], ci)
			k.sizes[ci]++
		}
	}

	for ci, entry := range table {
		k.categories = append(k.categories, entry.Category)
		k.sizes = append(k.sizes, 0)
		for _, kw := range entry.Keywords {
			if normalized := normalizeText(kw); normalized != "" {
				add(ci, normalized)
			}
		}
		// normalized text is single-spaced, so padding both sides anchors
		// the pattern to word boundaries
		for _, w := range entry.Words {
			if normalized := normalizeText(w); normalized != "" {
				add(ci, " "+normalized+" ")
			}
		}
	}

	if len(k.keywords) > 0 {
		k.matcher = ahocorasick.NewStringMatcher(k.keywords)
	}
	return k
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// Match returns the winning category for text and the keywords that voted
// for it. The category with the strictly highest count of distinct keywords
// wins; ties go to the earlier category; no hits yields OtherCategory.
func (k *KeywordClassifier) Match(text string) (string, []string) {
	start := time.Now()
	defer func() { k.telemetry.RecordKeywordMatch(time.Since(start)) }()

	normalized := normalizeText(text)
	if k.matcher == nil || normalized == "" {
		return domain.OtherCategory, nil
	}

	k.mu.Lock()
	hits := k.matcher.Match([]byte(" " + normalized + " "))
	k.mu.Unlock()

	// Match reports each dictionary entry at most once per call.
	counts := make([]int, len(k.categories))
	for _, ki := range hits {
		for _, ci := range k.owners[ki] {
			counts[ci]++
		}
	}

	best := -1
	for ci, n := range counts {
		if n > 0 && (best < 0 || n > counts[best]) {
			best = ci
		}
	}
	if best < 0 {
		return domain.OtherCategory, nil
	}

	var matched []string
	for ki := range k.keywords {
		if containsInt(hits, ki) && containsInt(k.owners[ki], best) {
			matched = append(matched, strings.TrimSpace(k.keywords[ki]))
		}
	}
	return k.categories[best], matched
}

// Confidence bounds for keyword decisions.
const (
	UnmatchedConfidence  = 20
	MinKeywordConfidence = 50
	MaxKeywordConfidence = 99
)

// maxReasonTerms caps the keywords quoted in a reasoning string.
const maxReasonTerms = 5

// Classify never fails: unmatched text resolves to OtherCategory and the
// directory's fallback entity.
func (k *KeywordClassifier) Classify(title, description string) domain.Classification {
	category, matched := k.Match(title + " " + description)
	entity := k.dir.Resolve(category)
	c := domain.Classification{
		Category:        category,
		Entity:          entity.Snapshot(),
		Method:          domain.MethodKeyword,
		MatchedKeywords: matched,
	}

	if len(matched) == 0 {
		c.Confidence = UnmatchedConfidence
		c.Reasoning = "Clasificación por defecto: no se encontraron palabras clave específicas."
		return c
	}
	c.Confidence = k.confidence(category, len(matched))
	c.Reasoning = fmt.Sprintf("Detectadas %d palabras clave relacionadas con %s. Términos principales: %s.",
		len(matched), category, strings.Join(matched[:min(len(matched), maxReasonTerms)], ", "))
	return c
}

// confidence scales the share of a category's keywords that matched; a
// fifth of the list is already near certainty.
func (k *KeywordClassifier) confidence(category string, hits int) int {
	size := 0
	for ci, name := range k.categories {
		if name == category {
			size = k.sizes[ci]
			break
		}
	}
	if size == 0 {
		return MinKeywordConfidence
	}
	pct := (hits*500 + size/2) / size
	return max(MinKeywordConfidence, min(pct, MaxKeywordConfidence))
}
