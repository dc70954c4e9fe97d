package domain

// ClassificationMethod records which path of the classification chain
// produced a complaint's category and entity.
type ClassificationMethod string

const (
	MethodAI                 ClassificationMethod = "ai"
	MethodAIFallbackEntity   ClassificationMethod = "ai_fallback_entity"
	MethodKeyword            ClassificationMethod = "keyword"
	MethodKeywordFallback    ClassificationMethod = "keyword_fallback"
	MethodKeywordThrottled   ClassificationMethod = "keyword_throttled"
	MethodKeywordCircuitOpen ClassificationMethod = "keyword_circuit_open"
	MethodManual             ClassificationMethod = "manual"
)

// ManualConfidence is recorded when an administrator picks the entity.
const ManualConfidence = 100

// Classification is the orchestrator's decision for one piece of text.
// Confidence is a percentage; zero means the source did not report one.
type Classification struct {
	Category        string               `json:"category"`
	Entity          EntitySnapshot       `json:"entity"`
	Method          ClassificationMethod `json:"method"`
	Confidence      int                  `json:"confidence"`
	Reasoning       string               `json:"reasoning,omitempty"`
	MatchedKeywords []string             `json:"matched_keywords,omitempty"`
}
