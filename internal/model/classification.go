package model

// ClassificationResult is the outcome of classifying one message. It is
// ephemeral: produced per call and never persisted by the engine itself.
type ClassificationResult struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}
