package domain

// Algorithm tags which strategy produced a recommendation list.
type Algorithm string

const (
	AlgorithmAI              Algorithm = "ai"
	AlgorithmFallbackEmpty   Algorithm = "fallback-empty"
	AlgorithmFallbackError   Algorithm = "fallback-error"
	AlgorithmFallbackNoMatch Algorithm = "fallback-no-match"
)

// Default popup copy used when the AI strategy does not supply its own.
const (
	DefaultPopupTitle    = "Complete your purchase"
	DefaultPopupSubtitle = "Customers who viewed this product also bought"
)

// FallbackReason is attached to every rule-based recommendation.
const FallbackReason = "Popular choice that pairs well with your selection"

// Candidate is a suggestion that has not been checked against the catalog yet.
type Candidate struct {
	ProductID ProductID `json:"productId"`
	Reason    string    `json:"reason"`
}

// Suggestion is the parsed output of the AI strategy.
type Suggestion struct {
	Industry      string
	PopupTitle    string
	PopupSubtitle string
	Candidates    []Candidate
}

// ResolvedRecommendation is a candidate merged with catalog data.
type ResolvedRecommendation struct {
	ID       ProductID `json:"id"`
	Name     string    `json:"name"`
	Price    Price     `json:"price"`
	Currency string    `json:"currency"`
	Reason   string    `json:"reason"`
	Image    string    `json:"image,omitempty"`
	URL      string    `json:"url,omitempty"`
}

// RecommendationResult is what the engine hands back to the service layer.
type RecommendationResult struct {
	Algorithm       Algorithm
	Industry        string
	PopupTitle      string
	PopupSubtitle   string
	Recommendations []ResolvedRecommendation
}

// ProductRef identifies the viewed product in responses.
type ProductRef struct {
	ID   ProductID `json:"id"`
	Name string    `json:"name"`
}

// Interaction is the persisted record of one served recommendation.
type Interaction struct {
	ID              string
	StoreID         string
	UserID          string
	ViewedProductID ProductID
	Algorithm       Algorithm
	ProductIDs      []ProductID
}

type BatchStatus string

const (
	StatusSuccess BatchStatus = "success"
	StatusFailed  BatchStatus = "failed"
)

type BatchItemResult struct {
	ProductID       ProductID                `json:"product_id"`
	Status          BatchStatus              `json:"status"`
	Algorithm       Algorithm                `json:"algorithm,omitempty"`
	Recommendations []ResolvedRecommendation `json:"recommendations,omitempty"`
	Error           string                   `json:"error,omitempty"`
	Message         string                   `json:"message,omitempty"`
}

type BatchSummary struct {
	SuccessCount     int   `json:"success_count"`
	FailedCount      int   `json:"failed_count"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

type BatchResponse struct {
	StoreID     string            `json:"store_id"`
	Results     []BatchItemResult `json:"results"`
	Summary     BatchSummary      `json:"summary"`
	GeneratedAt string            `json:"generated_at"`
}
