package models

// AnalyzeRequest is the inbound payload for POST /api/analyze.
// Budget and risk level are not required here: missing profile fields must
// reach the workflow so the intake guard can short-circuit.
type AnalyzeRequest struct {
	Question string         `json:"question" validate:"required"`
	Profile  ProfileRequest `json:"profile"`
}

// ProfileRequest is the wire form of a user profile.
type ProfileRequest struct {
	Budget  float64 `json:"budget" validate:"omitempty,gt=0"`
	Risk    string  `json:"risk" validate:"omitempty,oneof=low medium high"`
	Horizon string  `json:"horizon" validate:"omitempty,max=16"`
	Country string  `json:"country" validate:"omitempty,max=32"`
}

// ToProfile converts the wire form into the workflow profile, defaulting the
// horizon the way the original service did.
func (r ProfileRequest) ToProfile() UserProfile {
	horizon := r.Horizon
	if horizon == "" {
		horizon = "6m"
	}
	return UserProfile{
		Budget:    r.Budget,
		RiskLevel: r.Risk,
		Horizon:   horizon,
		Country:   r.Country,
	}
}

// AnalysisSection is the narrative portion of the public analyze response.
type AnalysisSection struct {
	ExecutiveSummary  string   `json:"executive_summary"`
	ExpectedReturn    string   `json:"expected_return"`
	NewsSummary       []string `json:"news_summary"`
	BullCase          []string `json:"bull_case"`
	BearCase          []string `json:"bear_case"`
	KeyRisks          []string `json:"key_risks"`
	LastQuarterResult string   `json:"last_quarter_result"`
}

// EvidenceRef is one entry of the public evidence pack.
type EvidenceRef struct {
	Date   string `json:"date"`
	Source string `json:"source"`
	Title  string `json:"title"`
	Claim  string `json:"claim"`
	URL    string `json:"url"`
}

// ScoreSection is the public score summary.
type ScoreSection struct {
	Total     float64          `json:"total"`
	Notes     string           `json:"notes"`
	Breakdown []ScoreComponent `json:"breakdown"`
}

// AnalysisResponse is the public response shape for POST /api/analyze.
type AnalysisResponse struct {
	Ticker       string           `json:"ticker"`
	CompanyName  string           `json:"company_name"`
	Timestamp    string           `json:"timestamp"`
	PriceData    PriceQuote       `json:"price_data"`
	Analysis     AnalysisSection  `json:"analysis"`
	EvidencePack []EvidenceRef    `json:"evidence_pack"`
	Score        ScoreSection     `json:"score"`
	Validation   ValidationResult `json:"validation"`
	Disclaimer   string           `json:"disclaimer"`
}

// RecommendationItem is one ranked instrument in the static catalog response.
type RecommendationItem struct {
	Ticker    string `json:"ticker"`
	Name      string `json:"name"`
	Market    string `json:"market"`
	Rationale string `json:"rationale"`
}

// RecommendationsResponse is the public response for POST /api/recommendations.
type RecommendationsResponse struct {
	Items []RecommendationItem `json:"items"`
}
