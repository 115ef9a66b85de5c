package interfaces

import (
	"context"

	"github.com/finsightapp/finsight/internal/models"
)

// AnalystService runs the research workflow for a single question.
type AnalystService interface {
	// Analyze executes the workflow graph and returns the final state
	Analyze(ctx context.Context, question string, profile models.UserProfile) (models.AnalysisState, error)

	// BuildResponse shapes a final state into the public response payload
	BuildResponse(state models.AnalysisState) models.AnalysisResponse
}

// RecommendService ranks the static instrument catalog for a profile.
type RecommendService interface {
	// Recommend returns the ranked per-market shortlist for a profile
	Recommend(profile models.UserProfile) models.RecommendationsResponse
}
