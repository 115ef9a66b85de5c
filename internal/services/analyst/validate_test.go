package analyst

import (
	"testing"

	"github.com/finsightapp/finsight/internal/models"
)

func completeDraft() models.Draft {
	return models.Draft{
		ExecutiveSummary:  "Recommendation: YES",
		ExpectedReturn:    "3-6% over 6m",
		NewsSummary:       []string{"s"},
		BullCase:          []string{"b"},
		BearCase:          []string{"b"},
		KeyRisks:          []string{"k"},
		LastQuarterResult: "Period: 2025Q2",
	}
}

func TestValidateDraftPass(t *testing.T) {
	result := validateDraft(completeDraft(), "")
	if result.Status != models.ValidationPass {
		t.Errorf("expected PASS, got %s (%v)", result.Status, result.Reasons)
	}
	if len(result.Reasons) != 0 {
		t.Errorf("PASS must carry no reasons: %v", result.Reasons)
	}
}

func TestValidateDraftMissingSections(t *testing.T) {
	draft := completeDraft()
	draft.BullCase = nil
	draft.KeyRisks = nil

	result := validateDraft(draft, "")
	if result.Status != models.ValidationFail {
		t.Fatalf("expected FAIL, got %s", result.Status)
	}
	if len(result.Reasons) != 2 {
		t.Errorf("expected 2 reasons, got %v", result.Reasons)
	}
	if result.Reasons[0] != "Missing Bull case" || result.Reasons[1] != "Missing Key risks" {
		t.Errorf("unexpected reasons: %v", result.Reasons)
	}
	if result.SuggestedRoute != models.RouteWeb {
		t.Errorf("missing sections should suggest WEB, got %s", result.SuggestedRoute)
	}
}

func TestValidateDraftDegradedRawPass(t *testing.T) {
	raw := "The Bull case rests on growth; the Bear case on valuation."
	result := validateDraft(models.Draft{}, raw)
	if result.Status != models.ValidationPass {
		t.Errorf("raw text naming both cases should pass, got %s (%v)", result.Status, result.Reasons)
	}
}

func TestValidateDraftDegradedRawFail(t *testing.T) {
	result := validateDraft(models.Draft{}, "General commentary with no structure.")
	if result.Status != models.ValidationFail {
		t.Fatalf("expected FAIL, got %s", result.Status)
	}
	if len(result.Reasons) != 2 {
		t.Errorf("expected both cases flagged, got %v", result.Reasons)
	}
}

func TestValidateDraftEmptyEverything(t *testing.T) {
	result := validateDraft(models.Draft{}, "")
	if result.Status != models.ValidationFail {
		t.Fatalf("expected FAIL, got %s", result.Status)
	}
	if len(result.Reasons) != 3 {
		t.Errorf("expected 3 reasons, got %v", result.Reasons)
	}
}
