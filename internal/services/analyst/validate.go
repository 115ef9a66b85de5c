package analyst

import (
	"strings"

	"github.com/finsightapp/finsight/internal/models"
)

// validateDraft checks the structural completeness of a draft. A draft that
// failed to parse is inspected as raw text so an otherwise-usable narrative
// is not discarded.
func validateDraft(draft models.Draft, draftRaw string) models.ValidationResult {
	var reasons []string

	if draft.IsZero() && draftRaw != "" {
		if !strings.Contains(draftRaw, "Bull") {
			reasons = append(reasons, "Missing Bull case")
		}
		if !strings.Contains(draftRaw, "Bear") {
			reasons = append(reasons, "Missing Bear case")
		}
	} else {
		if len(draft.BullCase) == 0 {
			reasons = append(reasons, "Missing Bull case")
		}
		if len(draft.BearCase) == 0 {
			reasons = append(reasons, "Missing Bear case")
		}
		if len(draft.KeyRisks) == 0 {
			reasons = append(reasons, "Missing Key risks")
		}
	}

	if len(reasons) == 0 {
		return models.ValidationResult{Status: models.ValidationPass}
	}

	suggested := models.RouteLLM
	for _, reason := range reasons {
		if strings.Contains(reason, "Missing") {
			suggested = models.RouteWeb
			break
		}
	}

	return models.ValidationResult{
		Status:         models.ValidationFail,
		Reasons:        reasons,
		SuggestedRoute: suggested,
	}
}
