package prs

import (
	"encoding/json"
	"fmt"
)

const (
	checkRunTypeNameConstant      = "CheckRun"
	statusContextTypeNameConstant = "StatusContext"

	conclusionSuccessConstant = "SUCCESS"
	conclusionFailureConstant = "FAILURE"
	conclusionSkippedConstant = "SKIPPED"
	conclusionNeutralConstant = "NEUTRAL"
	stateSuccessConstant      = "SUCCESS"
	stateFailureConstant      = "FAILURE"
	stateErrorConstant        = "ERROR"
	statePendingConstant      = "PENDING"
	statusInProgressConstant  = "IN_PROGRESS"

	checksFailedTemplateConstant  = "❌ %d/%d failed"
	checksPendingTemplateConstant = "⏳ %d/%d pending"
	checksPassedTemplateConstant  = "✅ %d/%d passed"
	checksSkippedTemplateConstant = "⚪ %d/%d skipped"
	noChecksMessageConstant       = "❓ No checks"
)

// checkOutcome is the normalized result of one rollup entry. Entries in states
// we do not recognize stay unclassified and count toward the total only.
type checkOutcome int

const (
	checkOutcomeUnclassified checkOutcome = iota
	checkOutcomeSkipped
	checkOutcomeSuccess
	checkOutcomeFailure
	checkOutcomePending
)

// checkRollupEntry is one element of the statusCheckRollup array. GitHub mixes
// two shapes in the same array, discriminated by __typename: CheckRun carries
// conclusion and status, StatusContext carries state.
type checkRollupEntry struct {
	TypeName   string `json:"__typename"`
	Conclusion string `json:"conclusion"`
	Status     string `json:"status"`
	State      string `json:"state"`
}

func (entry checkRollupEntry) outcome() checkOutcome {
	switch entry.TypeName {
	case checkRunTypeNameConstant:
		switch entry.Conclusion {
		case conclusionSuccessConstant:
			return checkOutcomeSuccess
		case conclusionFailureConstant:
			return checkOutcomeFailure
		case conclusionSkippedConstant, conclusionNeutralConstant:
			return checkOutcomeSkipped
		}
		if entry.Status == statusInProgressConstant {
			return checkOutcomePending
		}
		return checkOutcomeUnclassified
	case statusContextTypeNameConstant:
		switch entry.State {
		case stateSuccessConstant:
			return checkOutcomeSuccess
		case stateFailureConstant, stateErrorConstant:
			return checkOutcomeFailure
		case statePendingConstant:
			return checkOutcomePending
		}
		return checkOutcomeUnclassified
	}
	return checkOutcomeUnclassified
}

// summarizeChecks condenses a statusCheckRollup array into one display string.
// Failures dominate, then pending checks, then passes, then skips.
func summarizeChecks(rollupEntries []checkRollupEntry) string {
	totalCount := len(rollupEntries)
	if totalCount == 0 {
		return noChecksMessageConstant
	}

	successCount, failureCount, pendingCount, skippedCount := 0, 0, 0, 0
	for _, rollupEntry := range rollupEntries {
		switch rollupEntry.outcome() {
		case checkOutcomeSuccess:
			successCount++
		case checkOutcomeFailure:
			failureCount++
		case checkOutcomePending:
			pendingCount++
		case checkOutcomeSkipped:
			skippedCount++
		}
	}

	switch {
	case failureCount > 0:
		return fmt.Sprintf(checksFailedTemplateConstant, failureCount, totalCount)
	case pendingCount > 0:
		return fmt.Sprintf(checksPendingTemplateConstant, pendingCount, totalCount)
	case successCount > 0:
		return fmt.Sprintf(checksPassedTemplateConstant, successCount, totalCount)
	default:
		return fmt.Sprintf(checksSkippedTemplateConstant, skippedCount, totalCount)
	}
}

// pullRequestRecord mirrors the fields requested from gh pr list --json.
type pullRequestRecord struct {
	Number            int                `json:"number"`
	Title             string             `json:"title"`
	HeadRefName       string             `json:"headRefName"`
	StatusCheckRollup []checkRollupEntry `json:"statusCheckRollup"`
}

func decodePullRequestRecords(payload []byte) ([]pullRequestRecord, error) {
	var records []pullRequestRecord
	if unmarshalError := json.Unmarshal(payload, &records); unmarshalError != nil {
		return nil, unmarshalError
	}
	return records, nil
}
