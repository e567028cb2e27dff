package prs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarizeChecks(testInstance *testing.T) {
	passedRun := checkRollupEntry{TypeName: "CheckRun", Conclusion: "SUCCESS", Status: "COMPLETED"}
	failedRun := checkRollupEntry{TypeName: "CheckRun", Conclusion: "FAILURE", Status: "COMPLETED"}
	skippedRun := checkRollupEntry{TypeName: "CheckRun", Conclusion: "SKIPPED", Status: "COMPLETED"}
	runningRun := checkRollupEntry{TypeName: "CheckRun", Status: "IN_PROGRESS"}
	queuedRun := checkRollupEntry{TypeName: "CheckRun", Status: "QUEUED"}
	passedContext := checkRollupEntry{TypeName: "StatusContext", State: "SUCCESS"}
	pendingContext := checkRollupEntry{TypeName: "StatusContext", State: "PENDING"}
	erroredContext := checkRollupEntry{TypeName: "StatusContext", State: "ERROR"}
	expectedContext := checkRollupEntry{TypeName: "StatusContext", State: "EXPECTED"}

	testCases := []struct {
		name            string
		rollupEntries   []checkRollupEntry
		expectedSummary string
	}{
		{
			name:            "failure_dominates_other_outcomes",
			rollupEntries:   []checkRollupEntry{passedRun, failedRun, runningRun},
			expectedSummary: "❌ 1/3 failed",
		},
		{
			name:            "pending_dominates_passes",
			rollupEntries:   []checkRollupEntry{passedRun, runningRun, pendingContext},
			expectedSummary: "⏳ 2/3 pending",
		},
		{
			name:            "all_passed",
			rollupEntries:   []checkRollupEntry{passedRun, passedContext},
			expectedSummary: "✅ 2/2 passed",
		},
		{
			name:            "only_skipped",
			rollupEntries:   []checkRollupEntry{skippedRun, skippedRun},
			expectedSummary: "⚪ 2/2 skipped",
		},
		{
			name:            "queued_run_does_not_hide_passes",
			rollupEntries:   []checkRollupEntry{queuedRun, passedRun},
			expectedSummary: "✅ 1/2 passed",
		},
		{
			name:            "unknown_context_state_counts_toward_total_only",
			rollupEntries:   []checkRollupEntry{expectedContext},
			expectedSummary: "⚪ 0/1 skipped",
		},
		{
			name:            "status_context_error_counts_as_failure",
			rollupEntries:   []checkRollupEntry{erroredContext},
			expectedSummary: "❌ 1/1 failed",
		},
		{
			name:            "no_checks",
			rollupEntries:   nil,
			expectedSummary: "❓ No checks",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedSummary, summarizeChecks(testCase.rollupEntries))
		})
	}
}

func TestDecodePullRequestRecords(testInstance *testing.T) {
	payload := `[
		{
			"number": 42,
			"title": "Fix login bug",
			"headRefName": "fix-login-bug",
			"statusCheckRollup": [
				{"__typename": "CheckRun", "conclusion": "SUCCESS", "status": "COMPLETED"},
				{"__typename": "StatusContext", "state": "PENDING"}
			]
		}
	]`

	records, decodeError := decodePullRequestRecords([]byte(payload))

	require.NoError(testInstance, decodeError)
	require.Len(testInstance, records, 1)
	require.Equal(testInstance, 42, records[0].Number)
	require.Equal(testInstance, "fix-login-bug", records[0].HeadRefName)
	require.Equal(testInstance, "⏳ 1/2 pending", summarizeChecks(records[0].StatusCheckRollup))
}

func TestDecodePullRequestRecordsRejectsMalformedPayload(testInstance *testing.T) {
	_, decodeError := decodePullRequestRecords([]byte("not json"))
	require.Error(testInstance, decodeError)
}
