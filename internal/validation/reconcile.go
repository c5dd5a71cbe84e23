package validation

import "tracklint/pkg/tabular"

// Reconcile joins one track's verdict set against the rule table. Every rule
// position 1..N yields exactly one ReconciledRow carrying the rule row's
// fields; the outcome fields come from the verdict whose rule number matches
// the position, or stay empty when the service omitted that rule. The output
// row count always equals the rule table length.
func Reconcile(ruleTable *tabular.Table, set TrackVerdictSet) []ReconciledRow {
	reconciled := make([]ReconciledRow, 0, len(ruleTable.Rows))

	for i, ruleRow := range ruleTable.Rows {
		row := ReconciledRow{
			Columns: ruleTable.Columns,
			Fields:  ruleRow,
		}

		if verdict, ok := matchVerdict(set.Rules, i+1); ok {
			row.Status = verdict.Status
			row.Reason = verdict.Reason
			row.Suggestion = verdict.Suggestion
			row.NewValue = verdict.NewValue
		}

		reconciled = append(reconciled, row)
	}

	return reconciled
}

func matchVerdict(verdicts []Verdict, position int) (Verdict, bool) {
	for _, v := range verdicts {
		if v.RuleNo.Matches(position) {
			return v, true
		}
	}
	return Verdict{}, false
}
