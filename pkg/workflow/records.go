package workflow

// Structured records produced by the analysis stages. Each has a degraded
// constructor used when the model's output cannot be parsed: the record stays
// schema-shaped and carries the failure reason in a human-facing field, so a
// malformed payload never propagates as a type failure.

// DiscoveryRecord holds the facts extracted from the contract text.
type DiscoveryRecord struct {
	Parties           []string `json:"parties"`
	TerminationPeriod string   `json:"termination_period,omitempty"`
	NonCompeteClause  string   `json:"non_compete_clause,omitempty"`
	SalaryAndBenefits string   `json:"salary_and_benefits,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// DegradedDiscovery returns a valid-shaped placeholder annotated with the
// reason extraction failed.
func DegradedDiscovery(reason string) *DiscoveryRecord {
	return &DiscoveryRecord{
		Parties: []string{},
		Notes:   "Extraction degraded: " + reason,
	}
}

// RiskItem is a single contract risk matched against the playbook.
type RiskItem struct {
	Category        string `json:"category"`         // e.g. Non-compete, Liability, Termination
	Severity        string `json:"severity"`         // High, Medium, or Low
	ClauseReference string `json:"clause_reference"` // exact text or section number from the doc
	Explanation     string `json:"explanation"`
	Suggestion      string `json:"suggestion"`
}

// AnalysisRecord is the risk-benefit assessment built from discovery output.
type AnalysisRecord struct {
	Pros    []string   `json:"pros"`
	Cons    []RiskItem `json:"cons"`
	Summary string     `json:"summary"` // 1-sentence takeaway
}

func DegradedAnalysis(reason string) *AnalysisRecord {
	return &AnalysisRecord{
		Pros:    []string{},
		Cons:    []RiskItem{},
		Summary: "Analysis degraded: " + reason,
	}
}

// SimplifiedSection translates one legal topic into plain language.
type SimplifiedSection struct {
	Title             string `json:"title"`
	SimpleExplanation string `json:"simple_explanation"`
	ActionItem        string `json:"action_item"`
}

// FinalSummaryRecord is the human-facing result of a completed analysis and
// the precondition for entering the chat path.
type FinalSummaryRecord struct {
	DocType      string              `json:"doc_type"`
	TLDR         string              `json:"tldr"`
	KeyTakeaways []SimplifiedSection `json:"key_takeaways"`
	ToneCheck    string              `json:"tone_check,omitempty"` // "Employee Friendly" vs "Company Heavy"
	Verdict      string              `json:"verdict"`              // Sign / Negotiate / Walk
}

// DegradedFinalSummary is the safe default summary substituted when
// synthesis fails; chat remains possible because the record is present.
func DegradedFinalSummary(docType, reason string) *FinalSummaryRecord {
	return &FinalSummaryRecord{
		DocType:      docType,
		TLDR:         "A full plain-language summary could not be produced: " + reason,
		KeyTakeaways: []SimplifiedSection{},
		Verdict:      "Negotiate",
	}
}
