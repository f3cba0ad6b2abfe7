package core

// GateResult records the outcome of one hard gate check. Gates are evaluated
// independently and every result is reported even after the first failure so
// callers can see all violated thresholds.
type GateResult struct {
	GateName  string   `json:"gate_name"`
	Passed    bool     `json:"passed"`
	Message   string   `json:"message"`
	Threshold *float64 `json:"threshold,omitempty"`
	Actual    *float64 `json:"actual,omitempty"`
}

// ReviewerComment is feedback attached to a candidate by a reviewer agent.
type ReviewerComment struct {
	ReviewerID   string `json:"reviewer_id"`
	ReviewerType string `json:"reviewer_type"`
	Timestamp    string `json:"timestamp"`
	Severity     string `json:"severity"` // "critical", "warning", "info"
	Category     string `json:"category"` // "security", "performance", "ux", "quality"
	Message      string `json:"message"`
	LineNumbers  []int  `json:"line_numbers,omitempty"`
}

// Candidate is one generated solution instance evaluated within a generation.
// It is created once, has its three derived selection fields set during that
// generation's evaluation pass, and is retained as immutable history after.
type Candidate struct {
	ID         string   `json:"id"`
	Generation int      `json:"generation"`
	ParentIDs  []string `json:"parent_ids"` // 0, 1, or 2 entries

	PromptDNAID      string `json:"prompt_dna_id"`
	PromptDNASummary string `json:"prompt_dna_summary"`

	Metrics Metrics `json:"metrics"`

	// Scoring (derived)
	EffectiveScore float64            `json:"effective_score"`
	WeightedScores map[string]float64 `json:"weighted_scores"`

	// Gates (derived)
	GatesPassed bool         `json:"gates_passed"`
	GateResults []GateResult `json:"gate_results"`

	// Selection (derived)
	IsParetoFront       bool   `json:"is_pareto_front"`
	SelectedForBreeding bool   `json:"selected_for_breeding"`
	SurvivalReason      string `json:"survival_reason,omitempty"`

	// Provenance
	Branch           string `json:"branch"`
	CommitID         string `json:"commit_id"`
	GeneratorAgentID string `json:"generator_agent_id"`

	ReviewerComments []ReviewerComment `json:"reviewer_comments,omitempty"`
}
