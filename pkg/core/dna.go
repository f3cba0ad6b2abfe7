package core

// PromptDNA encodes the heritable prompt configuration that produced a
// candidate. It forms the prompt layer of a DNA bundle.
type PromptDNA struct {
	ID              string                   `json:"id"`
	SystemPrompt    string                   `json:"system_prompt"`
	TaskDescription string                   `json:"task_description"`
	Constraints     []string                 `json:"constraints"`
	Examples        []string                 `json:"examples"`
	Temperature     float64                  `json:"temperature"`
	TopP            float64                  `json:"top_p"`
	FeedbackHistory []string                 `json:"feedback_history"`
	Generation      int                      `json:"generation"`
	ParentIDs       []string                 `json:"parent_ids"`
	Mutations       []map[string]interface{} `json:"mutations"`

	// TrustRegionSimilarity bounds how far a child prompt drifted from its
	// parents; nil for generation-0 prompts.
	TrustRegionSimilarity *float64 `json:"trust_region_similarity,omitempty"`
}

// CodeLayer ties a bundle to the git-like artifact the candidate produced.
type CodeLayer struct {
	Branch       string `json:"branch"`
	CommitID     string `json:"commit_id"`
	DiffSummary  string `json:"diff_summary"`
	FilesChanged int    `json:"files_changed"`
	LinesAdded   int    `json:"lines_added"`
	LinesRemoved int    `json:"lines_removed"`
}

// EvaluatorLayer captures the evaluation state in force when the candidate
// was scored, so a lineage can be audited against the exact policy that
// judged it.
type EvaluatorLayer struct {
	ReviewerReliabilities map[string]float64 `json:"reviewer_reliabilities"`
	AntiCheatSeed         string             `json:"anti_cheat_seed"`
	UCBStats              []UCBStats         `json:"ucb_stats"`
	PolicyVersion         string             `json:"policy_version"`
}

// DNABundle is the append-only provenance record for one selected candidate.
// Once written it is immutable; ParentHashes form an acyclic chain that
// terminates at generation-0 candidates.
type DNABundle struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidate_id"`

	CodeLayer      CodeLayer      `json:"code_layer"`
	PromptLayer    PromptDNA      `json:"prompt_layer"`
	EvaluatorLayer EvaluatorLayer `json:"evaluator_layer"`

	EvidenceMetrics Metrics      `json:"evidence_metrics"`
	GateResults     []GateResult `json:"gate_results"`

	ProvenanceHash string   `json:"provenance_hash"`
	ParentHashes   []string `json:"parent_hashes"`
	Timestamp      string   `json:"timestamp"`
}
