package core

// AgentType distinguishes generator strategies from reviewer agents.
type AgentType string

const (
	AgentGenerator AgentType = "generator"
	AgentReviewer  AgentType = "reviewer"
)

// AgentProfile describes one generator or reviewer agent participating in a
// run.
type AgentProfile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           AgentType `json:"type"`
	Specialization string    `json:"specialization"`

	// ReliabilityScore is set for reviewers only.
	ReliabilityScore *float64 `json:"reliability_score,omitempty"`

	GenerationsParticipated int `json:"generations_participated"`

	// SuccessfulCandidates is set for generators only.
	SuccessfulCandidates *int `json:"successful_candidates,omitempty"`
}

// UCBStats is the bandit-statistics snapshot for one generator agent, updated
// once per generation from that generation's outcomes attributed to the agent.
type UCBStats struct {
	AgentID            string  `json:"agent_id"`
	MeanReward         float64 `json:"mean_reward"`
	ConfidenceInterval float64 `json:"confidence_interval"`
	ExplorationBonus   float64 `json:"exploration_bonus"`
	TotalScore         float64 `json:"total_score"`
	TimesSelected      int     `json:"times_selected"`
}
