package demo

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/evoforge/gad-go/pkg/core"
)

// Agents returns the generator and reviewer profiles used by sample runs.
func Agents() []*core.AgentProfile {
	rel := func(v float64) *float64 { return &v }
	return []*core.AgentProfile{
		{
			ID:             "generator-001",
			Name:           "CodeCraft Pro",
			Type:           core.AgentGenerator,
			Specialization: "Security-focused backend development",
		},
		{
			ID:             "generator-002",
			Name:           "SwiftCode AI",
			Type:           core.AgentGenerator,
			Specialization: "High-performance API design",
		},
		{
			ID:             "generator-003",
			Name:           "CleanCode Engine",
			Type:           core.AgentGenerator,
			Specialization: "Test-driven development",
		},
		{
			ID:               "reviewer-security-001",
			Name:             "SecureGuard",
			Type:             core.AgentReviewer,
			Specialization:   "Security & vulnerability analysis",
			ReliabilityScore: rel(0.95),
		},
		{
			ID:               "reviewer-performance-001",
			Name:             "SpeedChecker",
			Type:             core.AgentReviewer,
			Specialization:   "Performance & optimization",
			ReliabilityScore: rel(0.88),
		},
		{
			ID:               "reviewer-ux-001",
			Name:             "UXValidator",
			Type:             core.AgentReviewer,
			Specialization:   "User experience & API design",
			ReliabilityScore: rel(0.92),
		},
		{
			ID:               "reviewer-quality-001",
			Name:             "QualityGate",
			Type:             core.AgentReviewer,
			Specialization:   "Code quality & maintainability",
			ReliabilityScore: rel(0.90),
		},
	}
}

// sampleMetrics draws raw metrics for a candidate. Good candidates cluster
// near the gate thresholds' passing side; weak ones spread well below.
func sampleMetrics(rng *rand.Rand, isGood bool) core.Metrics {
	if isGood {
		return core.Metrics{
			TestPassRate:       0.95 + rng.Float64()*0.05,
			Coverage:           0.85 + rng.Float64()*0.1,
			PerformanceScore:   85 + rng.Float64()*10,
			SecurityScore:      90 + rng.Float64()*10,
			UXScore:            80 + rng.Float64()*15,
			StyleScore:         90 + rng.Float64()*10,
			LicenseCompliance:  true,
			VulnerabilityCount: rng.Intn(2),
		}
	}
	return core.Metrics{
		TestPassRate:       0.6 + rng.Float64()*0.2,
		Coverage:           0.5 + rng.Float64()*0.2,
		PerformanceScore:   50 + rng.Float64()*30,
		SecurityScore:      40 + rng.Float64()*40,
		UXScore:            50 + rng.Float64()*30,
		StyleScore:         60 + rng.Float64()*30,
		LicenseCompliance:  rng.Float64() > 0.3,
		VulnerabilityCount: 2 + rng.Intn(7),
	}
}

// samplePromptDNA builds the prompt layer for a candidate.
func samplePromptDNA(rng *rand.Rand, generation int, candidateID string, parentIDs []string) core.PromptDNA {
	baseTask := "Implement a secure REST API endpoint for user authentication with JWT tokens"

	var mutations []map[string]interface{}
	if generation > 0 {
		if rng.Float64() > 0.5 {
			mutations = append(mutations, map[string]interface{}{
				"type":   "feedback_integration",
				"change": "Added explicit error handling requirements from reviewer feedback",
			})
		}
		if rng.Float64() > 0.7 {
			mutations = append(mutations, map[string]interface{}{
				"type":   "constraint_refinement",
				"change": "Tightened security constraints based on vulnerability scan",
			})
		}
	}

	var feedback []string
	if generation > 0 {
		feedback = []string{
			fmt.Sprintf("Gen %d: Improve input validation", generation-1),
			fmt.Sprintf("Gen %d: Add rate limiting", generation-1),
		}
	}

	var similarity *float64
	if generation > 0 {
		v := 0.85 + rng.Float64()*0.1
		similarity = &v
	}

	task := baseTask
	if generation > 0 {
		task = fmt.Sprintf("%s [Gen %d refinement]", baseTask, generation)
	}

	return core.PromptDNA{
		ID:              "prompt-dna-" + candidateID,
		SystemPrompt:    "You are an expert backend engineer specializing in secure API development.",
		TaskDescription: task,
		Constraints: []string{
			"Must use bcrypt for password hashing",
			"JWT tokens must expire in 15 minutes",
			"Rate limit: 10 requests per minute per IP",
			"All inputs must be validated and sanitized",
		},
		Examples: []string{
			"Example: POST /auth/login with email and password",
			"Example: Return JWT token on success, 401 on failure",
		},
		Temperature:           0.7,
		TopP:                  0.9,
		FeedbackHistory:       feedback,
		Generation:            generation,
		ParentIDs:             parentIDs,
		Mutations:             mutations,
		TrustRegionSimilarity: similarity,
	}
}

// sampleComments attaches reviewer feedback based on the candidate's metrics.
func sampleComments(m core.Metrics, gatesPassed bool, at time.Time) []core.ReviewerComment {
	var comments []core.ReviewerComment
	ts := at.UTC().Format(time.RFC3339)

	if !gatesPassed {
		comments = append(comments, core.ReviewerComment{
			ReviewerID:   "reviewer-security-001",
			ReviewerType: "security",
			Timestamp:    ts,
			Severity:     "critical",
			Category:     "security",
			Message:      "SQL injection vulnerability detected in login endpoint",
			LineNumbers:  []int{45, 46, 47},
		})
	}
	if m.PerformanceScore < 80 {
		comments = append(comments, core.ReviewerComment{
			ReviewerID:   "reviewer-performance-001",
			ReviewerType: "performance",
			Timestamp:    ts,
			Severity:     "warning",
			Category:     "performance",
			Message:      "Database query not optimized, consider adding index",
			LineNumbers:  []int{78, 79},
		})
	}
	if m.UXScore > 85 {
		comments = append(comments, core.ReviewerComment{
			ReviewerID:   "reviewer-ux-001",
			ReviewerType: "ux",
			Timestamp:    ts,
			Severity:     "info",
			Category:     "ux",
			Message:      "Error messages are clear and actionable - excellent UX",
		})
	}
	return comments
}

// reviewerReliabilities snapshots reviewer reliability scores for the
// evaluator layer of a bundle.
func reviewerReliabilities(agents []*core.AgentProfile) map[string]float64 {
	out := make(map[string]float64)
	for _, a := range agents {
		if a.Type == core.AgentReviewer && a.ReliabilityScore != nil {
			out[a.ID] = *a.ReliabilityScore
		}
	}
	return out
}
