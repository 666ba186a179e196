package dto

// RecommendationEquivalent is reported when neither schedule beats the other.
const RecommendationEquivalent = "EQUIVALENT"

// ScheduleComparison ranks two persisted schedules by quality. Read-only,
// computed on demand; mutates neither schedule. Ranking is lexicographic:
// lower hard score wins outright, soft score breaks ties.
type ScheduleComparison struct {
	Schedule1ID        string `json:"schedule1_id"`
	Schedule1Name      string `json:"schedule1_name"`
	Schedule1HardScore int    `json:"schedule1_hard_score"`
	Schedule1SoftScore int    `json:"schedule1_soft_score"`
	Schedule1Conflicts int    `json:"schedule1_conflicts"`
	Schedule1Method    string `json:"schedule1_method"`

	Schedule2ID        string `json:"schedule2_id"`
	Schedule2Name      string `json:"schedule2_name"`
	Schedule2HardScore int    `json:"schedule2_hard_score"`
	Schedule2SoftScore int    `json:"schedule2_soft_score"`
	Schedule2Conflicts int    `json:"schedule2_conflicts"`
	Schedule2Method    string `json:"schedule2_method"`

	// Recommendation holds the winning schedule ID, or
	// RecommendationEquivalent when the scores tie on both components.
	Recommendation string `json:"recommendation"`
	Reason         string `json:"reason"`
}
