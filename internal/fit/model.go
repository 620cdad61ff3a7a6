package fit

// RankedFit pairs a character name with their fit score for one action.
type RankedFit struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Suggestion proposes reassigning an action to a better-fitting character.
// One is produced only when a strictly different character beats the current
// one by at least the confidence threshold; otherwise no suggestion exists
// at all (nil, not a zero record).
type Suggestion struct {
	Action         string      `json:"action"`
	Current        string      `json:"current_character"`
	CurrentScore   float64     `json:"current_score"`
	Suggested      string      `json:"suggested_character"`
	SuggestedScore float64     `json:"suggested_score"`
	Difference     float64     `json:"score_difference"`
	Alternatives   []RankedFit `json:"alternatives"` // top 3, descending
}
