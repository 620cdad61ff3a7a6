// Package fit estimates how well a described action suits a character. The
// score combines three weighted signals: ability keyword match, personality
// alignment, and consistency with the character's prior actions. Scoring is
// pure: profiles and histories come in as parameters and nothing is cached,
// so identical inputs always produce identical scores.
package fit

import (
	"math"
	"sort"
	"strings"

	"github.com/greenmere/lorekeep/internal/party"
)

// Config defines the scoring constants. The exact values are heuristic
// tuning knobs, not invariants; tests pin the defaults only.
type Config struct {
	// Signal weights, expected to sum to 1.0
	AbilityWeight     float64
	PersonalityWeight float64
	HistoryWeight     float64

	// Per-field weights inside the personality signal (clamped to 1 total)
	SummaryWeight    float64
	MotivationWeight float64
	GoalWeight       float64

	// LeadWords is how many leading words of each personality field are
	// tested against the action text
	LeadWords int

	// MinSharedWords is the overlap a prior action must exceed to count as
	// consistent with the current one
	MinSharedWords int

	// NeutralHistoryScore is used when no prior actions are known
	NeutralHistoryScore float64

	// ConfidenceThreshold is the minimum score gap before an amendment is
	// suggested
	ConfidenceThreshold float64
}

// DefaultConfig returns the default scoring parameters.
func DefaultConfig() Config {
	return Config{
		AbilityWeight:       0.40,
		PersonalityWeight:   0.35,
		HistoryWeight:       0.25,
		SummaryWeight:       0.30,
		MotivationWeight:    0.35,
		GoalWeight:          0.35,
		LeadWords:           3,
		MinSharedWords:      2,
		NeutralHistoryScore: 0.5,
		ConfidenceThreshold: 0.15,
	}
}

// Scorer computes fit scores under a fixed configuration.
type Scorer struct {
	config Config
}

func NewScorer(config Config) *Scorer {
	return &Scorer{config: config}
}

// Score returns the fit of the action for the profile, in [0,1].
// prior may be nil; history then contributes the neutral default.
func (s *Scorer) Score(action string, p *party.Profile, prior []string) float64 {
	if p == nil {
		return 0
	}

	ability := s.abilityScore(action, p)
	personality := s.personalityScore(action, p)
	history := s.historyScore(action, prior)

	total := s.config.AbilityWeight*ability +
		s.config.PersonalityWeight*personality +
		s.config.HistoryWeight*history
	return clamp01(total)
}

// BestFit scores the action against every profile and returns the ranking,
// descending by score. The sort is stable: ties keep the input order.
func (s *Scorer) BestFit(action string, profiles []*party.Profile, prior map[string][]string) []RankedFit {
	ranked := make([]RankedFit, 0, len(profiles))
	for _, p := range profiles {
		ranked = append(ranked, RankedFit{
			Name:  p.Name,
			Score: round3(s.Score(action, p, prior[p.Name])),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

// SuggestAmendment proposes a better-fitting character for the action, or
// nil when the current character is already the best fit, is unknown, or is
// beaten by less than the confidence threshold.
func (s *Scorer) SuggestAmendment(current, action string, profiles []*party.Profile, prior map[string][]string) *Suggestion {
	ranked := s.BestFit(action, profiles, prior)
	if len(ranked) == 0 {
		return nil
	}

	currentScore, found := scoreFor(ranked, current)
	if !found {
		return nil
	}

	top := ranked[0]
	if top.Name == current {
		return nil
	}
	diff := round3(top.Score - currentScore)
	if diff < s.config.ConfidenceThreshold {
		return nil
	}

	alternatives := ranked
	if len(alternatives) > 3 {
		alternatives = alternatives[:3]
	}

	return &Suggestion{
		Action:         action,
		Current:        current,
		CurrentScore:   currentScore,
		Suggested:      top.Name,
		SuggestedScore: top.Score,
		Difference:     diff,
		Alternatives:   alternatives,
	}
}

// abilityScore counts abilities sharing at least one word with the action.
// A character with no abilities at all scores zero.
func (s *Scorer) abilityScore(action string, p *party.Profile) float64 {
	abilities := p.Abilities()
	if len(abilities) == 0 {
		return 0
	}

	actionWords := wordSet(action)
	matches := 0
	for _, ability := range abilities {
		for word := range wordSet(ability) {
			if _, ok := actionWords[word]; ok {
				matches++
				break
			}
		}
	}

	denominator := len(abilities) / 2
	if denominator < 1 {
		denominator = 1
	}
	return math.Min(1, float64(matches)/float64(denominator))
}

// personalityScore checks whether the leading words of the personality
// summary, motivations and goals surface in the action text. Each non-empty
// field contributes its own weight; the sum is clamped to 1.
func (s *Scorer) personalityScore(action string, p *party.Profile) float64 {
	actionWords := wordSet(action)

	total := 0.0
	total += s.leadWordContribution(actionWords, p.PersonalitySummary, s.config.SummaryWeight)
	total += s.leadWordContribution(actionWords, strings.Join(p.Motivations, " "), s.config.MotivationWeight)
	total += s.leadWordContribution(actionWords, strings.Join(p.Goals, " "), s.config.GoalWeight)
	return math.Min(1, total)
}

func (s *Scorer) leadWordContribution(actionWords map[string]struct{}, field string, weight float64) float64 {
	lead := leadWords(field, s.config.LeadWords)
	for _, word := range lead {
		if _, ok := actionWords[word]; ok {
			return weight
		}
	}
	return 0
}

// historyScore measures word overlap between the action and prior actions.
// No known history is neutral, not negative.
func (s *Scorer) historyScore(action string, prior []string) float64 {
	if len(prior) == 0 {
		return s.config.NeutralHistoryScore
	}

	actionWords := wordSet(action)
	matches := 0
	for _, past := range prior {
		if sharedWordCount(actionWords, wordSet(past)) > s.config.MinSharedWords {
			matches++
		}
	}
	return math.Min(1, float64(matches)/float64(len(prior)))
}

// wordSet lowercases and splits text into distinct words, dropping words
// shorter than three characters so articles and particles never count as
// matches.
func wordSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// leadWords returns up to n leading usable words of a field.
func leadWords(text string, n int) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var lead []string
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		lead = append(lead, w)
		if len(lead) == n {
			break
		}
	}
	return lead
}

func sharedWordCount(a, b map[string]struct{}) int {
	count := 0
	for w := range a {
		if _, ok := b[w]; ok {
			count++
		}
	}
	return count
}

func scoreFor(ranked []RankedFit, name string) (float64, bool) {
	for _, r := range ranked {
		if r.Name == name {
			return r.Score, true
		}
	}
	return 0, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
