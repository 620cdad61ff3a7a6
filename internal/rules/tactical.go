package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/greenmere/lorekeep/internal/party"
)

// weaponCategory groups the keywords that mark an action as using a class of
// weapon. An action mentioning a category the character does not own is the
// highest-severity finding the tactical checker produces.
type weaponCategory struct {
	name     string
	keywords []string
}

var weaponCategories = []weaponCategory{
	{"bow", []string{"bow", "arrow"}},
	{"sword", []string{"sword", "blade"}},
	{"dagger", []string{"dagger", "knife"}},
	{"axe", []string{"axe"}},
	{"hammer", []string{"hammer"}},
	{"staff", []string{"staff"}},
	{"mace", []string{"mace", "club"}},
	{"spear", []string{"spear", "lance"}},
}

// tacticalRule is one row of the per-class decision table: if any trigger
// phrase appears in the action and the predicate flags the situation as
// suboptimal, the rule fires.
type tacticalRule struct {
	triggers    []string
	applies     func(p *party.Profile, action string) bool
	description string
	suggestion  string
	score       int
}

var classTactics = map[string][]tacticalRule{
	"ranger": {
		{
			triggers:    []string{"bow", "arrow"},
			applies:     func(p *party.Profile, action string) bool { return ownsMeleeWeapon(p) && impliesCloseRange(action) },
			description: "Drawing a bow at close range wastes the ranger's positioning; an owned melee weapon would serve better here.",
			suggestion:  "Have the ranger fall back to gain distance, or switch to an equipped melee weapon for close-quarters work.",
			score:       6,
		},
	},
	"wizard": {
		{
			triggers:    []string{"swings", "slashes", "strikes with", "punches", "melee"},
			applies:     func(p *party.Profile, action string) bool { return len(p.KnownSpells) > 0 },
			description: "A wizard closing to melee despite prepared spells gives up their main strength.",
			suggestion:  "Cast one of the known spells from range instead of trading blows in melee.",
			score:       7,
		},
	},
	"rogue": {
		{
			triggers:    []string{"charges head-on", "frontal assault", "charges directly", "rushes the front"},
			applies:     hasStealthTraining,
			description: "A frontal assault throws away the rogue's stealth proficiency.",
			suggestion:  "Approach from shadows or flank for sneak-attack advantage rather than charging head-on.",
			score:       6,
		},
	},
	"barbarian": {
		{
			triggers:    []string{"sneaks", "stealthily", "creeps quietly"},
			applies:     func(p *party.Profile, action string) bool { return hasAbilityKeyword(p, "rage") },
			description: "Skulking about sidelines the barbarian's rage; their strength is the direct approach.",
			suggestion:  "Let the barbarian lead openly and draw attention while subtler party members maneuver.",
			score:       6,
		},
	},
}

// closeRangeMarkers are phrases whose presence implies the action happens at
// melee distance.
var closeRangeMarkers = []string{
	"beside", "close", "adjacent", "point-blank", "point blank",
	"face to face", "melee", "grapple", "within arm",
}

// TacticalChecker flags equipment mismatches and tactically suboptimal
// class behavior. Evaluation order is fixed: the equipment check runs first
// and short-circuits the class decision table.
type TacticalChecker struct{}

func NewTacticalChecker() *TacticalChecker {
	return &TacticalChecker{}
}

func (c *TacticalChecker) Name() string {
	return "tactical"
}

// Check inspects one action. At most one issue is emitted; the first
// matching rule wins.
func (c *TacticalChecker) Check(_ context.Context, ac ActionContext) *Issue {
	if ac.Profile == nil || ac.Action == "" {
		return nil
	}

	if issue := c.checkEquipment(ac); issue != nil {
		return issue
	}
	return c.checkClassTactics(ac)
}

// checkEquipment emits an equipment issue when the action mentions a weapon
// category that none of the character's equipped weapons belong to.
func (c *TacticalChecker) checkEquipment(ac ActionContext) *Issue {
	action := strings.ToLower(ac.Action)
	weapons := ac.Profile.Weapons()

	for _, category := range weaponCategories {
		if !containsAny(action, category.keywords) {
			continue
		}
		if weaponsInclude(weapons, category.keywords) {
			continue
		}

		suggestion := "No weapons are listed on the character sheet."
		if len(weapons) > 0 {
			suggestion = fmt.Sprintf("Use one of the equipped weapons instead: %s.", strings.Join(weapons, ", "))
		}

		return &Issue{
			Character:   ac.Character,
			Story:       ac.Story,
			Line:        ac.Line,
			Action:      ac.Action,
			Kind:        KindEquipment,
			Description: fmt.Sprintf("The action uses a %s, but %s has no %s equipped.", category.name, ac.Character, category.name),
			Suggestion:  suggestion,
			Score:       9,
		}
	}
	return nil
}

// checkClassTactics walks the decision table for the character's class.
func (c *TacticalChecker) checkClassTactics(ac ActionContext) *Issue {
	action := strings.ToLower(ac.Action)
	rulesForClass := classTactics[strings.ToLower(strings.TrimSpace(ac.Profile.Class))]

	for _, rule := range rulesForClass {
		if !containsAny(action, rule.triggers) {
			continue
		}
		if !rule.applies(ac.Profile, strings.ToLower(ac.Context+" "+ac.Action)) {
			continue
		}

		return &Issue{
			Character:   ac.Character,
			Story:       ac.Story,
			Line:        ac.Line,
			Action:      ac.Action,
			Kind:        KindTactical,
			Description: rule.description,
			Suggestion:  rule.suggestion,
			Score:       rule.score,
		}
	}
	return nil
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func weaponsInclude(weapons []string, keywords []string) bool {
	for _, w := range weapons {
		if containsAny(strings.ToLower(w), keywords) {
			return true
		}
	}
	return false
}

var meleeWeaponKeywords = []string{"sword", "blade", "dagger", "knife", "axe", "hammer", "mace", "club", "spear", "lance", "staff"}

func ownsMeleeWeapon(p *party.Profile) bool {
	return weaponsInclude(p.Weapons(), meleeWeaponKeywords)
}

func impliesCloseRange(action string) bool {
	return containsAny(action, closeRangeMarkers)
}

func hasStealthTraining(p *party.Profile, _ string) bool {
	return hasAbilityKeyword(p, "stealth")
}

func hasAbilityKeyword(p *party.Profile, keyword string) bool {
	for _, a := range p.Abilities() {
		if strings.Contains(strings.ToLower(a), keyword) {
			return true
		}
	}
	return false
}
