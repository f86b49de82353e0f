package domain

import (
	"fmt"
	"strings"
)

// Outcome is the result of a single pitch.
type Outcome string

const (
	OutcomeBall           Outcome = "ball"
	OutcomeStrikeLooking  Outcome = "strike_looking"
	OutcomeStrikeSwinging Outcome = "strike_swinging"
	OutcomeFoul           Outcome = "foul"
	OutcomeGroundout      Outcome = "groundout"
	OutcomeFlyout         Outcome = "flyout"
	OutcomeLineout        Outcome = "lineout"
	OutcomeSingle         Outcome = "single"
	OutcomeDouble         Outcome = "double"
	OutcomeTriple         Outcome = "triple"
	OutcomeHomerun        Outcome = "homerun"
)

// OutcomeGroup is a disjoint classification of outcomes.
type OutcomeGroup string

const (
	GroupBall   OutcomeGroup = "BALL"
	GroupStrike OutcomeGroup = "STRIKE"
	GroupFoul   OutcomeGroup = "FOUL"
	GroupOut    OutcomeGroup = "OUT"
	GroupHit    OutcomeGroup = "HIT"
)

// Group classifies the outcome. Unknown outcomes return an empty group.
func (o Outcome) Group() OutcomeGroup {
	switch o {
	case OutcomeBall:
		return GroupBall
	case OutcomeStrikeLooking, OutcomeStrikeSwinging:
		return GroupStrike
	case OutcomeFoul:
		return GroupFoul
	case OutcomeGroundout, OutcomeFlyout, OutcomeLineout:
		return GroupOut
	case OutcomeSingle, OutcomeDouble, OutcomeTriple, OutcomeHomerun:
		return GroupHit
	}
	return ""
}

// IsHit reports whether the outcome puts the batter on base with a hit.
func (o Outcome) IsHit() bool { return o.Group() == GroupHit }

// IsOut reports whether the outcome is a batted-ball out.
func (o Outcome) IsOut() bool { return o.Group() == GroupOut }

// Title renders the outcome for play-by-play text, e.g. "Strike Swinging".
func (o Outcome) Title() string {
	words := strings.Split(string(o), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// PitchType is one of the four pitches a pitcher can throw.
type PitchType string

const (
	PitchFastball  PitchType = "fastball"
	PitchCurveball PitchType = "curveball"
	PitchSlider    PitchType = "slider"
	PitchChangeup  PitchType = "changeup"
)

// PitchTypes lists every valid pitch type in a stable order.
var PitchTypes = []PitchType{PitchFastball, PitchCurveball, PitchSlider, PitchChangeup}

// ParsePitchType validates raw input against the closed set of pitch types.
func ParsePitchType(s string) (PitchType, error) {
	p := PitchType(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range PitchTypes {
		if p == valid {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPitchType, s)
}

// BatAction is the batter's decision on a pitch.
type BatAction string

const (
	ActionSwing BatAction = "swing"
	ActionTake  BatAction = "take"
)

// ParseBatAction validates raw input against the closed set of bat actions.
func ParseBatAction(s string) (BatAction, error) {
	switch a := BatAction(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionSwing, ActionTake:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBatAction, s)
}

// Swung reports whether the action is a swing.
func (a BatAction) Swung() bool { return a == ActionSwing }
