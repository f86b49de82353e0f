package probability

import "github.com/aretw0/ballpark/pkg/domain"

// Baseline swing outcomes per pitch. Each table sums to 100.
// Fastballs miss fewest bats and give up the most power, curveballs get the
// most whiffs, sliders draw the most fouls and changeups the most grounders.
var swingTables = map[domain.PitchType]domain.Table{
	domain.PitchFastball:  swing(25, 20, 15, 12, 5, 12, 5, 1, 5),
	domain.PitchCurveball: swing(35, 15, 15, 10, 5, 10, 4, 1, 5),
	domain.PitchSlider:    swing(30, 18, 16, 10, 5, 11, 4, 1, 5),
	domain.PitchChangeup:  swing(28, 17, 17, 11, 5, 11, 5, 1, 5),
}

// Baseline take outcomes per pitch: called strike versus ball.
var takeTables = map[domain.PitchType]domain.Table{
	domain.PitchFastball:  take(55, 45),
	domain.PitchCurveball: take(35, 65),
	domain.PitchSlider:    take(40, 60),
	domain.PitchChangeup:  take(40, 60),
}

// Pitch mix used when the CPU is on the mound.
var pitchMix = []weighted[domain.PitchType]{
	{domain.PitchFastball, 50},
	{domain.PitchSlider, 20},
	{domain.PitchCurveball, 15},
	{domain.PitchChangeup, 15},
}

// SwingProbability is the chance a CPU batter swings at any pitch.
const SwingProbability = 0.60

func swing(whiff, foul, ground, fly, line, single, double, triple, hr int) domain.Table {
	return domain.Table{
		{Outcome: domain.OutcomeStrikeSwinging, Weight: whiff},
		{Outcome: domain.OutcomeFoul, Weight: foul},
		{Outcome: domain.OutcomeGroundout, Weight: ground},
		{Outcome: domain.OutcomeFlyout, Weight: fly},
		{Outcome: domain.OutcomeLineout, Weight: line},
		{Outcome: domain.OutcomeSingle, Weight: single},
		{Outcome: domain.OutcomeDouble, Weight: double},
		{Outcome: domain.OutcomeTriple, Weight: triple},
		{Outcome: domain.OutcomeHomerun, Weight: hr},
	}
}

func take(strike, ball int) domain.Table {
	return domain.Table{
		{Outcome: domain.OutcomeStrikeLooking, Weight: strike},
		{Outcome: domain.OutcomeBall, Weight: ball},
	}
}

// SwingTable returns a copy of the baseline swing table for a pitch.
// Unknown pitches fall back to the fastball table.
func SwingTable(p domain.PitchType) domain.Table {
	if t, ok := swingTables[p]; ok {
		return t.Clone()
	}
	return swingTables[domain.PitchFastball].Clone()
}

// TakeTable returns a copy of the baseline take table for a pitch.
// Unknown pitches fall back to the fastball table.
func TakeTable(p domain.PitchType) domain.Table {
	if t, ok := takeTables[p]; ok {
		return t.Clone()
	}
	return takeTables[domain.PitchFastball].Clone()
}
