package runtime

import "github.com/aretw0/ballpark/pkg/domain"

// advanceOnWalk moves only forced runners and puts the batter on first.
// A runner on third with first open is not forced and stays.
func advanceOnWalk(b *domain.Bases) int {
	runs := 0
	if b.Loaded() {
		runs = 1
	}
	if b[0] && b[1] {
		b[2] = true
	}
	if b[0] {
		b[1] = true
	}
	b[0] = true
	return runs
}

// advanceOnHit moves runners for a hit and returns the runs scored.
//
// On a double, runners on second and third score and a runner on first stops
// at third. Third base is cleared only when first was empty.
func advanceOnHit(b *domain.Bases, hit domain.Outcome) int {
	runs := 0
	switch hit {
	case domain.OutcomeSingle:
		if b[2] {
			runs++
			b[2] = false
		}
		if b[1] {
			b[2] = true
			b[1] = false
		}
		if b[0] {
			b[1] = true
		}
		b[0] = true

	case domain.OutcomeDouble:
		if b[2] {
			runs++
		}
		if b[1] {
			runs++
		}
		if b[0] {
			b[2] = true
			b[0] = false
		} else {
			b[2] = false
		}
		b[1] = true

	case domain.OutcomeTriple:
		runs = b.Occupied()
		*b = domain.Bases{false, false, true}

	case domain.OutcomeHomerun:
		runs = b.Occupied() + 1
		*b = domain.Bases{}
	}
	return runs
}
