package domain

// Weight pairs an outcome with its relative likelihood.
type Weight struct {
	Outcome Outcome `json:"outcome"`
	Weight  int     `json:"weight"`
}

// Table is an ordered weighted distribution over outcomes.
// The order is stable so that a given random draw always maps to the same outcome.
// Tables are values: adjusting one always produces a new Table.
type Table []Weight

// Total returns the sum of all weights.
func (t Table) Total() int {
	total := 0
	for _, w := range t {
		total += w.Weight
	}
	return total
}

// Get returns the weight of an outcome, or 0 when the table does not contain it.
func (t Table) Get(o Outcome) int {
	for _, w := range t {
		if w.Outcome == o {
			return w.Weight
		}
	}
	return 0
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	return append(Table(nil), t...)
}
