package prediction

import "sort"

// Candidate is one memory a strategy believes is likely relevant, plus
// which signal(s) led it there.
type Candidate struct {
	MemoryID   string
	Confidence float64
	Strategy   string
	Signals    []string
}

// Deduplicate merges candidates proposed by more than one strategy into a
// single entry: confidences combine by taking the max (a memory flagged
// strongly by one strategy shouldn't be diluted by a weak second vote),
// and the signal lists from every contributing strategy are concatenated
// so the caller can see the full reasoning trail. Order is stable by
// descending confidence, ties broken by memory id.
func Deduplicate(candidates []Candidate) []Candidate {
	byID := make(map[string]*Candidate, len(candidates))
	var order []string
	for _, c := range candidates {
		existing, ok := byID[c.MemoryID]
		if !ok {
			cc := c
			byID[c.MemoryID] = &cc
			order = append(order, c.MemoryID)
			continue
		}
		if c.Confidence > existing.Confidence {
			existing.Confidence = c.Confidence
		}
		existing.Signals = append(existing.Signals, c.Signals...)
		if existing.Strategy != c.Strategy {
			existing.Strategy = existing.Strategy + "+" + c.Strategy
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].MemoryID < out[j].MemoryID
	})
	return out
}
