package config

import "sort"

// QueueCurve maps a formation slot to a multiplier of the pursuit distance
// behind the owner. It is used to stagger boids into groups.
type QueueCurve interface {
	Sample(slot int) float64
}

// ConstantCurve returns the same multiplier for every slot.
type ConstantCurve float64

// Sample implements QueueCurve.
func (c ConstantCurve) Sample(int) float64 {
	return float64(c)
}

// CurveKey is one step of a StepCurve.
type CurveKey struct {
	Slot       float64 `yaml:"slot" toml:"slot" validate:"gte=0"`
	Multiplier float64 `yaml:"multiplier" toml:"multiplier" validate:"gte=0"`
}

// StepCurve is a constant-interpolated curve: a key's multiplier holds from
// its slot up to the next key. Slots before the first key use the first
// key's multiplier.
//
// With keys (0, 1) and (3, 2), slots 0-2 sample 1 and slots 3+ sample 2.
type StepCurve struct {
	keys []CurveKey
}

// NewStepCurve builds a step curve from keys in any order.
// Returns nil when keys is empty. For duplicate slots the last key wins.
func NewStepCurve(keys []CurveKey) *StepCurve {
	if len(keys) == 0 {
		return nil
	}

	sorted := make([]CurveKey, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Slot < sorted[j].Slot
	})

	dedup := sorted[:0]
	for _, k := range sorted {
		if n := len(dedup); n > 0 && dedup[n-1].Slot == k.Slot {
			dedup[n-1] = k
			continue
		}
		dedup = append(dedup, k)
	}

	return &StepCurve{keys: dedup}
}

// Sample implements QueueCurve.
func (c *StepCurve) Sample(slot int) float64 {
	x := float64(slot)
	// First key strictly after x; the step in effect is the one before it.
	i := sort.Search(len(c.keys), func(i int) bool {
		return c.keys[i].Slot > x
	})
	if i == 0 {
		return c.keys[0].Multiplier
	}
	return c.keys[i-1].Multiplier
}

// Keys returns a copy of the curve's keys in slot order.
func (c *StepCurve) Keys() []CurveKey {
	out := make([]CurveKey, len(c.keys))
	copy(out, c.keys)
	return out
}
