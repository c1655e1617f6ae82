package update

// Applied contains statistics about one Registry.Apply (or Pending.Apply).
type Applied struct {
	Buckets int // buckets checked
	Checked int // primitives checked
	Applied int // primitives applied to a store
	Skipped int // primitives checked but not applied (fragment targets)

	ByKind [NumKinds]int // applied primitives per kind
}

// Add accumulates o into a.
func (a *Applied) Add(o Applied) {
	a.Buckets += o.Buckets
	a.Checked += o.Checked
	a.Applied += o.Applied
	a.Skipped += o.Skipped
	for i := range a.ByKind {
		a.ByKind[i] += o.ByKind[i]
	}
}

// KindCounts returns the non-zero per-kind counts keyed by kind name.
func (a Applied) KindCounts() map[string]int {
	out := make(map[string]int)
	for i, n := range a.ByKind {
		if n > 0 {
			out[Kind(i).String()] = n
		}
	}
	return out
}
