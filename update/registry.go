package update

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/joshuapare/treekit/internal/logger"
	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

// State is the lifecycle state of a Registry.
type State int

const (
	StateCollecting State = iota
	StateApplying
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateApplying:
		return "applying"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Registry collects the primitives of one batch, one bucket per target, and
// applies them in an order that keeps every captured position valid.
//
// Buckets are visited from the highest key to the lowest. Applying a bucket
// only moves nodes at or after its own target, so every lower target still
// sits where it was when the batch was collected.
//
// A Registry is single-use and not safe for concurrent use.
type Registry struct {
	id      uuid.UUID
	space   Space
	opt     Options
	log     *slog.Logger
	data    *tree.Data
	buckets map[int]*Bucket
	state   State
}

// NewRegistry creates an empty registry for targets in the given space.
func NewRegistry(space Space, opt Options) *Registry {
	id := uuid.New()
	l := opt.Logger
	if l == nil {
		l = logger.L
	}
	return &Registry{
		id:      id,
		space:   space,
		opt:     opt,
		log:     l.With("batch", id.String(), "space", space.String()),
		buckets: make(map[int]*Bucket),
	}
}

// ID returns the batch id assigned at construction.
func (r *Registry) ID() uuid.UUID { return r.id }

// Space returns the identity space the registry was created for.
func (r *Registry) Space() Space { return r.space }

// State returns the lifecycle state.
func (r *Registry) State() State { return r.state }

// Data returns the store targeted by the registered primitives, if any.
func (r *Registry) Data() *tree.Data { return r.data }

// Len returns the number of buckets.
func (r *Registry) Len() int { return len(r.buckets) }

// Keys returns the bucket keys in ascending order.
func (r *Registry) Keys() []int {
	keys := make([]int, 0, len(r.buckets))
	for k := range r.buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Bucket returns the bucket for key, or nil.
func (r *Registry) Bucket(key int) *Bucket { return r.buckets[key] }

// AddPrimitive registers p in the bucket of its target. A primitive of a kind
// already present for the target is merged into it; merge conflicts are
// returned unchanged and leave the bucket as it was.
func (r *Registry) AddPrimitive(p Primitive) error {
	if r.state != StateCollecting {
		return types.State(fmt.Sprintf("add primitive: registry is %s", r.state))
	}
	t := p.Target()
	if !t.resolved() {
		return types.State(fmt.Sprintf("add %s: target is not resolved", p.Kind()))
	}
	if r.opt.Strict {
		if t.Space() != r.space {
			return types.State(fmt.Sprintf("add %s: %s target in %s registry", p.Kind(), t.Space(), r.space))
		}
		if t.Persisted() && r.data != nil && t.Data() != r.data {
			return types.State(fmt.Sprintf("add %s: target belongs to store %q, registry holds %q",
				p.Kind(), t.Data().Name(), r.data.Name()))
		}
	}
	if t.Persisted() && r.data == nil {
		r.data = t.Data()
	}

	key := t.Key()
	b, ok := r.buckets[key]
	if !ok {
		b = &Bucket{}
		r.buckets[key] = b
	}
	merged, err := b.add(p)
	if err != nil {
		if b.Len() == 0 {
			delete(r.buckets, key)
		}
		return err
	}
	if merged {
		r.log.Debug("merged primitive", "kind", p.Kind().String(), "key", key)
	}
	return nil
}

// Apply checks and applies all buckets, highest key first. It may be called
// once. The first error stops the traversal and is returned unchanged.
//
// In ApplyInterleaved mode each bucket is checked and then applied before the
// next one, so a failure leaves the buckets above it applied. In
// ApplyValidateFirst mode every bucket is checked before any is applied.
//
// A registry of fragment targets has nothing to write: Apply checks the
// highest bucket and returns.
func (r *Registry) Apply() (Applied, error) {
	var st Applied
	if r.state != StateCollecting {
		return st, types.State(fmt.Sprintf("apply: registry is %s", r.state))
	}
	r.state = StateApplying

	if len(r.buckets) == 0 {
		r.state = StateDone
		return st, nil
	}

	keys := r.Keys()
	r.log.Debug("apply", "buckets", len(keys), "mode", r.opt.Mode.String())

	var err error
	switch {
	case r.space == SpaceFragment:
		err = r.check(keys[len(keys)-1], &st)
	case r.opt.Mode == ApplyValidateFirst:
		for i := len(keys) - 1; i >= 0 && err == nil; i-- {
			err = r.check(keys[i], &st)
		}
		for i := len(keys) - 1; i >= 0 && err == nil; i-- {
			err = r.apply(keys[i], &st)
		}
	default:
		for i := len(keys) - 1; i >= 0 && err == nil; i-- {
			if err = r.check(keys[i], &st); err == nil {
				err = r.apply(keys[i], &st)
			}
		}
	}

	if err != nil {
		r.state = StateFailed
		r.log.Warn("apply failed", "error", err, "applied", st.Applied)
		return st, err
	}
	r.state = StateDone
	r.log.Debug("apply done", "checked", st.Checked, "applied", st.Applied, "skipped", st.Skipped)
	return st, nil
}

// check runs Check on every primitive of the bucket at key.
func (r *Registry) check(key int, st *Applied) error {
	b := r.buckets[key]
	st.Buckets++
	return b.each(func(p Primitive) error {
		st.Checked++
		return p.Check()
	})
}

// apply runs Apply on every store-backed primitive of the bucket at key.
func (r *Registry) apply(key int, st *Applied) error {
	b := r.buckets[key]
	r.log.Debug("apply bucket", "key", key, "slots", b.Len())
	return b.each(func(p Primitive) error {
		if !p.Target().Persisted() {
			st.Skipped++
			return nil
		}
		if err := p.Apply(); err != nil {
			return err
		}
		st.Applied++
		st.ByKind[p.Kind()]++
		return nil
	})
}
