package update

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

func TestRegistry_ApplyEmpty(t *testing.T) {
	d := sample(t)
	before := render(d)

	r := NewRegistry(SpacePersisted, DefaultOptions())
	st, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, Applied{}, st)
	assert.Equal(t, StateDone, r.State())
	assert.Equal(t, before, render(d))
	assert.Zero(t, d.Dirty().Len())
}

func TestRegistry_SameKindMergesIntoOneSlot(t *testing.T) {
	d := items(t, 3)
	j := &journal{}
	tg := target(t, d, 4)

	r := NewRegistry(SpacePersisted, DefaultOptions())
	require.NoError(t, r.AddPrimitive(newFake(j, KindInsertInto, tg)))
	require.NoError(t, r.AddPrimitive(newFake(j, KindInsertInto, tg)))
	require.NoError(t, r.AddPrimitive(newFake(j, KindInsertInto, tg)))

	assert.Equal(t, 1, r.Len())
	b := r.Bucket(4)
	require.NotNil(t, b)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 3, b.Get(KindInsertInto).(*fakePrim).weight)

	st, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, []string{"check 4 insert_into", "apply 4 insert_into"}, j.strings())
	assert.Equal(t, 1, st.Applied)
}

func TestRegistry_VisitsBucketsDescending(t *testing.T) {
	d := items(t, 5)
	j := &journal{}
	r := NewRegistry(SpacePersisted, DefaultOptions())
	for _, pre := range []int{3, 9, 1, 7} {
		require.NoError(t, r.AddPrimitive(newFake(j, KindDelete, target(t, d, pre))))
	}
	assert.Equal(t, []int{1, 3, 7, 9}, r.Keys())

	st, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"check 9 delete", "apply 9 delete",
		"check 7 delete", "apply 7 delete",
		"check 3 delete", "apply 3 delete",
		"check 1 delete", "apply 1 delete",
	}, j.strings())
	assert.Equal(t, 4, st.Buckets)
	assert.Equal(t, 4, st.Checked)
	assert.Equal(t, 4, st.Applied)
	assert.Equal(t, 4, st.ByKind[KindDelete])
}

func TestRegistry_BucketSlotsInKindOrder(t *testing.T) {
	d := items(t, 2)
	j := &journal{}
	tg := target(t, d, 4)
	r := NewRegistry(SpacePersisted, DefaultOptions())
	for _, k := range []Kind{KindInsertBefore, KindDelete, KindRename, KindInsertAfter, KindReplaceValue} {
		require.NoError(t, r.AddPrimitive(newFake(j, k, tg)))
	}

	_, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"check 4 rename", "check 4 replace_value", "check 4 insert_after", "check 4 delete", "check 4 insert_before",
		"apply 4 rename", "apply 4 replace_value", "apply 4 insert_after", "apply 4 delete", "apply 4 insert_before",
	}, j.strings())
}

func TestRegistry_FragmentOnlyStopsAfterFirstCheck(t *testing.T) {
	j := &journal{}
	frags := []*tree.Fragment{tree.NewText("x"), tree.NewText("y"), tree.NewText("z")}
	r := NewRegistry(SpaceFragment, DefaultOptions())
	for _, f := range frags {
		require.NoError(t, r.AddPrimitive(newFake(j, KindDelete, FragmentTarget(f))))
	}

	st, err := r.Apply()
	require.NoError(t, err)
	highest := frags[2].ID()
	assert.Equal(t, []string{event{"check", highest, KindDelete}.String()}, j.strings())
	assert.Equal(t, 1, st.Checked)
	assert.Zero(t, st.Applied)
}

func TestRegistry_FragmentDeleteChecksWithoutMutation(t *testing.T) {
	parent := tree.NewElement("p", tree.NewText("x"))
	child := parent.Children()[0]

	r := NewRegistry(SpaceFragment, DefaultOptions())
	require.NoError(t, r.AddPrimitive(NewDelete(FragmentTarget(child))))
	st, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Checked)
	assert.Zero(t, st.Applied)
	assert.Len(t, parent.Children(), 1)
}

func TestRegistry_FragmentCheckFailure(t *testing.T) {
	attr := tree.NewAttribute("a", "1")
	r := NewRegistry(SpaceFragment, DefaultOptions())
	require.NoError(t, r.AddPrimitive(NewInsertIntoLast(FragmentTarget(attr), tree.NewText("x"))))
	_, err := r.Apply()
	require.ErrorIs(t, err, types.ErrConstraint)
	assert.Equal(t, StateFailed, r.State())
}

func TestRegistry_FailureStopsLowerBucketsKeepsHigher(t *testing.T) {
	d := items(t, 5)
	j := &journal{}
	boom := types.Constraint("boom")

	r := NewRegistry(SpacePersisted, DefaultOptions())
	for _, pre := range []int{2, 5, 8} {
		p := newFake(j, KindRename, target(t, d, pre))
		if pre == 5 {
			p.checkErr = boom
		}
		require.NoError(t, r.AddPrimitive(p))
	}

	st, err := r.Apply()
	require.Error(t, err)
	assert.Same(t, boom, err)
	assert.Equal(t, []string{"check 8 rename", "apply 8 rename", "check 5 rename"}, j.strings())
	assert.Equal(t, 1, st.Applied)
	assert.Equal(t, StateFailed, r.State())
}

func TestRegistry_FailureLeavesHigherEditsInStore(t *testing.T) {
	d := sample(t)
	r := NewRegistry(SpacePersisted, DefaultOptions())
	require.NoError(t, r.AddPrimitive(NewInsertIntoLast(target(t, d, 5), tree.NewText("c"))))
	require.NoError(t, r.AddPrimitive(NewRename(target(t, d, 3), "1bad")))

	_, err := r.Apply()
	require.ErrorIs(t, err, types.ErrConstraint)
	assert.Equal(t, "root[@version=1](item(a),item(b,c))", render(d))
}

func TestRegistry_ValidateFirstLeavesStoreUntouched(t *testing.T) {
	d := sample(t)
	before := render(d)
	opt := DefaultOptions()
	opt.Mode = ApplyValidateFirst

	r := NewRegistry(SpacePersisted, opt)
	require.NoError(t, r.AddPrimitive(NewInsertIntoLast(target(t, d, 5), tree.NewText("c"))))
	require.NoError(t, r.AddPrimitive(NewRename(target(t, d, 3), "1bad")))

	st, err := r.Apply()
	require.ErrorIs(t, err, types.ErrConstraint)
	assert.Zero(t, st.Applied)
	assert.Equal(t, before, render(d))
}

func TestRegistry_ValidateFirstChecksAllThenApplies(t *testing.T) {
	d := items(t, 3)
	j := &journal{}
	opt := DefaultOptions()
	opt.Mode = ApplyValidateFirst

	r := NewRegistry(SpacePersisted, opt)
	for _, pre := range []int{2, 6} {
		require.NoError(t, r.AddPrimitive(newFake(j, KindDelete, target(t, d, pre))))
	}
	_, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, []string{"check 6 delete", "check 2 delete", "apply 6 delete", "apply 2 delete"}, j.strings())
}

func TestRegistry_InsertBeforeHighDeleteLow(t *testing.T) {
	// items a..e: item(e) at 10, text "b" at 5
	d := items(t, 5)
	r := NewRegistry(SpacePersisted, DefaultOptions())
	require.NoError(t, r.AddPrimitive(NewInsertBefore(target(t, d, 10), tree.NewElement("new"))))
	require.NoError(t, r.AddPrimitive(NewDelete(target(t, d, 5))))

	st, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Applied)
	assert.Equal(t, "root(item(a),item,item(c),item(d),new,item(e))", render(d))
}

func TestRegistry_TwoInsertBeforesAtOnePosition(t *testing.T) {
	d := items(t, 3)
	tg := target(t, d, 4)
	r := NewRegistry(SpacePersisted, DefaultOptions())
	require.NoError(t, r.AddPrimitive(NewInsertBefore(tg, tree.NewText("x"))))
	require.NoError(t, r.AddPrimitive(NewInsertBefore(tg, tree.NewText("y"), tree.NewText("z"))))

	assert.Len(t, r.Bucket(4).Get(KindInsertBefore).(*insertPrim).Content(), 3)

	st, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Applied)
	assert.Equal(t, "root(item(a),x,y,z,item(b),item(c))", render(d))
}

func TestRegistry_MergeConflictReturnedUnchanged(t *testing.T) {
	d := sample(t)
	tg := target(t, d, 3)
	r := NewRegistry(SpacePersisted, DefaultOptions())
	first := NewRename(tg, "one")
	require.NoError(t, r.AddPrimitive(first))

	err := r.AddPrimitive(NewRename(tg, "two"))
	require.ErrorIs(t, err, types.ErrConflict)
	assert.Same(t, first, r.Bucket(3).Get(KindRename))
}

func TestRegistry_StrictRejectsOtherSpace(t *testing.T) {
	d := sample(t)
	r := NewRegistry(SpacePersisted, DefaultOptions())
	err := r.AddPrimitive(NewDelete(FragmentTarget(tree.NewText("x"))))
	require.ErrorIs(t, err, types.ErrState)

	f := NewRegistry(SpaceFragment, DefaultOptions())
	err = f.AddPrimitive(NewDelete(target(t, d, 3)))
	require.ErrorIs(t, err, types.ErrState)
}

func TestRegistry_RejectsUnresolvedTarget(t *testing.T) {
	for _, opt := range []Options{DefaultOptions(), {Strict: false}} {
		r := NewRegistry(SpacePersisted, opt)
		require.ErrorIs(t, r.AddPrimitive(NewDelete(Target{})), types.ErrState)
		require.ErrorIs(t, r.AddPrimitive(NewRename(FragmentTarget(nil), "x")), types.ErrState)
		assert.Equal(t, 0, r.Len())
	}

	require.ErrorIs(t, NewDelete(Target{}).Check(), types.ErrConstraint)

	p := NewPending(DefaultOptions())
	require.ErrorIs(t, p.Add(NewDelete(Target{})), types.ErrState)
	assert.Empty(t, p.Registries())
}

func TestRegistry_StrictRejectsOtherStore(t *testing.T) {
	a, b := sample(t), sample(t)
	r := NewRegistry(SpacePersisted, DefaultOptions())
	require.NoError(t, r.AddPrimitive(NewDelete(target(t, a, 3))))
	err := r.AddPrimitive(NewDelete(target(t, b, 5)))
	require.ErrorIs(t, err, types.ErrState)
	assert.Same(t, a, r.Data())
}

func TestRegistry_LenientSkipsFragmentSlots(t *testing.T) {
	d := sample(t)
	opt := DefaultOptions()
	opt.Strict = false

	r := NewRegistry(SpacePersisted, opt)
	require.NoError(t, r.AddPrimitive(NewDelete(target(t, d, 5))))
	require.NoError(t, r.AddPrimitive(NewDelete(FragmentTarget(tree.NewText("x")))))

	st, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Checked)
	assert.Equal(t, 1, st.Applied)
	assert.Equal(t, 1, st.Skipped)
	assert.Equal(t, "root[@version=1](item(a))", render(d))
}

func TestRegistry_SingleUse(t *testing.T) {
	d := sample(t)
	r := NewRegistry(SpacePersisted, DefaultOptions())
	require.NoError(t, r.AddPrimitive(NewDelete(target(t, d, 5))))
	_, err := r.Apply()
	require.NoError(t, err)

	_, err = r.Apply()
	require.ErrorIs(t, err, types.ErrState)
	err = r.AddPrimitive(NewDelete(target(t, d, 3)))
	require.ErrorIs(t, err, types.ErrState)
}

func TestRegistry_ApplyErrorPropagates(t *testing.T) {
	d := items(t, 2)
	j := &journal{}
	p := newFake(j, KindDelete, target(t, d, 2))
	p.applyErr = errors.New("disk full")

	r := NewRegistry(SpacePersisted, DefaultOptions())
	require.NoError(t, r.AddPrimitive(p))
	_, err := r.Apply()
	require.EqualError(t, err, "disk full")
	assert.Equal(t, StateFailed, r.State())
}

func TestRegistry_IDsDiffer(t *testing.T) {
	a := NewRegistry(SpacePersisted, DefaultOptions())
	b := NewRegistry(SpacePersisted, DefaultOptions())
	assert.NotEqual(t, a.ID(), b.ID())
}
