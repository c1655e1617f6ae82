package update

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

// applyAll registers ps in a fresh registry and applies it.
func applyAll(t *testing.T, ps ...Primitive) (Applied, error) {
	t.Helper()
	r := NewRegistry(SpacePersisted, DefaultOptions())
	for _, p := range ps {
		require.NoError(t, r.AddPrimitive(p))
	}
	return r.Apply()
}

func TestPrimitives_Apply(t *testing.T) {
	tests := []struct {
		name string
		prim func(d *tree.Data) []Primitive
		want string
	}{
		{
			name: "insert into first",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewInsertIntoFirst(target(t, d, 3), tree.NewText("x"))}
			},
			want: "root[@version=1](item(x,a),item(b))",
		},
		{
			name: "insert into and into last",
			prim: func(d *tree.Data) []Primitive {
				tg := target(t, d, 1)
				return []Primitive{
					NewInsertIntoLast(tg, tree.NewElement("z")),
					NewInsertInto(tg, tree.NewElement("y")),
				}
			},
			want: "root[@version=1](item(a),item(b),y,z)",
		},
		{
			name: "insert attributes",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewInsertAttributes(target(t, d, 3), tree.NewAttribute("id", "7"))}
			},
			want: "root[@version=1](item[@id=7](a),item(b))",
		},
		{
			name: "insert after",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewInsertAfter(target(t, d, 3), tree.NewComment("c"))}
			},
			want: "root[@version=1](item(a),<!--c-->,item(b))",
		},
		{
			name: "insert into document",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewInsertIntoFirst(target(t, d, 0), tree.NewPI("go", "fast"))}
			},
			want: "<?go fast?>,root[@version=1](item(a),item(b))",
		},
		{
			name: "delete subtree",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewDelete(target(t, d, 3))}
			},
			want: "root[@version=1](item(b))",
		},
		{
			name: "delete attribute",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewDelete(target(t, d, 2))}
			},
			want: "root(item(a),item(b))",
		},
		{
			name: "rename element and attribute",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewRename(target(t, d, 3), "entry"), NewRename(target(t, d, 2), "v")}
			},
			want: "root[@v=1](entry(a),item(b))",
		},
		{
			name: "replace value",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewReplaceValue(target(t, d, 2), "2"), NewReplaceValue(target(t, d, 6), "B")}
			},
			want: "root[@version=2](item(a),item(B))",
		},
		{
			name: "replace content keeps attributes",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewReplaceContent(target(t, d, 1), "hello")}
			},
			want: "root[@version=1](hello)",
		},
		{
			name: "replace content with empty text",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewReplaceContent(target(t, d, 3), "")}
			},
			want: "root[@version=1](item,item(b))",
		},
		{
			name: "replace node",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewReplaceNode(target(t, d, 3), tree.NewElement("x"), tree.NewText("t"))}
			},
			want: "root[@version=1](x,t,item(b))",
		},
		{
			name: "replace attribute",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewReplaceNode(target(t, d, 2), tree.NewAttribute("v2", "2"))}
			},
			want: "root[@v2=2](item(a),item(b))",
		},
		{
			name: "replace node with nothing",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{NewReplaceNode(target(t, d, 5))}
			},
			want: "root[@version=1](item(a))",
		},
		{
			name: "all sibling kinds on one target",
			prim: func(d *tree.Data) []Primitive {
				tg := target(t, d, 5)
				return []Primitive{
					NewInsertBefore(tg, tree.NewText("before")),
					NewDelete(tg),
					NewInsertAfter(tg, tree.NewText("after")),
					NewReplaceNode(tg, tree.NewElement("new")),
				}
			},
			want: "root[@version=1](item(a),before,new,after)",
		},
		{
			name: "rename then insert into the same element",
			prim: func(d *tree.Data) []Primitive {
				tg := target(t, d, 5)
				return []Primitive{NewInsertIntoFirst(tg, tree.NewText("0")), NewRename(tg, "last")}
			},
			want: "root[@version=1](item(a),last(0,b))",
		},
		{
			name: "nested targets",
			prim: func(d *tree.Data) []Primitive {
				return []Primitive{
					NewReplaceValue(target(t, d, 4), "A"),
					NewInsertAfter(target(t, d, 3), tree.NewText("mid")),
					NewInsertIntoLast(target(t, d, 1), tree.NewText("end")),
					NewDelete(target(t, d, 6)),
				}
			},
			want: "root[@version=1](item(A),mid,item,end)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sample(t)
			_, err := applyAll(t, tt.prim(d)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(d))
		})
	}
}

func TestPrimitives_CheckViolations(t *testing.T) {
	tests := []struct {
		name string
		prim func(d *tree.Data) Primitive
	}{
		{"insert before attribute", func(d *tree.Data) Primitive {
			return NewInsertBefore(target(t, d, 2), tree.NewText("x"))
		}},
		{"insert after document", func(d *tree.Data) Primitive {
			return NewInsertAfter(target(t, d, 0), tree.NewText("x"))
		}},
		{"insert into text", func(d *tree.Data) Primitive {
			return NewInsertIntoLast(target(t, d, 4), tree.NewText("x"))
		}},
		{"insert attribute as child", func(d *tree.Data) Primitive {
			return NewInsertInto(target(t, d, 3), tree.NewAttribute("a", "1"))
		}},
		{"insert document", func(d *tree.Data) Primitive {
			return NewInsertInto(target(t, d, 3), tree.NewDocument())
		}},
		{"insert attributes into text", func(d *tree.Data) Primitive {
			return NewInsertAttributes(target(t, d, 4), tree.NewAttribute("a", "1"))
		}},
		{"insert element as attribute", func(d *tree.Data) Primitive {
			return NewInsertAttributes(target(t, d, 3), tree.NewElement("e"))
		}},
		{"duplicate attribute with existing", func(d *tree.Data) Primitive {
			return NewInsertAttributes(target(t, d, 1), tree.NewAttribute("version", "2"))
		}},
		{"duplicate attribute within content", func(d *tree.Data) Primitive {
			return NewInsertAttributes(target(t, d, 3), tree.NewAttribute("a", "1"), tree.NewAttribute("a", "2"))
		}},
		{"delete document", func(d *tree.Data) Primitive {
			return NewDelete(target(t, d, 0))
		}},
		{"rename text", func(d *tree.Data) Primitive {
			return NewRename(target(t, d, 4), "x")
		}},
		{"rename invalid name", func(d *tree.Data) Primitive {
			return NewRename(target(t, d, 3), "a b")
		}},
		{"replace value of element", func(d *tree.Data) Primitive {
			return NewReplaceValue(target(t, d, 3), "x")
		}},
		{"replace content of text", func(d *tree.Data) Primitive {
			return NewReplaceContent(target(t, d, 4), "x")
		}},
		{"replace document", func(d *tree.Data) Primitive {
			return NewReplaceNode(target(t, d, 0), tree.NewElement("x"))
		}},
		{"replace attribute with element", func(d *tree.Data) Primitive {
			return NewReplaceNode(target(t, d, 2), tree.NewElement("x"))
		}},
		{"replace element with attribute", func(d *tree.Data) Primitive {
			return NewReplaceNode(target(t, d, 3), tree.NewAttribute("x", "1"))
		}},
		{"insert text with children", func(d *tree.Data) Primitive {
			txt := tree.NewText("t")
			txt.Append(tree.NewElement("e"))
			return NewInsertIntoLast(target(t, d, 3), txt)
		}},
		{"insert attribute with children", func(d *tree.Data) Primitive {
			attr := tree.NewAttribute("a", "1")
			attr.Append(tree.NewText("kid"))
			return NewInsertAttributes(target(t, d, 3), attr)
		}},
		{"insert nested document", func(d *tree.Data) Primitive {
			return NewInsertInto(target(t, d, 3), tree.NewElement("x", tree.NewDocument()))
		}},
		{"replace with malformed content", func(d *tree.Data) Primitive {
			c := tree.NewComment("c")
			c.Append(tree.NewText("t"))
			return NewReplaceNode(target(t, d, 5), c)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sample(t)
			before := render(d)
			_, err := applyAll(t, tt.prim(d))
			require.ErrorIs(t, err, types.ErrConstraint)
			assert.Equal(t, before, render(d))
		})
	}
}

func TestRename_DuplicateSiblingAttribute(t *testing.T) {
	d := tree.New("attrs")
	el := tree.NewElement("e", tree.NewAttribute("a", "1"), tree.NewAttribute("b", "2"))
	require.NoError(t, d.Insert(1, 0, []*tree.Fragment{el}))

	err := NewRename(target(t, d, 3), "a").Check()
	require.ErrorIs(t, err, types.ErrConstraint)
	require.NoError(t, NewRename(target(t, d, 3), "b").Check())
}

func TestRename_NormalizesName(t *testing.T) {
	d := sample(t)
	_, err := applyAll(t, NewRename(target(t, d, 3), "café"))
	require.NoError(t, err)
	assert.Equal(t, "café", d.NameAt(3))
}

func TestTarget_MovedTargetFailsCheck(t *testing.T) {
	d := sample(t)
	tg := target(t, d, 3)
	require.NoError(t, d.Delete(3))

	err := NewRename(tg, "x").Check()
	require.ErrorIs(t, err, types.ErrConstraint)
}

func TestTarget_Resolution(t *testing.T) {
	d := sample(t)
	tg := target(t, d, 5)
	assert.Equal(t, SpacePersisted, tg.Space())
	assert.True(t, tg.Persisted())
	assert.Equal(t, 5, tg.Key())
	assert.Same(t, d, tg.Data())

	byID, err := StoreTargetByID(d, d.ID(5))
	require.NoError(t, err)
	assert.Equal(t, tg, byID)

	_, err = StoreTarget(d, 99)
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = StoreTargetByID(d, 9999)
	require.ErrorIs(t, err, types.ErrNotFound)

	f := tree.NewText("x")
	ft := FragmentTarget(f)
	assert.Equal(t, SpaceFragment, ft.Space())
	assert.False(t, ft.Persisted())
	assert.Equal(t, f.ID(), ft.Key())
	assert.Equal(t, -1, ft.Pre())
}

func TestMerge_Rules(t *testing.T) {
	d := sample(t)
	tg := target(t, d, 3)
	other := target(t, d, 5)

	merged, err := NewDelete(tg).Merge(NewDelete(tg))
	require.NoError(t, err)
	assert.Equal(t, KindDelete, merged.Kind())

	merged, err = NewInsertInto(tg, tree.NewText("1")).Merge(NewInsertInto(tg, tree.NewText("2")))
	require.NoError(t, err)
	content := merged.(*insertPrim).Content()
	require.Len(t, content, 2)
	assert.Equal(t, "1", content[0].Value())
	assert.Equal(t, "2", content[1].Value())

	conflicts := []struct {
		a, b Primitive
	}{
		{NewRename(tg, "a"), NewRename(tg, "b")},
		{NewReplaceValue(target(t, d, 4), "a"), NewReplaceValue(target(t, d, 4), "b")},
		{NewReplaceContent(tg, "a"), NewReplaceContent(tg, "b")},
		{NewReplaceNode(tg), NewReplaceNode(tg)},
		{NewDelete(tg), NewDelete(other)},
		{NewInsertInto(tg), NewInsertIntoLast(tg)},
	}
	for _, c := range conflicts {
		_, err := c.a.Merge(c.b)
		assert.ErrorIs(t, err, types.ErrConflict, "%s + %s", c.a, c.b)
	}
}

func TestDelete_SkipsWhenTargetReplaced(t *testing.T) {
	d := sample(t)
	tg := target(t, d, 3)
	st, err := applyAll(t, NewReplaceNode(tg, tree.NewText("r")), NewDelete(tg))
	require.NoError(t, err)
	assert.Equal(t, 2, st.Applied)
	assert.Equal(t, "root[@version=1](r,item(b))", render(d))
}

func TestApply_FragmentTargetNeedsStore(t *testing.T) {
	err := NewDelete(FragmentTarget(tree.NewText("x"))).Apply()
	require.ErrorIs(t, err, types.ErrState)
}

func TestInsert_MalformedContentKeepsStoreLoadable(t *testing.T) {
	d := sample(t)
	txt := tree.NewText("t")
	txt.Append(tree.NewElement("e"))

	err := NewInsertIntoLast(target(t, d, 3), txt).Check()
	require.ErrorIs(t, err, types.ErrConstraint)
	require.ErrorIs(t, err, tree.ErrBadContent)

	path := filepath.Join(t.TempDir(), "doc.tree.json")
	require.NoError(t, d.Save(path))
	_, err = tree.Load(path)
	require.NoError(t, err)
}
