package update

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

// sample returns a small store:
//
//	0 document
//	1   <root version="1">
//	2     @version
//	3     <item>
//	4       "a"
//	5     <item>
//	6       "b"
func sample(t *testing.T) *tree.Data {
	t.Helper()
	d := tree.New("sample")
	root := tree.NewElement("root",
		tree.NewAttribute("version", "1"),
		tree.NewElement("item", tree.NewText("a")),
		tree.NewElement("item", tree.NewText("b")),
	)
	require.NoError(t, d.Insert(1, 0, []*tree.Fragment{root}))
	return d
}

// items returns a store whose root (pre 1) holds n items, item i at
// pre 2+2i with a single text child.
func items(t *testing.T, n int) *tree.Data {
	t.Helper()
	d := tree.New("items")
	root := tree.NewElement("root")
	for i := 0; i < n; i++ {
		root.Append(tree.NewElement("item", tree.NewText(string(rune('a'+i)))))
	}
	require.NoError(t, d.Insert(1, 0, []*tree.Fragment{root}))
	return d
}

// render prints a store compactly: element(children), [@attr=value], text.
func render(d *tree.Data) string {
	return renderNode(d.Snapshot())
}

func renderNode(n tree.Node) string {
	join := func(ns []tree.Node, sep string) string {
		parts := make([]string, 0, len(ns))
		for _, c := range ns {
			parts = append(parts, renderNode(c))
		}
		return strings.Join(parts, sep)
	}
	switch n.Kind {
	case "document":
		return join(n.Children, ",")
	case "element":
		s := n.Name
		if len(n.Attrs) > 0 {
			s += "[" + join(n.Attrs, " ") + "]"
		}
		if len(n.Children) > 0 {
			s += "(" + join(n.Children, ",") + ")"
		}
		return s
	case "attribute":
		return "@" + n.Name + "=" + n.Value
	case "comment":
		return "<!--" + n.Value + "-->"
	case "pi":
		return "<?" + n.Name + " " + n.Value + "?>"
	default:
		return n.Value
	}
}

func target(t *testing.T, d *tree.Data, pre int) Target {
	t.Helper()
	tg, err := StoreTarget(d, pre)
	require.NoError(t, err)
	return tg
}

// event is one Check or Apply call seen by a fakePrim.
type event struct {
	op   string
	key  int
	kind Kind
}

func (e event) String() string { return fmt.Sprintf("%s %d %s", e.op, e.key, e.kind) }

type journal struct {
	events []event
}

func (j *journal) strings() []string {
	out := make([]string, 0, len(j.events))
	for _, e := range j.events {
		out = append(out, e.String())
	}
	return out
}

// fakePrim records its calls and never touches the store.
type fakePrim struct {
	base
	j        *journal
	checkErr error
	applyErr error
	weight   int
}

func newFake(j *journal, k Kind, t Target) *fakePrim {
	return &fakePrim{base: base{kind: k, target: t}, j: j, weight: 1}
}

func (p *fakePrim) Merge(other Primitive) (Primitive, error) {
	o, ok := other.(*fakePrim)
	if !ok {
		return nil, types.Conflict("not a fake")
	}
	return &fakePrim{base: p.base, j: p.j, weight: p.weight + o.weight}, nil
}

func (p *fakePrim) Check() error {
	p.j.events = append(p.j.events, event{"check", p.target.Key(), p.kind})
	return p.checkErr
}

func (p *fakePrim) Apply() error {
	p.j.events = append(p.j.events, event{"apply", p.target.Key(), p.kind})
	return p.applyErr
}
