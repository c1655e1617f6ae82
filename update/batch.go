package update

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

// Operation is one entry of a batch file.
type Operation struct {
	Op       string      `json:"op" yaml:"op"`                                   // kind name, e.g. "insert_into_last"
	Target   *int        `json:"target,omitempty" yaml:"target,omitempty"`       // pre position
	TargetID *int        `json:"target_id,omitempty" yaml:"target_id,omitempty"` // stable node id
	Name     string      `json:"name,omitempty" yaml:"name,omitempty"`           // rename
	Value    string      `json:"value,omitempty" yaml:"value,omitempty"`         // replace_value, replace_content
	Content  []tree.Node `json:"content,omitempty" yaml:"content,omitempty"`     // inserts, replace_node
}

// Batch is a list of operations read from a YAML or JSON document.
type Batch struct {
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Operations  []Operation `json:"operations" yaml:"operations"`
}

// BatchOptions controls batch decoding.
type BatchOptions struct {
	// Encoding of the input: "" or "auto" (UTF-8, or UTF-16 when a BOM says
	// so), "utf-8", "utf-16le", "utf-16be" or "windows-1252".
	Encoding string
}

// ParseBatch decodes a batch document. YAML and JSON are both accepted.
func ParseBatch(data []byte, opts BatchOptions) (*Batch, error) {
	text, err := decodeInput(data, opts.Encoding)
	if err != nil {
		return nil, err
	}

	var b Batch
	if err := yaml.Unmarshal(text, &b); err != nil {
		return nil, types.Format("invalid batch", err)
	}
	for i, op := range b.Operations {
		if _, err := ParseKind(op.Op); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		if (op.Target == nil) == (op.TargetID == nil) {
			return nil, types.Format(fmt.Sprintf("operation %d: exactly one of target and target_id is required", i), nil)
		}
	}
	return &b, nil
}

// MarshalBatch encodes b as YAML.
func MarshalBatch(b *Batch) ([]byte, error) {
	return yaml.Marshal(b)
}

// Primitives resolves the operations' targets in d and builds one primitive
// per operation, in file order.
func (b *Batch) Primitives(d *tree.Data) ([]Primitive, error) {
	out := make([]Primitive, 0, len(b.Operations))
	for i, op := range b.Operations {
		p, err := op.primitive(d)
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Op, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (op Operation) primitive(d *tree.Data) (Primitive, error) {
	k, err := ParseKind(op.Op)
	if err != nil {
		return nil, err
	}

	var t Target
	switch {
	case op.Target != nil:
		t, err = StoreTarget(d, *op.Target)
	case op.TargetID != nil:
		t, err = StoreTargetByID(d, *op.TargetID)
	default:
		err = types.Format("missing target", nil)
	}
	if err != nil {
		return nil, err
	}

	var content []*tree.Fragment
	for _, n := range op.Content {
		f, err := n.Fragment()
		if err != nil {
			return nil, err
		}
		content = append(content, f)
	}
	if len(content) > 0 && !k.isInsert() && k != KindReplaceNode {
		return nil, types.Format(fmt.Sprintf("%s takes no content", k), nil)
	}

	switch k {
	case KindInsertBefore:
		return NewInsertBefore(t, content...), nil
	case KindInsertAfter:
		return NewInsertAfter(t, content...), nil
	case KindInsertIntoFirst:
		return NewInsertIntoFirst(t, content...), nil
	case KindInsertInto:
		return NewInsertInto(t, content...), nil
	case KindInsertIntoLast:
		return NewInsertIntoLast(t, content...), nil
	case KindInsertAttribute:
		return NewInsertAttributes(t, content...), nil
	case KindDelete:
		return NewDelete(t), nil
	case KindRename:
		if op.Name == "" {
			return nil, types.Format("rename needs a name", nil)
		}
		return NewRename(t, op.Name), nil
	case KindReplaceNode:
		return NewReplaceNode(t, content...), nil
	case KindReplaceValue:
		return NewReplaceValue(t, op.Value), nil
	case KindReplaceContent:
		return NewReplaceContent(t, op.Value), nil
	}
	return nil, types.Format(fmt.Sprintf("unsupported operation %s", k), nil)
}

// decodeInput converts data in the named encoding to UTF-8.
func decodeInput(data []byte, name string) ([]byte, error) {
	var enc encoding.Encoding
	switch strings.ToLower(name) {
	case "", "auto":
		// UTF-8 unless a UTF-16 BOM overrides it; a UTF-8 BOM is dropped.
		t := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(t, data)
		if err != nil {
			return nil, types.Format("decode batch", err)
		}
		return out, nil
	case "utf-8", "utf8":
		enc = unicode.UTF8BOM
	case "utf-16le":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, types.Format(fmt.Sprintf("unknown input encoding %q", name), nil)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, types.Format("decode batch", err)
	}
	return out, nil
}
