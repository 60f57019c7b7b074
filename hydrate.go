package tiermap

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"

	"github.com/goliatone/go-tiermap/internal/hydrate"
	layering "github.com/goliatone/go-tiermap/layering"
)

// FamilyDocument is the JSON shape of a whole family: each node carries its
// local data verbatim plus its children in stored order.
//
//	{"data": {"x": 1}, "children": [{"data": {"y": 2}}]}
//
// A document captures local tiers exactly as they are; building a family
// from it restores each node's local data without cascading, so a document
// produced from a family that honoured the root-superset contract restores
// a family that still honours it.
type FamilyDocument struct {
	Data     map[string]any   `json:"data,omitempty"`
	Children []FamilyDocument `json:"children,omitempty"`
}

// familyNode is the per-node decode target; children stay raw so each level
// can be decoded with its own document path for error reporting.
type familyNode struct {
	Data     map[string]any   `json:"data,omitempty"`
	Children []map[string]any `json:"children,omitempty"`
}

// FamilyFromJSON builds a family tree from a JSON family document. Unknown
// fields anywhere in the document are rejected. String keys only — JSON
// objects cannot carry anything else.
func FamilyFromJSON(payload []byte, opts ...Option) (*Map[string, any], error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("tiermap: unmarshal family document: %w", err)
	}
	doc, err := decodeFamily(hydrate.Context{Path: "/"}, raw)
	if err != nil {
		return nil, fmt.Errorf("tiermap: %w", err)
	}
	return doc.Family(opts...), nil
}

// FamilyToJSON serialises the family m belongs to, rooted at m's root.
func FamilyToJSON[V any](m *Map[string, V]) ([]byte, error) {
	return json.Marshal(DocumentFamily(m))
}

// DocumentFamily exports the family m belongs to as a FamilyDocument,
// starting at m's root. Data payloads are deep-copied so the document shares
// no mutable state with the family.
func DocumentFamily[V any](m *Map[string, V]) FamilyDocument {
	return documentSubtree(m.Root())
}

func documentSubtree[V any](m *Map[string, V]) FamilyDocument {
	doc := FamilyDocument{}
	if len(m.data) > 0 {
		doc.Data = layering.Clone(bindingOf(m.data))
	}
	for _, child := range m.children {
		doc.Children = append(doc.Children, documentSubtree(child))
	}
	return doc
}

// Family builds a fresh family tree from the document. Each node's local
// data is restored verbatim, without cascading.
func (d FamilyDocument) Family(opts ...Option) *Map[string, any] {
	root := NewFrom(d.Data, opts...)
	d.attachChildren(root)
	return root
}

func (d FamilyDocument) attachChildren(node *Map[string, any]) {
	for _, childDoc := range d.Children {
		child := node.Child()
		maps.Copy(child.data, childDoc.Data)
		childDoc.attachChildren(child)
	}
}

var familyDecoder = hydrate.NewDecoder[familyNode](
	hydrate.WithDisallowUnknownFields[familyNode](),
)

func decodeFamily(ctx hydrate.Context, payload map[string]any) (FamilyDocument, error) {
	node, err := familyDecoder.Decode(ctx, payload)
	if err != nil {
		return FamilyDocument{}, err
	}
	doc := FamilyDocument{Data: node.Data}
	for i, childPayload := range node.Children {
		childCtx := hydrate.Context{Path: ctx.Path + strconv.Itoa(i) + "/"}
		childDoc, err := decodeFamily(childCtx, childPayload)
		if err != nil {
			return FamilyDocument{}, err
		}
		doc.Children = append(doc.Children, childDoc)
	}
	return doc, nil
}
