package schema

import (
	"fmt"
	"strings"
)

// Kind classifies a schema node.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindPrimitive
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindPrimitive:
		return "primitive"
	case KindUnion:
		return "union"
	}
	return "unknown"
}

// Node is one observed shape. Nodes are compared by identity: two separately
// observed objects with the same fields are still two nodes.
type Node interface {
	Kind() Kind
	String() string
}

// PKind is the kind of an observed scalar.
type PKind int

const (
	String PKind = iota
	Integer
	Number
	Boolean
	Null
)

func (p PKind) String() string {
	return [...]string{"string", "integer", "number", "boolean", "null"}[p]
}

// Numeric reports whether p is Integer or Number.
func (p PKind) Numeric() bool {
	return p == Integer || p == Number
}

// PrimitiveNode is an observed scalar kind.
type PrimitiveNode struct {
	P PKind
}

// NewPrimitive returns a primitive node of kind p.
func NewPrimitive(p PKind) *PrimitiveNode {
	return &PrimitiveNode{P: p}
}

func (*PrimitiveNode) Kind() Kind       { return KindPrimitive }
func (n *PrimitiveNode) String() string { return n.P.String() }

// FieldInfo records the schema of an object field and how often it was seen.
type FieldInfo struct {
	Schema       Node
	PresentCount int
	TotalSamples int
}

// PresentOnce is the FieldInfo of a field seen in a single sample.
func PresentOnce(n Node) *FieldInfo {
	return &FieldInfo{Schema: n, PresentCount: 1, TotalSamples: 1}
}

// Optional reports whether some sample of the owning object lacked the field.
func (f *FieldInfo) Optional() bool {
	return f.PresentCount < f.TotalSamples
}

// ObjectNode is an observed object. Fields keep first-seen order.
type ObjectNode struct {
	Samples int
	fields  map[string]*FieldInfo
	order   []string
}

// NewObject returns an empty object node observed once.
func NewObject() *ObjectNode {
	return &ObjectNode{Samples: 1, fields: map[string]*FieldInfo{}}
}

func (*ObjectNode) Kind() Kind { return KindObject }

func (n *ObjectNode) String() string {
	parts := make([]string, 0, len(n.order))
	for _, name := range n.order {
		f := n.fields[name]
		opt := ""
		if f.Optional() {
			opt = "?"
		}
		parts = append(parts, fmt.Sprintf("%s%s: %s", name, opt, f.Schema))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Put adds or replaces a field, keeping its original position on replace.
func (n *ObjectNode) Put(name string, info *FieldInfo) {
	if _, ok := n.fields[name]; !ok {
		n.order = append(n.order, name)
	}
	n.fields[name] = info
}

// Field returns the field stored under name.
func (n *ObjectNode) Field(name string) (*FieldInfo, bool) {
	f, ok := n.fields[name]
	return f, ok
}

// Names returns the field names in first-seen order.
func (n *ObjectNode) Names() []string {
	return append([]string(nil), n.order...)
}

// Len returns the number of fields.
func (n *ObjectNode) Len() int {
	return len(n.order)
}

// ArrayNode is an observed array: the distinct element shapes, and whether
// an empty array was seen.
type ArrayNode struct {
	Elements []Node
	Empty    bool
}

// NewArray returns an array node with the given element shapes.
func NewArray(elems ...Node) *ArrayNode {
	return &ArrayNode{Elements: elems}
}

func (*ArrayNode) Kind() Kind { return KindArray }

func (n *ArrayNode) String() string {
	if len(n.Elements) == 0 {
		return "[]"
	}
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " | ") + "]"
}

// UnionNode holds the distinct shapes observed at a single position.
type UnionNode struct {
	Variants []Node
}

// NewUnion returns a union of the given nodes, normalized through Add.
func NewUnion(nodes ...Node) *UnionNode {
	u := &UnionNode{}
	for _, n := range nodes {
		u.Add(n)
	}
	return u
}

func (*UnionNode) Kind() Kind { return KindUnion }

func (u *UnionNode) String() string {
	parts := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

// Add inserts n. Nested unions are flattened and a variant compatible with
// an existing one (same primitive kind, both numeric, both objects, both
// arrays) is merged into it instead of being appended.
func (u *UnionNode) Add(n Node) {
	if n == nil {
		return
	}
	if nested, ok := n.(*UnionNode); ok {
		for _, v := range nested.Variants {
			u.Add(v)
		}
		return
	}
	for i, v := range u.Variants {
		if compatible(v, n) {
			u.Variants[i] = Merge(v, n)
			return
		}
	}
	u.Variants = append(u.Variants, n)
}

// Has reports whether the union holds a primitive of kind p.
func (u *UnionNode) Has(p PKind) bool {
	for _, v := range u.Variants {
		if prim, ok := v.(*PrimitiveNode); ok && prim.P == p {
			return true
		}
	}
	return false
}

func compatible(a, b Node) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	pa, ok := a.(*PrimitiveNode)
	if !ok {
		return true
	}
	pb := b.(*PrimitiveNode)
	return pa.P == pb.P || (pa.P.Numeric() && pb.P.Numeric())
}
