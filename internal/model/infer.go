// Package model infers Java types from a schema tree and arranges the
// classes to generate into a graph.
package model

import (
	"fmt"
	"strings"

	"github.com/f9-o/dtogen/internal/schema"
	"github.com/f9-o/dtogen/pkg/javaid"
)

const (
	listType   = "List"
	listImport = "java.util.List"
)

// TypeRef is an inferred Java type, e.g. "String", "List<Article>", "WeatherApiResponse".
type TypeRef struct {
	JavaType string
	Imports  []string
	IsObject bool
	IsList   bool
}

func (t TypeRef) String() string { return t.JavaType }

// WithGeneric wraps t as outer<t>, adding importFQCN to the required imports.
func (t TypeRef) WithGeneric(outer, importFQCN string) TypeRef {
	imports := append([]string(nil), t.Imports...)
	if importFQCN != "" {
		imports = appendUnique(imports, importFQCN)
	}
	return TypeRef{JavaType: outer + "<" + t.JavaType + ">", Imports: imports, IsList: true}
}

func simple(javaType string) TypeRef {
	return TypeRef{JavaType: javaType}
}

// Types maps every node of a schema tree to its inferred type.
type Types map[schema.Node]TypeRef

// Inferencer maps schema nodes to Java types.
type Inferencer struct {
	Names schema.NameConverter
	// IntegerTypes maps integral samples to Long instead of Double.
	IntegerTypes bool
}

// NewInferencer returns an Inferencer using the default name converter.
func NewInferencer(integerTypes bool) *Inferencer {
	return &Inferencer{Names: schema.DefaultNames{}, IntegerTypes: integerTypes}
}

// inference carries per-run state: the result map and the class names
// handed out so far.
type inference struct {
	*Inferencer
	types Types
	used  map[string]bool
}

// shadowed lists simple names the generated sources refer to without a
// package. A nested class with one of these names would capture them.
var shadowed = []string{"Object", "String", "Boolean", "Double", "Long", "List", "JsonProperty"}

// Infer walks root and returns the type of every node. Object nodes get
// class names: the root uses rootClass (default "Root"), nested objects use
// their field name and array elements the singular of it. Clashing names
// get a numeric suffix.
func (inf *Inferencer) Infer(root schema.Node, rootClass string) (Types, error) {
	if root == nil {
		return nil, fmt.Errorf("infer: root node is nil")
	}
	if inf.Names == nil {
		inf.Names = schema.DefaultNames{}
	}
	if strings.TrimSpace(rootClass) == "" {
		rootClass = "Root"
	}

	rootName := inf.Names.PascalCase(rootClass)
	run := &inference{Inferencer: inf, types: Types{}, used: map[string]bool{}}
	for _, name := range shadowed {
		if name != rootName {
			run.used[name] = true
		}
	}
	run.infer(root, rootName)
	return run.types, nil
}

func (r *inference) infer(node schema.Node, suggested string) TypeRef {
	if ref, ok := r.types[node]; ok {
		return ref
	}

	var ref TypeRef
	switch n := node.(type) {
	case *schema.PrimitiveNode:
		ref = r.primitive(n.P)
	case *schema.ObjectNode:
		ref = TypeRef{JavaType: r.className(suggested), IsObject: true}
		r.types[node] = ref
		for _, name := range n.Names() {
			info, _ := n.Field(name)
			r.infer(info.Schema, r.Names.PascalCase(name))
		}
		return ref
	case *schema.ArrayNode:
		ref = r.array(n, suggested)
	case *schema.UnionNode:
		ref = r.union(n.Variants, suggested)
	default:
		ref = simple("Object")
	}

	r.types[node] = ref
	return ref
}

func (r *inference) primitive(p schema.PKind) TypeRef {
	switch p {
	case schema.String:
		return simple("String")
	case schema.Boolean:
		return simple("Boolean")
	case schema.Integer:
		if r.IntegerTypes {
			return simple("Long")
		}
		return simple("Double")
	case schema.Number:
		return simple("Double")
	}
	// null alone says nothing about the type
	return simple("Object")
}

func (r *inference) array(n *schema.ArrayNode, suggested string) TypeRef {
	elemName := Singular(suggested)

	var elem TypeRef
	switch len(n.Elements) {
	case 0:
		elem = simple("Object")
	case 1:
		elem = r.infer(n.Elements[0], elemName)
	default:
		elem = r.union(n.Elements, elemName)
	}
	return elem.WithGeneric(listType, listImport)
}

// union resolves a set of observed shapes to one Java type: nulls are
// dropped, a single remaining shape keeps its type, numbers widen, anything
// else is Object.
func (r *inference) union(variants []schema.Node, suggested string) TypeRef {
	var nonNull []schema.Node
	for _, v := range variants {
		r.infer(v, suggested)
		if p, ok := v.(*schema.PrimitiveNode); ok && p.P == schema.Null {
			continue
		}
		nonNull = append(nonNull, v)
	}

	switch len(nonNull) {
	case 0:
		return simple("Object")
	case 1:
		return r.types[nonNull[0]]
	}

	allInteger := true
	for _, v := range nonNull {
		p, ok := v.(*schema.PrimitiveNode)
		if !ok || !p.P.Numeric() {
			return simple("Object")
		}
		if p.P != schema.Integer {
			allInteger = false
		}
	}
	if allInteger && r.IntegerTypes {
		return simple("Long")
	}
	return simple("Double")
}

// className returns a unique, valid class name derived from suggested.
// Keys without letters or digits fall back to "Unnamed".
func (r *inference) className(suggested string) string {
	base := suggested
	if base == "" {
		base = "Unnamed"
	}
	return claim(r.used, javaid.Sanitize(base))
}

// Singular derives an element class name from a collection name:
// "Articles" → "Article", "Categories" → "Category", "Addresses" → "Address".
// Names that do not look plural get an "Item" suffix.
func Singular(name string) string {
	switch {
	case name == "":
		return "Item"
	case strings.HasSuffix(name, "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(name, "sses"):
		return name[:len(name)-2]
	case strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") && len(name) > 1:
		return name[:len(name)-1]
	}
	return name + "Item"
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
