package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/f9-o/dtogen/internal/schema"
	"github.com/f9-o/dtogen/pkg/errs"
	"github.com/f9-o/dtogen/pkg/javaid"
)

// Field is one Java field of a generated class.
type Field struct {
	JSONName string   // original key, e.g. "temp_c"
	Name     string   // Java field name, e.g. "tempC"
	Type     string   // Java type, e.g. "List<Article>"
	Imports  []string // imports Type needs
	Nullable bool     // missing from some sample or observed as null
}

// Class is one Java class to generate.
type Class struct {
	Package string
	Name    string
	Root    bool
	Fields  []Field
}

// QualifiedName returns the fully-qualified class name.
func (c *Class) QualifiedName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

// Imports returns the sorted, de-duplicated imports of all fields.
func (c *Class) Imports() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range c.Fields {
		for _, imp := range f.Imports {
			if !seen[imp] {
				seen[imp] = true
				out = append(out, imp)
			}
		}
	}
	sort.Strings(out)
	return out
}

func (c *Class) String() string {
	return fmt.Sprintf("%s{root=%t, fields=%d}", c.QualifiedName(), c.Root, len(c.Fields))
}

// Graph is the set of classes to generate. Nodes are classes; a field whose
// type is another class is an edge to it.
type Graph struct {
	root    *Class
	classes []*Class
	byName  map[string]*Class
}

// NewGraph builds a graph from explicit classes. root is added if missing.
func NewGraph(root *Class, classes []*Class) (*Graph, error) {
	g := &Graph{root: root, byName: map[string]*Class{}}
	for _, c := range classes {
		if err := g.add(c); err != nil {
			return nil, err
		}
	}
	if _, ok := g.byName[root.QualifiedName()]; !ok {
		if err := g.add(root); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Graph) add(c *Class) error {
	q := c.QualifiedName()
	if _, dup := g.byName[q]; dup {
		return errs.Newf(errs.ErrGenModel, "model.graph", "duplicate model class qualified name: %s", q)
	}
	g.byName[q] = c
	g.classes = append(g.classes, c)
	return nil
}

// Root returns the entry class of the graph.
func (g *Graph) Root() *Class { return g.root }

// Classes returns all classes in declaration order, root first.
func (g *Graph) Classes() []*Class { return append([]*Class(nil), g.classes...) }

// Find looks a class up by qualified name.
func (g *Graph) Find(qualifiedName string) (*Class, bool) {
	c, ok := g.byName[qualifiedName]
	return c, ok
}

// Len returns the number of classes.
func (g *Graph) Len() int { return len(g.classes) }

func (g *Graph) String() string {
	var b strings.Builder
	b.WriteString("Graph{\n")
	for _, c := range g.classes {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	b.WriteString("}")
	return b.String()
}

// RequireObjectRoot rejects documents whose root is not a JSON object.
func RequireObjectRoot(root schema.Node) error {
	if _, ok := root.(*schema.ObjectNode); !ok {
		return errs.Newf(errs.ErrInputRoot, "model.root", "JSON root must be an object, got %s", root.Kind()).
			WithAdvice("Make sure the top level of the input looks like { ... }.")
	}
	return nil
}

// Build turns an inferred schema tree into a Graph using the class names
// chosen by inference. Classes are declared root first, then nested classes
// depth-first in field order.
func Build(root schema.Node, types Types, pkg string, names schema.NameConverter) (*Graph, error) {
	if names == nil {
		names = schema.DefaultNames{}
	}
	obj, ok := root.(*schema.ObjectNode)
	if !ok {
		return nil, errs.Newf(errs.ErrGenModel, "model.build", "object schema expected for class generation: %s", root)
	}

	b := &builder{types: types, pkg: pkg, names: names, created: map[schema.Node]*Class{}}
	rootRef, ok := types[obj]
	if !ok {
		return nil, errs.Newf(errs.ErrGenModel, "model.build", "no type inferred for root object")
	}
	rc, err := b.class(obj, rootRef.JavaType, true)
	if err != nil {
		return nil, err
	}
	return NewGraph(rc, b.order)
}

type builder struct {
	types   Types
	pkg     string
	names   schema.NameConverter
	created map[schema.Node]*Class
	order   []*Class
}

func (b *builder) class(obj *schema.ObjectNode, name string, root bool) (*Class, error) {
	if c, ok := b.created[obj]; ok {
		return c, nil
	}

	c := &Class{Package: b.pkg, Name: name, Root: root}
	b.created[obj] = c
	b.order = append(b.order, c)

	taken := map[string]bool{}
	for _, jsonName := range obj.Names() {
		info, _ := obj.Field(jsonName)
		ref, ok := b.types[info.Schema]
		if !ok {
			return nil, errs.Newf(errs.ErrGenModel, "model.build", "no type inferred for field %q of %s", jsonName, name)
		}

		base := b.names.CamelCase(jsonName)
		if base == "" {
			base = "field"
		}
		fieldName := claim(taken, javaid.Sanitize(base))

		c.Fields = append(c.Fields, Field{
			JSONName: jsonName,
			Name:     fieldName,
			Type:     ref.JavaType,
			Imports:  ref.Imports,
			Nullable: info.Optional() || hasNull(info.Schema),
		})

		if err := b.nested(info.Schema); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// nested declares classes for the objects a field type refers to. Object
// variants of a union that resolves to Object get no class.
func (b *builder) nested(n schema.Node) error {
	switch v := n.(type) {
	case *schema.ObjectNode:
		ref, ok := b.types[v]
		if !ok {
			return errs.Newf(errs.ErrGenModel, "model.build", "no type inferred for object schema %s", v)
		}
		_, err := b.class(v, ref.JavaType, false)
		return err
	case *schema.ArrayNode:
		if e := sole(v.Elements); e != nil {
			return b.nested(e)
		}
	case *schema.UnionNode:
		if variant := sole(v.Variants); variant != nil {
			return b.nested(variant)
		}
	}
	return nil
}

// sole returns the only non-null shape among variants, or nil when there is
// none or more than one. It mirrors how inference resolves unions.
func sole(variants []schema.Node) schema.Node {
	var found schema.Node
	for _, v := range variants {
		if p, ok := v.(*schema.PrimitiveNode); ok && p.P == schema.Null {
			continue
		}
		if found != nil {
			return nil
		}
		found = v
	}
	return found
}

// claim returns base, or base with the lowest numeric suffix from 2 up that
// is not yet taken, and marks the result taken.
func claim(taken map[string]bool, base string) string {
	name := base
	for n := 2; taken[name]; n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	taken[name] = true
	return name
}

func hasNull(n schema.Node) bool {
	switch v := n.(type) {
	case *schema.PrimitiveNode:
		return v.P == schema.Null
	case *schema.UnionNode:
		return v.Has(schema.Null)
	}
	return false
}
