package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/f9-o/dtogen/internal/model"
)

const jsonPropertyImport = "com.fasterxml.jackson.annotation.JsonProperty"

var (
	fileTemplate = NewTemplate(`package ${package};

${imports}
${body}`)

	classTemplate = NewTemplate(`${modifiers} class ${className} {

${fields}${constructor}${accessors}${nested}}
`)

	fieldTemplate = NewTemplate("${comment}${annotation}    private ${type} ${name};\n")

	constructorTemplate = NewTemplate("\n    public ${className}() {\n    }\n")

	accessorTemplate = NewTemplate(`
    public ${type} ${getter}() {
        return ${name};
    }

    public void ${setter}(${type} ${name}) {
        this.${name} = ${name};
    }
`)
)

// File is one generated Java source file.
type File struct {
	Package string
	Class   string
	Source  string
}

// Name returns the file name, e.g. "WeatherApiResponse.java".
func (f File) Name() string { return f.Class + ".java" }

// Options controls the shape of generated classes.
type Options struct {
	// InnerClasses nests every class inside the root class file.
	InnerClasses bool
	// Annotations adds @JsonProperty where the Java name differs from the key.
	Annotations bool
	// Accessors adds a no-arg constructor, getters and setters.
	Accessors bool
}

// DefaultOptions generates annotated beans, one file per class.
func DefaultOptions() Options {
	return Options{Annotations: true, Accessors: true}
}

// ClassGenerator renders model graphs as Java sources.
type ClassGenerator struct {
	opts      Options
	formatter Formatter
}

// NewClassGenerator returns a generator with the given options.
func NewClassGenerator(opts Options) *ClassGenerator {
	return &ClassGenerator{opts: opts}
}

// Generate returns the source files for g in declaration order.
func (cg *ClassGenerator) Generate(g *model.Graph) []File {
	if cg.opts.InnerClasses {
		root := g.Root()
		var nested []*model.Class
		for _, c := range g.Classes() {
			if c != root {
				nested = append(nested, c)
			}
		}
		return []File{cg.file(root, nested)}
	}

	files := make([]File, 0, g.Len())
	for _, c := range g.Classes() {
		files = append(files, cg.file(c, nil))
	}
	return files
}

func (cg *ClassGenerator) file(c *model.Class, nested []*model.Class) File {
	src := fileTemplate.Render(map[string]string{
		"package": c.Package,
		"imports": cg.imports(c.Package, append([]*model.Class{c}, nested...)),
		"body":    cg.class(c, "public", nested),
	})
	return File{Package: c.Package, Class: c.Name, Source: cg.formatter.Format(src)}
}

func (cg *ClassGenerator) class(c *model.Class, modifiers string, nested []*model.Class) string {
	var fields, accessors strings.Builder
	for _, f := range c.Fields {
		fields.WriteString(cg.field(f))
		if cg.opts.Accessors {
			accessors.WriteString(accessorTemplate.Render(map[string]string{
				"type":   f.Type,
				"name":   f.Name,
				"getter": "get" + capitalize(f.Name),
				"setter": "set" + capitalize(f.Name),
			}))
		}
	}

	constructor := ""
	if cg.opts.Accessors {
		constructor = constructorTemplate.Render(map[string]string{"className": c.Name})
	}

	var inner strings.Builder
	for _, n := range nested {
		inner.WriteString("\n")
		inner.WriteString(indent(cg.class(n, "public static", nil)))
	}

	return classTemplate.Render(map[string]string{
		"modifiers":   modifiers,
		"className":   c.Name,
		"fields":      fields.String(),
		"constructor": constructor,
		"accessors":   accessors.String(),
		"nested":      inner.String(),
	})
}

func (cg *ClassGenerator) field(f model.Field) string {
	comment := ""
	if f.Nullable {
		comment = "    /** May be absent or null. */\n"
	}
	annotation := ""
	if cg.annotate(f) {
		annotation = fmt.Sprintf("    @JsonProperty(%q)\n", f.JSONName)
	}
	return fieldTemplate.Render(map[string]string{
		"comment":    comment,
		"annotation": annotation,
		"type":       f.Type,
		"name":       f.Name,
	})
}

func (cg *ClassGenerator) annotate(f model.Field) bool {
	return cg.opts.Annotations && f.JSONName != f.Name
}

// imports renders the sorted import block for classes sharing one file.
func (cg *ClassGenerator) imports(pkg string, classes []*model.Class) string {
	seen := map[string]bool{}
	for _, c := range classes {
		for _, imp := range c.Imports() {
			seen[imp] = true
		}
		for _, f := range c.Fields {
			if cg.annotate(f) {
				seen[jsonPropertyImport] = true
			}
		}
	}

	list := make([]string, 0, len(seen))
	for imp := range seen {
		if i := strings.LastIndexByte(imp, '.'); i > 0 && imp[:i] == pkg {
			continue
		}
		list = append(list, imp)
	}
	sort.Strings(list)

	var b strings.Builder
	for _, imp := range list {
		fmt.Fprintf(&b, "import %s;\n", imp)
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "    " + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
