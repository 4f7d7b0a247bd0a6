// dtogen generate — turn a sample JSON document into Java DTO sources.
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/f9-o/dtogen/api/v1"
	"github.com/f9-o/dtogen/internal/core/logger"
	"github.com/f9-o/dtogen/internal/generator"
	"github.com/f9-o/dtogen/pkg/errs"
	"github.com/f9-o/dtogen/pkg/javaid"
	"github.com/f9-o/dtogen/pkg/pprint"
)

type generateFlags struct {
	input         string
	rootClass     string
	pkg           string
	out           string
	innerClasses  string
	integerTypes  bool
	noAnnotations bool
	noAccessors   bool
	packageDirs   bool
	dryRun        bool
}

func NewGenerateCmd() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Java DTO classes from a sample JSON document",
		Example: `  dtogen generate --input weather.json --root-class Weather --package com.example.dto --out src/main/java/com/example/dto
  dtogen generate --inner-classes true --dry-run`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			spec, err := f.resolve(cmd, rt.Config.Generate)
			if err != nil {
				return err
			}

			started := time.Now()
			res, err := generator.Run(spec, f.dryRun, rt.Log.With("run", "generate"))
			if !f.dryRun {
				recordGeneration(rt, spec, res, started, err)
			}
			if err != nil {
				return err
			}

			if rt.Flags.JSONOutput {
				return printJSON(generateSummary(res))
			}
			printGenerate(res)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.input, "input", "", "Sample JSON document")
	fl.StringVar(&f.rootClass, "root-class", "", "Name of the root class")
	fl.StringVar(&f.pkg, "package", "", "Java package of the generated classes")
	fl.StringVar(&f.out, "out", "", "Output directory for .java files")
	fl.StringVar(&f.innerClasses, "inner-classes", "", "Nest child classes inside the root class (true|false)")
	fl.BoolVar(&f.integerTypes, "integer-types", false, "Map integral numbers to Long instead of Double")
	fl.BoolVar(&f.noAnnotations, "no-annotations", false, "Omit @JsonProperty annotations")
	fl.BoolVar(&f.noAccessors, "no-accessors", false, "Omit getters and setters")
	fl.BoolVar(&f.packageDirs, "package-dirs", false, "Write files under package directories inside --out")
	fl.BoolVar(&f.dryRun, "dry-run", false, "Show what would change without writing")
	return cmd
}

// resolve merges explicitly set flags over the configured spec and
// validates the result.
func (f *generateFlags) resolve(cmd *cobra.Command, spec v1.GenerateSpec) (v1.GenerateSpec, error) {
	const op = "generate.validate"
	fl := cmd.Flags()
	if fl.Changed("input") {
		spec.Input = f.input
	}
	if fl.Changed("root-class") {
		spec.RootClass = f.rootClass
	}
	if fl.Changed("package") {
		spec.Package = f.pkg
	}
	if fl.Changed("out") {
		spec.Out = f.out
	}
	if fl.Changed("inner-classes") {
		switch {
		case strings.EqualFold(f.innerClasses, "true"):
			spec.InnerClasses = true
		case strings.EqualFold(f.innerClasses, "false"):
			spec.InnerClasses = false
		default:
			return spec, errs.Newf(errs.ErrValidation, op, "--inner-classes accepts only true or false: %s", f.innerClasses)
		}
	}
	if fl.Changed("integer-types") {
		spec.IntegerTypes = f.integerTypes
	}
	if fl.Changed("no-annotations") {
		spec.Annotations = !f.noAnnotations
	}
	if fl.Changed("no-accessors") {
		spec.Accessors = !f.noAccessors
	}
	if fl.Changed("package-dirs") {
		spec.PackageDirs = f.packageDirs
	}

	for _, req := range []struct{ flag, value string }{
		{"--input", spec.Input},
		{"--root-class", spec.RootClass},
		{"--package", spec.Package},
		{"--out", spec.Out},
	} {
		if strings.TrimSpace(req.value) == "" {
			return spec, errs.Newf(errs.ErrValidation, op, "%s is required", req.flag).
				WithAdvice(fmt.Sprintf("pass %s or set it under generate: in dtogen.yaml", req.flag))
		}
	}

	if !javaid.IsValidName(spec.RootClass) {
		return spec, errs.Newf(errs.ErrValidation, op, "--root-class is not a valid Java class name: %s", spec.RootClass)
	}
	for _, seg := range strings.Split(spec.Package, ".") {
		switch {
		case strings.TrimSpace(seg) == "":
			return spec, errs.Newf(errs.ErrValidation, op, "--package contains an empty segment: %s", spec.Package)
		case !javaid.IsIdentifier(seg):
			return spec, errs.Newf(errs.ErrValidation, op, "--package segment is not a valid identifier: %s", seg)
		case javaid.IsKeyword(seg):
			return spec, errs.Newf(errs.ErrValidation, op, "--package contains a Java keyword: %s", seg)
		}
	}
	return spec, nil
}

type generateFile struct {
	Path   string           `json:"path"`
	Status generator.Status `json:"status"`
	Patch  string           `json:"patch,omitempty"`
}

type generateOutput struct {
	Input     string         `json:"input"`
	Classes   []string       `json:"classes"`
	Files     []generateFile `json:"files"`
	Written   int            `json:"written"`
	Unchanged int            `json:"unchanged"`
	DryRun    bool           `json:"dry_run"`
}

func generateSummary(res *generator.Result) generateOutput {
	out := generateOutput{
		Input:     res.Document.Path,
		Written:   res.Written,
		Unchanged: res.Unchanged(),
		DryRun:    res.DryRun,
	}
	for _, c := range res.Graph.Classes() {
		out.Classes = append(out.Classes, c.QualifiedName())
	}
	for _, p := range res.Plan {
		gf := generateFile{Path: p.Path, Status: p.Status}
		if res.DryRun && p.Status != generator.StatusUnchanged {
			gf.Patch = p.Patch()
		}
		out.Files = append(out.Files, gf)
	}
	return out
}

func printGenerate(res *generator.Result) {
	pprint.Header("Generate — " + res.Graph.Root().QualifiedName())
	pprint.KV("Input", res.Document.Path)
	pprint.KV("Classes", fmt.Sprint(res.Graph.Len()))

	t := pprint.NewTable("STATUS", "FILE")
	for _, p := range res.Plan {
		t.AddRow(string(p.Status), p.Path)
	}
	t.Render()

	if res.DryRun {
		for _, p := range res.Plan {
			if p.Status == generator.StatusUnchanged {
				continue
			}
			pprint.Panel(p.Path, p.Patch())
		}
		pprint.Warn("dry run, nothing written")
		return
	}
	pprint.Success("Wrote %d file(s), %d unchanged", res.Written, res.Unchanged())
}

func recordGeneration(rt *Runtime, spec v1.GenerateSpec, res *generator.Result, started time.Time, runErr error) {
	rec := v1.GenerationRecord{
		Input:      spec.Input,
		RootClass:  spec.RootClass,
		Package:    spec.Package,
		Out:        spec.Out,
		StartedAt:  started.UTC(),
		DurationMS: time.Since(started).Milliseconds(),
		Result:     v1.ResultSuccess,
	}
	audit := logger.AuditEntry{Op: "generate", Target: spec.Out, Result: string(v1.ResultSuccess)}
	if runErr != nil {
		rec.Result = v1.ResultFailure
		rec.Error = runErr.Error()
		audit.Result = string(v1.ResultFailure)
		audit.Meta = failureMeta(runErr)
	} else {
		rec.Classes = res.Graph.Len()
		rec.Written = res.Written
		rec.Unchanged = res.Unchanged()
	}
	if _, err := rt.State.PutGeneration(rec); err != nil {
		rt.Log.Warn("run not recorded", "err", err)
	}
	rt.Log.Audit(audit)
}
