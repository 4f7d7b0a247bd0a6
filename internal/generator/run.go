package generator

import (
	"log/slog"

	v1 "github.com/f9-o/dtogen/api/v1"
	"github.com/f9-o/dtogen/internal/model"
	"github.com/f9-o/dtogen/internal/schema"
)

// Result describes one generation run.
type Result struct {
	Document *schema.Document
	Graph    *model.Graph
	Plan     []PlannedFile
	Written  int
	DryRun   bool
}

// Unchanged counts planned files whose content already matches.
func (r *Result) Unchanged() int {
	n := 0
	for _, p := range r.Plan {
		if p.Status == StatusUnchanged {
			n++
		}
	}
	return n
}

// Run loads the sample named by spec, infers the model and writes one Java
// source per generated file. With dryRun nothing is created on disk.
func Run(spec v1.GenerateSpec, dryRun bool, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = slog.Default()
	}

	doc, err := schema.Load(spec.Input)
	if err != nil {
		return nil, err
	}
	if doc.HadBOM {
		log.Debug("byte order mark stripped", "input", doc.Path)
	}

	root := schema.Analyze(doc.Root)
	if err := model.RequireObjectRoot(root); err != nil {
		return nil, err
	}

	inf := model.NewInferencer(spec.IntegerTypes)
	types, err := inf.Infer(root, spec.RootClass)
	if err != nil {
		return nil, err
	}
	graph, err := model.Build(root, types, spec.Package, inf.Names)
	if err != nil {
		return nil, err
	}
	log.Debug("model built", "classes", graph.Len(), "types", len(types))

	files := NewClassGenerator(Options{
		InnerClasses: spec.InnerClasses,
		Annotations:  spec.Annotations,
		Accessors:    spec.Accessors,
	}).Generate(graph)

	res := &Result{Document: doc, Graph: graph, DryRun: dryRun}
	w := &Writer{OutDir: spec.Out, PackageDirs: spec.PackageDirs}
	if dryRun {
		res.Plan, err = w.Plan(files)
		return res, err
	}

	if w.OutDir, err = PrepareOutDir(spec.Out); err != nil {
		return nil, err
	}
	res.Plan, res.Written, err = w.WriteAll(files)
	if err != nil {
		return nil, err
	}
	for _, p := range res.Plan {
		log.Debug("java source", "path", p.Path, "status", p.Status)
	}
	return res, nil
}
