// dtogen package — assemble a fat jar from compiled output and dependencies.
package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/f9-o/dtogen/api/v1"
	"github.com/f9-o/dtogen/internal/core/logger"
	"github.com/f9-o/dtogen/internal/fatjar"
	"github.com/f9-o/dtogen/pkg/errs"
	"github.com/f9-o/dtogen/pkg/pprint"
)

type packageFlags struct {
	mainClass     string
	out           string
	classes       []string
	libs          []string
	duplicates    string
	exclude       []string
	manifest      []string
	reproducible  bool
	skipMainCheck bool
}

func NewPackageCmd() *cobra.Command {
	var f packageFlags

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Merge compiled classes and dependency jars into one runnable jar",
		Example: `  dtogen package --main-class org.example.Main --classes build/classes/java/main --lib build/dependencies --out build/libs/app-all.jar
  dtogen package --duplicates warn --exclude 'META-INF/*.SF'
  dtogen package --manifest Implementation-Version=1.4.0 --reproducible`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			spec, err := f.resolve(cmd, rt.Config.Package)
			if err != nil {
				return err
			}
			strategy, err := v1.ParseDuplicatesStrategy(spec.Duplicates)
			if err != nil {
				return errs.New(errs.ErrValidation, "package.validate", err)
			}

			opts := fatjar.Options{
				MainClass:     spec.MainClass,
				Output:        spec.Out,
				Application:   spec.Classes,
				Dependencies:  spec.Libs,
				Duplicates:    strategy,
				Exclude:       spec.Exclude,
				Manifest:      spec.Manifest,
				CreatedBy:     CreatedBy(),
				Reproducible:  spec.Reproducible,
				SkipMainCheck: spec.SkipMainCheck,
				Logger:        rt.Log.With("run", "package"),
			}

			var sp *pprint.Spinner
			if !rt.Flags.JSONOutput {
				sp = pprint.NewSpinner("Assembling " + filepath.Base(spec.Out))
				sp.Start()
			}
			started := time.Now()
			report, err := fatjar.Merge(cmd.Context(), opts)
			if sp != nil {
				sp.Stop(err == nil)
			}
			recordPackage(rt, spec, report, started, err)
			if err != nil {
				return err
			}

			if rt.Flags.JSONOutput {
				return printJSON(report)
			}
			printPackage(report, strategy)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.mainClass, "main-class", "", "Fully qualified entry point written as Main-Class")
	fl.StringVar(&f.out, "out", "", "Path of the archive to write")
	fl.StringArrayVar(&f.classes, "classes", nil, "Compiled application output (directory or jar); repeatable")
	fl.StringArrayVar(&f.libs, "lib", nil, "Runtime classpath entry or directory of jars, in classpath order; repeatable")
	fl.StringVar(&f.duplicates, "duplicates", "", "Duplicate entry strategy: exclude|warn|fail")
	fl.StringArrayVar(&f.exclude, "exclude", nil, "Glob of entry paths to leave out; repeatable")
	fl.StringArrayVar(&f.manifest, "manifest", nil, "Extra manifest attribute as Name=value; repeatable")
	fl.BoolVar(&f.reproducible, "reproducible", false, "Fix entry timestamps and modes for byte-identical output")
	fl.BoolVar(&f.skipMainCheck, "skip-main-check", false, "Do not require the entry point class in the application output")
	return cmd
}

// resolve merges explicitly set flags over the configured spec. Values are
// taken whole: globs like META-INF/*.{SF,RSA} and paths may contain commas.
func (f *packageFlags) resolve(cmd *cobra.Command, spec v1.PackageSpec) (v1.PackageSpec, error) {
	fl := cmd.Flags()
	if fl.Changed("main-class") {
		spec.MainClass = f.mainClass
	}
	if fl.Changed("out") {
		spec.Out = f.out
	}
	if fl.Changed("classes") {
		spec.Classes = f.classes
	}
	if fl.Changed("lib") {
		spec.Libs = f.libs
	}
	if fl.Changed("duplicates") {
		spec.Duplicates = f.duplicates
	}
	if fl.Changed("exclude") {
		spec.Exclude = append(append([]string(nil), spec.Exclude...), f.exclude...)
	}
	if fl.Changed("manifest") {
		merged := make(map[string]string, len(spec.Manifest)+len(f.manifest))
		for k, v := range spec.Manifest {
			merged[k] = v
		}
		for _, kv := range f.manifest {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || strings.TrimSpace(k) == "" {
				return spec, errs.Newf(errs.ErrValidation, "package.flags", "invalid --manifest %q", kv).
					WithAdvice("use Name=value, e.g. --manifest Implementation-Version=1.4.0")
			}
			merged[strings.TrimSpace(k)] = v
		}
		spec.Manifest = merged
	}
	if fl.Changed("reproducible") {
		spec.Reproducible = f.reproducible
	}
	if fl.Changed("skip-main-check") {
		spec.SkipMainCheck = f.skipMainCheck
	}
	return spec, nil
}

func printPackage(r *fatjar.Report, strategy v1.DuplicatesStrategy) {
	pprint.Header("Package — " + r.Output)
	pprint.KV("Main-Class", r.MainClass)
	pprint.KV("Sources", fmt.Sprint(len(r.Sources)))
	pprint.KV("Entries", fmt.Sprintf("%d (%d files, %d dirs)", r.Entries, r.Files, r.Directories))
	pprint.KV("Excluded", fmt.Sprint(r.Excluded))
	pprint.KV("Duplicates", fmt.Sprint(len(r.Duplicates)))
	pprint.KV("BLAKE2b", r.SHA)
	for _, s := range r.Skipped {
		pprint.Info("skipped non-jar classpath entry %s", s)
	}

	if strategy == v1.DuplicatesWarn && len(r.Duplicates) > 0 {
		t := pprint.NewTable("PATH", "KEPT FROM", "DROPPED FROM", "IDENTICAL")
		for _, d := range r.Duplicates {
			t.AddRow(d.Path, d.KeptFrom, d.DroppedFrom, fmt.Sprint(d.Identical))
		}
		t.Render()
	}
	pprint.Success("Wrote %s in %s", r.Output, r.Duration.Round(time.Millisecond))
}

func recordPackage(rt *Runtime, spec v1.PackageSpec, r *fatjar.Report, started time.Time, runErr error) {
	rec := v1.PackageRecord{
		Out:        spec.Out,
		MainClass:  spec.MainClass,
		StartedAt:  started.UTC(),
		DurationMS: time.Since(started).Milliseconds(),
		Result:     v1.ResultSuccess,
	}
	audit := logger.AuditEntry{Op: "package", Target: spec.Out, Result: string(v1.ResultSuccess)}
	if runErr != nil {
		rec.Result = v1.ResultFailure
		rec.Error = runErr.Error()
		audit.Result = string(v1.ResultFailure)
		audit.Meta = failureMeta(runErr)
	} else {
		rec.Sources = len(r.Sources)
		rec.Entries = r.Entries
		rec.Duplicates = len(r.Duplicates)
		rec.Excluded = r.Excluded
		rec.Digest = r.SHA
		audit.Meta = map[string]string{"digest": r.SHA, "main_class": r.MainClass}
	}
	if _, err := rt.State.PutPackage(rec); err != nil {
		rt.Log.Warn("run not recorded", "err", err)
	}
	rt.Log.Audit(audit)
}
