// Package commands provides the shared context type and all CLI subcommands.
package commands

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/f9-o/dtogen/internal/core/config"
	"github.com/f9-o/dtogen/internal/core/logger"
	"github.com/f9-o/dtogen/internal/core/state"
	"github.com/f9-o/dtogen/pkg/errs"
	"github.com/f9-o/dtogen/pkg/pprint"
)

// contextKey is the key type for values stored in a command context.
type contextKey string

const runtimeContextKey contextKey = "dtogen.runtime"

// GlobalFlags holds the parsed global flags for use by subcommands.
type GlobalFlags struct {
	Debug      bool
	JSONOutput bool
}

// Runtime is the shared dependency bundle injected into each subcommand via context.
type Runtime struct {
	Config *config.Config
	Log    *logger.Logger
	State  *state.DB
	Flags  GlobalFlags
}

// NewContext returns a new context carrying the Runtime.
func NewContext(parent context.Context, rt *Runtime) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, runtimeContextKey, rt)
}

// FromContext extracts the Runtime from ctx. Panics if not present (programming error).
func FromContext(ctx context.Context) *Runtime {
	rt, ok := ctx.Value(runtimeContextKey).(*Runtime)
	if !ok || rt == nil {
		panic("dtogen: Runtime not found in context, missing PersistentPreRunE?")
	}
	return rt
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(pprint.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exactArgs is cobra.ExactArgs returning a coded validation error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return errs.New(errs.ErrValidation, cmd.Name(), err)
		}
		return nil
	}
}

// maxArgs is cobra.MaximumNArgs returning a coded validation error.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return errs.New(errs.ErrValidation, cmd.Name(), err)
		}
		return nil
	}
}

// failureMeta returns audit metadata for err.
func failureMeta(err error) map[string]string {
	meta := map[string]string{"error": err.Error()}
	if e := errs.As(err); e != nil {
		meta["code"] = string(e.Code)
	}
	return meta
}
