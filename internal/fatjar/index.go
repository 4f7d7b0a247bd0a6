package fatjar

import (
	"context"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
)

// index holds the BLAKE2b-256 digest of every file entry of one source,
// keyed by normalised entry name. Only the first occurrence of a name
// within the source is kept.
type index struct {
	source  Source
	digests map[string][]byte
}

// buildIndex reads all sources concurrently. The result keeps the order of
// sources.
func buildIndex(ctx context.Context, sources []Source, workers int) ([]*index, error) {
	out := make([]*index, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, src := range sources {
		g.Go(func() error {
			idx := &index{source: src, digests: make(map[string][]byte)}
			err := src.walk(gctx, func(_ context.Context, e entry) error {
				if e.dir {
					return nil
				}
				name, err := entryName(e.name, false)
				if err != nil || name == "" {
					// reported by the write phase
					return nil
				}
				if _, seen := idx.digests[name]; seen {
					return nil
				}
				sum, err := digestEntry(e)
				if err != nil {
					return err
				}
				idx.digests[name] = sum
				return nil
			})
			if err != nil {
				return sourceError(src, err)
			}
			out[i] = idx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func digestEntry(e entry) ([]byte, error) {
	rc, err := e.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(h, rc); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
