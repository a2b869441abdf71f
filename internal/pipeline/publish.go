package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Panquesito7/julec-ir/internal/logfields"
	"github.com/Panquesito7/julec-ir/internal/rewrite"
)

// stageAcquireDest shallow-clones the destination repository and replaces
// its source subtree with an empty one. Runs only after every artifact is
// generated: the destination tree is never cleared while generation can
// still fail.
func (p *Pipeline) stageAcquireDest(ctx context.Context, st *State) error {
	if err := p.ws.RemoveDest(); err != nil {
		return err
	}
	if err := p.git.Clone(ctx, p.cfg.Destination.URL, p.ws.DestPath()); err != nil {
		return err
	}

	srcDir := p.destSrcDir()
	if err := os.RemoveAll(srcDir); err != nil {
		return fmt.Errorf("clear destination source subtree: %w", err)
	}
	if err := os.MkdirAll(srcDir, 0o750); err != nil {
		return fmt.Errorf("recreate destination source subtree: %w", err)
	}
	return nil
}

// stagePopulateDest moves every staged artifact into the destination source
// subtree, same names, matrix order.
func (p *Pipeline) stagePopulateDest(_ context.Context, st *State) error {
	for _, spec := range p.cfg.Targets {
		name := spec.ArtifactName()
		from := filepath.Join(p.ws.StagingPath(), name)
		to := filepath.Join(p.destSrcDir(), name)
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("relocate artifact %s: %w", name, err)
		}
		slog.Debug("Relocated artifact", logfields.RunID(st.RunID), logfields.Target(spec.Label()), logfields.Path(to))
	}
	return nil
}

// stageStampDocs rewrites the version stamp in the destination docs file
// with the captured commit, length-preserving.
func (p *Pipeline) stageStampDocs(_ context.Context, st *State) error {
	docs := filepath.Join(p.ws.DestPath(), p.cfg.Destination.DocsFile)
	return rewrite.Stamp(docs, p.cfg.Destination.StampPrefix, st.CommitHash, p.cfg.Destination.CommitBase)
}

// stagePublish commits and pushes the destination repository. The commit
// subject carries the full source hash so the distribution history maps
// one-to-one onto source revisions.
func (p *Pipeline) stagePublish(ctx context.Context, st *State) error {
	message := fmt.Sprintf("update IR for %s", st.CommitHash)
	return p.git.CommitAndPush(ctx, p.ws.DestPath(), message)
}

func (p *Pipeline) destSrcDir() string {
	return filepath.Join(p.ws.DestPath(), p.cfg.Destination.SrcDir)
}
