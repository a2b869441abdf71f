package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Panquesito7/julec-ir/internal/logfields"
	"github.com/Panquesito7/julec-ir/internal/rewrite"
	"github.com/Panquesito7/julec-ir/internal/target"
)

// stageGenerate produces one artifact per target, in matrix order. Each
// target is compiled, renamed from the compiler's generic output name to its
// label, and include-normalized before the next target starts. When this
// stage returns nil the staging directory holds exactly one rewritten
// artifact per target.
func (p *Pipeline) stageGenerate(ctx context.Context, st *State) error {
	for _, spec := range p.cfg.Targets {
		if err := p.generateTarget(ctx, st, spec); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) generateTarget(ctx context.Context, st *State, spec target.Spec) error {
	label := spec.Label()
	slog.Info("Generating IR", logfields.RunID(st.RunID), logfields.Target(label))

	err := p.run.Run(ctx, "", p.cfg.Compiler.Bin, "-t", "--target", label, p.cfg.Compiler.Package)
	if err != nil {
		return fmt.Errorf("compile target %s: %w", label, err)
	}

	generic := filepath.Join(p.ws.StagingPath(), p.cfg.Compiler.Output)
	staged := filepath.Join(p.ws.StagingPath(), spec.ArtifactName())
	if err := os.Rename(generic, staged); err != nil {
		return fmt.Errorf("stage artifact for %s: %w", label, err)
	}

	if err := rewrite.Includes(staged, p.cfg.Rewrite.Marker); err != nil {
		return fmt.Errorf("normalize includes for %s: %w", label, err)
	}
	return nil
}
