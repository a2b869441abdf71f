// Package pipeline sequences the IR release run: capture the source HEAD,
// generate one normalized artifact per target, repopulate the distribution
// repository, stamp its docs with the source commit, push, and clean up.
// Stages run strictly in order; the first failure stops the run and skips
// cleanup.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Panquesito7/julec-ir/internal/config"
	"github.com/Panquesito7/julec-ir/internal/gitx"
	"github.com/Panquesito7/julec-ir/internal/logfields"
	"github.com/Panquesito7/julec-ir/internal/metrics"
	"github.com/Panquesito7/julec-ir/internal/runner"
	"github.com/Panquesito7/julec-ir/internal/workspace"
)

// GitClient is the version-control collaborator for the destination
// repository. Satisfied by *gitx.Client; faked in tests.
type GitClient interface {
	Clone(ctx context.Context, url, path string) error
	CommitAndPush(ctx context.Context, path, message string) error
}

// HeadFunc captures the HEAD commit hash of the repository at path.
type HeadFunc func(path string) (string, error)

// Options tune one run.
type Options struct {
	// SourceRepo is the repository whose HEAD the artifacts are built from.
	// Empty means the current working directory.
	SourceRepo string
	// GenerateOnly stops after artifact generation, keeping the staging
	// tree and skipping the destination repository entirely.
	GenerateOnly bool
	// KeepWorkArea skips cleanup on success.
	KeepWorkArea bool
}

// Pipeline wires the collaborators for one release run.
type Pipeline struct {
	cfg      *config.Config
	run      runner.Runner
	git      GitClient
	head     HeadFunc
	ws       *workspace.Manager
	recorder metrics.Recorder
}

// New constructs a Pipeline with production collaborators.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		run:      runner.New(),
		git:      gitx.NewClient(cfg.Token()),
		head:     gitx.Head,
		ws:       workspace.NewManager("", cfg.StagingDir, cfg.Destination.Dir),
		recorder: metrics.NoopRecorder{},
	}
}

// WithRunner substitutes the command runner (tests).
func (p *Pipeline) WithRunner(r runner.Runner) *Pipeline { p.run = r; return p }

// WithGitClient substitutes the version-control collaborator (tests).
func (p *Pipeline) WithGitClient(g GitClient) *Pipeline { p.git = g; return p }

// WithHeadFunc substitutes HEAD capture (tests).
func (p *Pipeline) WithHeadFunc(h HeadFunc) *Pipeline { p.head = h; return p }

// WithWorkspace substitutes the work-area manager (tests).
func (p *Pipeline) WithWorkspace(ws *workspace.Manager) *Pipeline { p.ws = ws; return p }

// WithRecorder substitutes the metrics recorder.
func (p *Pipeline) WithRecorder(r metrics.Recorder) *Pipeline { p.recorder = r; return p }

// Run executes the release pipeline and returns the first stage error, if
// any. The commit hash is captured by the first stage and threaded through
// State; no global holds it.
func (p *Pipeline) Run(ctx context.Context, opts Options) error {
	st := newState()
	slog.Info("Starting IR release run",
		logfields.RunID(st.RunID),
		slog.Int("targets", len(p.cfg.Targets)))

	stages := []StageDef{
		{StageCaptureCommit, p.stageCaptureCommit(opts.SourceRepo)},
		{StageCreateStaging, p.stageCreateStaging},
		{StageGenerate, p.stageGenerate},
	}
	if !opts.GenerateOnly {
		stages = append(stages,
			StageDef{StageAcquireDest, p.stageAcquireDest},
			StageDef{StagePopulateDest, p.stagePopulateDest},
			StageDef{StageStampDocs, p.stageStampDocs},
			StageDef{StagePublish, p.stagePublish},
		)
		if !opts.KeepWorkArea {
			stages = append(stages, StageDef{StageCleanup, p.stageCleanup})
		}
	}

	err := runStages(ctx, st, stages, p.recorder)
	p.recorder.ObserveRunDuration(st.Elapsed())
	if err != nil {
		p.recorder.IncRunOutcome(outcomeFor(err))
		return err
	}

	p.recorder.IncRunOutcome("success")
	slog.Info("IR release run finished",
		logfields.RunID(st.RunID),
		logfields.Commit(st.CommitHash),
		logfields.DurationMS(float64(st.Elapsed().Milliseconds())))
	return nil
}

func outcomeFor(err error) string {
	var se *StageError
	if errors.As(err, &se) && se.Kind == StageErrorCanceled {
		return "canceled"
	}
	return "failed"
}

// stageCaptureCommit reads the source HEAD once, before any generation, so
// every artifact and the docs stamp refer to the same revision.
func (p *Pipeline) stageCaptureCommit(sourceRepo string) Stage {
	return func(_ context.Context, st *State) error {
		if sourceRepo == "" {
			sourceRepo = "."
		}
		hash, err := p.head(sourceRepo)
		if err != nil {
			return fmt.Errorf("capture HEAD of %s: %w", sourceRepo, err)
		}
		st.CommitHash = hash
		slog.Info("Captured source commit", logfields.RunID(st.RunID), logfields.Commit(hash))
		return nil
	}
}

func (p *Pipeline) stageCreateStaging(_ context.Context, _ *State) error {
	return p.ws.CreateStaging()
}

func (p *Pipeline) stageCleanup(_ context.Context, _ *State) error {
	return p.ws.Cleanup()
}
