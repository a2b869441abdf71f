package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Panquesito7/julec-ir/internal/logfields"
	"github.com/Panquesito7/julec-ir/internal/metrics"
)

// StageName is a strongly-typed identifier for a pipeline stage. All
// canonical stages are declared as constants here for compile-time safety.
type StageName string

// Canonical stage names, in run order.
const (
	StageCaptureCommit StageName = "capture_commit"
	StageCreateStaging StageName = "create_staging"
	StageGenerate      StageName = "generate_artifacts"
	StageAcquireDest   StageName = "acquire_destination"
	StagePopulateDest  StageName = "populate_destination"
	StageStampDocs     StageName = "stamp_docs"
	StagePublish       StageName = "publish"
	StageCleanup       StageName = "cleanup"
)

// Stage is a discrete unit of work in the pipeline run.
type Stage func(ctx context.Context, st *State) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// runStages executes stages in order, recording timing and metrics, and
// stops on the first error. Later stages never run after a failure; in
// particular cleanup is skipped, leaving the work area behind for
// inspection.
func runStages(ctx context.Context, st *State, stages []StageDef, rec metrics.Recorder) error {
	for _, sd := range stages {
		select {
		case <-ctx.Done():
			rec.IncStageResult(string(sd.Name), metrics.ResultCanceled)
			return newCanceledStageError(sd.Name, ctx.Err())
		default:
		}

		t0 := time.Now()
		err := sd.Fn(ctx, st)
		dur := time.Since(t0)
		st.Timings[sd.Name] = dur
		rec.ObserveStageDuration(string(sd.Name), dur)

		if err != nil {
			var se *StageError
			if !errors.As(err, &se) {
				se = newFatalStageError(sd.Name, err)
			}
			if se.Kind == StageErrorCanceled {
				rec.IncStageResult(string(sd.Name), metrics.ResultCanceled)
			} else {
				rec.IncStageResult(string(sd.Name), metrics.ResultFatal)
			}
			slog.Error("Stage failed",
				logfields.RunID(st.RunID),
				logfields.Stage(string(sd.Name)),
				logfields.DurationMS(float64(dur.Milliseconds())),
				logfields.Error(se))
			return se
		}

		rec.IncStageResult(string(sd.Name), metrics.ResultSuccess)
		slog.Info("Stage completed",
			logfields.RunID(st.RunID),
			logfields.Stage(string(sd.Name)),
			logfields.DurationMS(float64(dur.Milliseconds())))
	}
	return nil
}
