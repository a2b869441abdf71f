package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// State carries mutable run state across stages. The commit hash is written
// exactly once by the capture stage and read thereafter; nothing else in the
// process holds it.
type State struct {
	RunID      string
	CommitHash string
	Timings    map[StageName]time.Duration
	start      time.Time
}

func newState() *State {
	return &State{
		RunID:   uuid.NewString(),
		Timings: make(map[StageName]time.Duration),
		start:   time.Now(),
	}
}

// Elapsed returns the wall time since the run started.
func (s *State) Elapsed() time.Duration {
	return time.Since(s.start)
}

// ShortCommit returns the 10-character short form used in the docs stamp.
func (s *State) ShortCommit() string {
	if len(s.CommitHash) < 10 {
		return s.CommitHash
	}
	return s.CommitHash[:10]
}
