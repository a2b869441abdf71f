package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunUnknownCommandFails(t *testing.T) {
	r := New()
	err := r.Run(context.Background(), "", "definitely-not-a-real-binary-4918")
	assert.Error(t, err)
}

func TestRunCanceledContextFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Run(ctx, "", "true")
	assert.Error(t, err)
}
