package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecLabel(t *testing.T) {
	s := Spec{OS: Linux, Arch: AMD64}
	assert.Equal(t, "linux-amd64", s.Label())
	assert.Equal(t, "linux-amd64.cpp", s.ArtifactName())
}

func TestDefaultMatrixOrderIsStable(t *testing.T) {
	want := []string{
		"windows-amd64",
		"windows-arm64",
		"linux-amd64",
		"linux-arm64",
		"darwin-amd64",
		"darwin-arm64",
	}
	assert.Equal(t, want, Default().Labels())

	// Two calls must agree; the matrix drives generation and publish order.
	assert.Equal(t, Default(), Default())
}

func TestSpecIdentityIsThePair(t *testing.T) {
	a := Spec{OS: Darwin, Arch: ARM64}
	b := Spec{OS: Darwin, Arch: ARM64}
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Spec{OS: Darwin, Arch: AMD64})
}
