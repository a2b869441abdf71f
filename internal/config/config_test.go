package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Panquesito7/julec-ir/internal/target"
)

func TestDefaultCarriesReleaseConstants(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "julec", cfg.Compiler.Bin)
	assert.Equal(t, "src/julec", cfg.Compiler.Package)
	assert.Equal(t, "ir.cpp", cfg.Compiler.Output)
	assert.Equal(t, "jule/", cfg.Rewrite.Marker)
	assert.Equal(t, "dist", cfg.StagingDir)
	assert.Equal(t, "src", cfg.Destination.SrcDir)
	assert.Equal(t, "IR version: [", cfg.Destination.StampPrefix)
	assert.Equal(t, target.Default(), cfg.Targets)
	require.NoError(t, cfg.validate())
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
compiler:
  bin: /opt/julec/bin/julec
  package: src/julec
  output: ir.cpp
staging_dir: out
targets:
  - os: linux
    arch: amd64
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/julec/bin/julec", cfg.Compiler.Bin)
	assert.Equal(t, "out", cfg.StagingDir)
	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, "linux-amd64", cfg.Targets[0].Label())
	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Destination, cfg.Destination)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets: []\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target matrix")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestTokenReadsEnv(t *testing.T) {
	t.Setenv(EnvToken, "sekrit")
	assert.Equal(t, "sekrit", Default().Token())
}
