package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/Panquesito7/julec-ir/internal/config"
	"github.com/Panquesito7/julec-ir/internal/logfields"
	"github.com/Panquesito7/julec-ir/internal/metrics"
	"github.com/Panquesito7/julec-ir/internal/pipeline"
	"github.com/Panquesito7/julec-ir/internal/version"
)

var CLI struct {
	Config      string `short:"c" help:"Configuration file path (optional; built-in defaults are the release setup)"`
	Verbose     bool   `short:"v" help:"Enable verbose logging"`
	MetricsFile string `help:"Write Prometheus textfile metrics to this path after the run"`
	Version     bool   `help:"Print version and exit"`

	Publish struct {
		Source string `short:"s" help:"Source repository path" default:"."`
		Keep   bool   `help:"Keep the staging tree and destination clone on success"`
	} `cmd:"" default:"1" help:"Generate IR for every target and publish it to the distribution repository"`

	Generate struct {
		Source string `short:"s" help:"Source repository path" default:"."`
	} `cmd:"" help:"Generate and normalize IR artifacts only; leave them in the staging directory"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if CLI.Version {
		slog.Info("julec-ir publisher", slog.String("version", version.Version), slog.String("commit", version.GitCommit))
		return
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", logfields.Error(err))
		os.Exit(1)
	}

	p := pipeline.New(cfg)
	var recorder *metrics.PrometheusRecorder
	if CLI.MetricsFile != "" {
		recorder = metrics.NewPrometheusRecorder(prom.NewRegistry())
		p.WithRecorder(recorder)
	}

	var opts pipeline.Options
	switch ctx.Command() {
	case "generate":
		opts = pipeline.Options{SourceRepo: CLI.Generate.Source, GenerateOnly: true}
	default:
		opts = pipeline.Options{SourceRepo: CLI.Publish.Source, KeepWorkArea: CLI.Publish.Keep}
	}

	runErr := p.Run(context.Background(), opts)

	if recorder != nil {
		if err := recorder.WriteTextfile(CLI.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Error(err))
		}
	}

	if runErr != nil {
		slog.Error("Release run failed", logfields.Error(runErr))
		os.Exit(1)
	}
}
