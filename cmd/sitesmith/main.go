// Command sitesmith drives a remote website-generation pipeline from the
// terminal.
//
// Usage:
//
//	sitesmith [flags]
//
// Flags:
//
//	-server string   Generation service base URL (or SITESMITH_SERVER)
//	-config string   Path to config file (default ~/.sitesmith/config.yaml)
//	-thread string   Where to save the session thread on exit
//	-export string   Export the saved artifact to a directory and exit
//	-pages string    Comma-separated page patterns for -export
//	-debug           Enable debug logging to stderr
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zapcore"

	"github.com/sitesmith/sitesmith"
	bt "github.com/sitesmith/sitesmith/bubbletea"
	"github.com/sitesmith/sitesmith/config"
	"github.com/sitesmith/sitesmith/edit"
	"github.com/sitesmith/sitesmith/export"
	"github.com/sitesmith/sitesmith/httpapi"
	sitejson "github.com/sitesmith/sitesmith/json"
	sitelog "github.com/sitesmith/sitesmith/log"
	"github.com/sitesmith/sitesmith/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sitesmith: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		serverFlag = flag.String("server", "", "Generation service base URL")
		configPath = flag.String("config", defaultConfigPath(), "Path to config file")
		threadPath = flag.String("thread", "", "Where to save the session thread on exit")
		exportDir  = flag.String("export", "", "Export the saved artifact to a directory and exit")
		pagesFlag  = flag.String("pages", "", "Comma-separated page patterns for -export")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags and env override the config file.
	if *serverFlag != "" {
		cfg.BaseURL = *serverFlag
	} else if env := os.Getenv("SITESMITH_SERVER"); env != "" && cfg.BaseURL == "" {
		cfg.BaseURL = env
	}
	if *debug {
		cfg.Debug = true
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}
	logger := sitelog.New(os.Stderr, level)
	defer logger.Sync()

	// Export mode needs no server connection.
	if *exportDir != "" {
		return exportArtifact(cfg.ArtifactPath, *exportDir, *pagesFlag)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Streams are long-lived, so the client carries no request timeout;
	// contexts bound each call instead.
	clientOpts := []httpapi.Option{
		httpapi.WithLogger(logger),
		httpapi.WithHTTPClient(&http.Client{}),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, httpapi.WithBaseURL(cfg.BaseURL))
	}
	client := httpapi.New(clientOpts...)

	store := sitesmith.NewStore()

	// Handler messages flow to the TUI through a buffered channel so the
	// orchestrator's read loop never blocks on rendering.
	events := make(chan tea.Msg, 256)
	orchOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithStageHandler(func(stage sitesmith.Stage, status sitesmith.Status, message string) {
			select {
			case events <- bt.StageMsg{Stage: stage, Status: status, Message: message}:
			default:
			}
		}),
		pipeline.WithProgressHandler(func(v float64) {
			select {
			case events <- bt.ProgressMsg(v):
			default:
			}
		}),
	}
	if cfg.TemplatePath != "" {
		html, err := os.ReadFile(cfg.TemplatePath)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		orchOpts = append(orchOpts, pipeline.WithTemplateSource(templateSource{html: string(html)}))
	}
	orch := pipeline.New(client, store, orchOpts...)
	go orch.Animator().Run(ctx)

	edits := edit.New(client, store, edit.WithLogger(logger))

	model := bt.New(orch, edits, store, events, sitesmith.DefaultTheme(), bt.Config{
		ServerURL:      cfg.BaseURL,
		ExportDir:      cfg.ExportDir,
		RequestTimeout: cfg.RequestTimeout,
	})

	if err := bt.Run(ctx, model); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	// Persist state on exit so a later run can resume or export.
	if t := orch.Thread(); t.ID != "" {
		path := cfg.ThreadPath
		if *threadPath != "" {
			path = *threadPath
		}
		if err := sitejson.SaveThread(path, t); err != nil {
			return fmt.Errorf("save thread: %w", err)
		}
	}
	if !store.IsEmpty() {
		if err := sitejson.SaveArtifact(cfg.ArtifactPath, store.Snapshot()); err != nil {
			return fmt.Errorf("save artifact: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Artifact saved to %s\n", cfg.ArtifactPath)
	}

	return nil
}

func exportArtifact(artifactPath, dir, pagesFlag string) error {
	art, err := sitejson.LoadArtifact(artifactPath)
	if err != nil {
		return fmt.Errorf("load artifact: %w", err)
	}
	var patterns []string
	for _, p := range strings.Split(pagesFlag, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	names, err := export.WriteSite(dir, art, patterns...)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d page(s) to %s: %s\n", len(names), dir, strings.Join(names, ", "))
	return nil
}

// templateSource serves a template reference read from disk at startup.
type templateSource struct{ html string }

func (t templateSource) HasSelectedTemplate() bool    { return t.html != "" }
func (t templateSource) SelectedTemplateHTML() string { return t.html }

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return config.DefaultPath
	}
	return filepath.Join(home, config.DefaultPath)
}
