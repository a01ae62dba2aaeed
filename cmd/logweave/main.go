// cmd/logweave/main.go
//
// This is the entry point for the logweave CLI.
//
// Flow:
// 1. Load config and discover naming schemes
// 2. Resolve the chronological order of the segment files
// 3. Stream-decompress every segment, in order, into the output file
// 4. Show a progress TUI while doing it (unless --quiet)

package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/logweave/internal/config"
	"github.com/kingrea/logweave/internal/logging"
	"github.com/kingrea/logweave/internal/pipeline"
	"github.com/kingrea/logweave/internal/segment"
	"github.com/kingrea/logweave/internal/tui"
	"github.com/kingrea/logweave/plugins"
)

var (
	outputPath string
	configPath string
	schemeFlag string
	quietFlag  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "logweave --output <file> <segment.gz> [<segment.gz>...]",
		Short: "Reassemble rotated, gzip-compressed log segments into one file",
		Long: `logweave rebuilds a single chronological log stream from rotated,
gzip-compressed segment files (app.log.1.gz, app.log.2.gz, ...).

Segments may be given in any order; their position in the reconstructed
log comes from the numeric key in each filename. Decompression is
streamed, so segment size does not affect memory use.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (created or truncated)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultFileName+")")
	rootCmd.Flags().StringVar(&schemeFlag, "scheme", "", "naming scheme id (default from config)")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "no progress UI, journal only")
	if err := rootCmd.MarkFlagRequired("output"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = config.DefaultFileName
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if quietFlag {
		cfg.Quiet = true
	}
	if schemeFlag != "" {
		cfg.Scheme = schemeFlag
	}

	registry, err := plugins.Discover(cfg.SchemesDir)
	if err != nil {
		return err
	}
	scheme, ok := registry.Lookup(cfg.Scheme)
	if !ok {
		return fmt.Errorf("unknown naming scheme %q (known: %s)", cfg.Scheme, strings.Join(registry.IDs(), ", "))
	}

	// Ordering happens before the output file is touched, so a bad
	// filename never truncates an existing output.
	ordered, err := resolveOrder(cfg, scheme, args)
	if err != nil {
		return err
	}

	// The journal is best-effort; a run without one still works.
	journal, jerr := logging.New(config.DefaultJournalPath)
	if jerr != nil {
		fmt.Fprintf(os.Stderr, "warning: journal unavailable: %v\n", jerr)
		journal = nil
	}
	journal.Info("reassemble %d segments into %s", len(ordered), outputPath)

	p := pipeline.New()
	p.BufferSize = cfg.BufferSize

	if cfg.Quiet {
		return runHeadless(p, ordered, journal)
	}
	return runWithTUI(p, ordered, journal)
}

func resolveOrder(cfg config.Config, scheme plugins.Scheme, names []string) ([]string, error) {
	if cfg.OnDuplicate == config.DuplicateKeepLast {
		return segment.ResolveKeepLast(scheme.Key, names)
	}
	return segment.ResolveWith(scheme.Key, names)
}

func runHeadless(p *pipeline.Pipeline, ordered []string, journal *logging.Journal) error {
	p.Observer = pipeline.ObserverFunc(func(index, total int, name string) {
		journal.Info("process %s (%d/%d)", name, index+1, total)
	})
	if err := p.RunFile(ordered, outputPath); err != nil {
		journal.Error("%v", err)
		return err
	}
	journal.Info("done: %s", outputPath)
	return nil
}

func runWithTUI(p *pipeline.Pipeline, ordered []string, journal *logging.Journal) error {
	// Buffered so the pipeline never blocks on a TUI the user already quit.
	events := make(chan tui.Event, len(ordered)+2)
	p.Observer = pipeline.ObserverFunc(func(index, total int, name string) {
		journal.Info("process %s (%d/%d)", name, index+1, total)
		events <- tui.Event{Kind: tui.EventSegment, Index: index, Total: total, Name: name}
	})

	result := make(chan error, 1)
	go func() {
		err := p.RunFile(ordered, outputPath)
		if err != nil {
			journal.Error("%v", err)
			events <- tui.Event{Kind: tui.EventError, Err: err}
		} else {
			journal.Info("done: %s", outputPath)
			events <- tui.Event{Kind: tui.EventDone}
		}
		close(events)
		result <- err
	}()

	if _, err := tea.NewProgram(tui.NewApp(outputPath, events, journal)).Run(); err != nil {
		return fmt.Errorf("run progress ui: %w", err)
	}
	return <-result
}
