package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/psacc/lumberjack/internal/logging"
	"github.com/psacc/lumberjack/internal/preset"
	"github.com/psacc/lumberjack/internal/search"
	"github.com/psacc/lumberjack/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive log browser",
	Long:  "Pick a log group, search a time window with a filter pattern and optionally tail new events.",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// isTerminal reports whether fd is an interactive terminal.
var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var errNotTerminal = errors.New("the interactive browser needs a terminal (use 'lumberjack query' in scripts)")

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout.Fd()) {
		return errNotTerminal
	}

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	m, cleanup, err := buildModel(a)
	if err != nil {
		return err
	}
	defer cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// buildModel wires the coordinator, group listing and preset store into a
// TUI model. cleanup stops running sessions and closes the preset store.
func buildModel(a *app) (tui.Model, func(), error) {
	dial, err := a.dialer()
	if err != nil {
		return tui.Model{}, nil, err
	}
	coord := a.coordinator(dial)

	opts := tui.Options{
		Engine:     coord,
		ListGroups: listGroupsFunc(dial),
		Title:      "lumberjack · " + a.describe(),
		MaxLines:   a.cfg.Results.MaxLines,
		EvictLines: a.cfg.Results.EvictLines,
		Logger:     a.logger,
	}

	store, err := preset.Open(a.cfg.Presets.Path)
	if err != nil {
		a.logger.Warn("presets unavailable", logging.Error(err))
	} else {
		opts.Presets = store
	}

	cleanup := func() {
		coord.Close()
		if store != nil {
			_ = store.Close()
		}
	}
	return tui.New(opts), cleanup, nil
}

func listGroupsFunc(dial search.Dialer) func(ctx context.Context) ([]string, error) {
	return func(ctx context.Context) ([]string, error) {
		store, err := dial(ctx)
		if err != nil {
			return nil, err
		}
		return store.ListGroups(ctx)
	}
}
