package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/psacc/lumberjack/internal/model"
	"github.com/psacc/lumberjack/internal/search"
)

var (
	flagStart  string
	flagEnd    string
	flagFilter string
	flagTail   bool
	flagOutput string
)

var queryCmd = &cobra.Command{
	Use:   "query <group>",
	Short: "Search a log group and print matching events",
	Long: "Search a log group over a time window. Times accept -15m style offsets, RFC3339 or " +
		"'2025-12-11 10:00:00' (UTC). With --tail, keeps polling for new events until interrupted.",
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&flagStart, "start", "", "Window start (default -15m)")
	queryCmd.Flags().StringVar(&flagEnd, "end", "", "Window end (default now)")
	queryCmd.Flags().StringVarP(&flagFilter, "filter", "f", "", "Filter pattern or field:value shorthand")
	queryCmd.Flags().BoolVarP(&flagTail, "tail", "t", false, "Keep polling for new events")
	queryCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write events to a file (.zst is zstd-compressed)")
	rootCmd.AddCommand(queryCmd)
}

// sessionEngine is the part of the coordinator a headless query drives.
type sessionEngine interface {
	Start(req search.Request) string
	Stop()
	Lines() <-chan model.ResultLine
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := loadApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	dial, err := a.dialer()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, closeOutput, err := openOutput(cmd.OutOrStdout(), flagOutput)
	if err != nil {
		return err
	}

	coord := a.coordinator(dial)
	defer coord.Close()

	req := search.Request{
		Group:  args[0],
		Start:  flagStart,
		End:    flagEnd,
		Filter: flagFilter,
		Tail:   flagTail,
	}
	errCount, err := drainSession(ctx, coord, req, w, cmd.ErrOrStderr())
	if cerr := closeOutput(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if err != nil {
		return err
	}
	if errCount > 0 {
		return fmt.Errorf("query %s: %d error(s)", req.Group, errCount)
	}
	return nil
}

// drainSession starts req and copies its events to w until the session's
// terminal line. Progress and error lines go to diag. Cancelling ctx stops
// the session; draining continues until the worker reports it is done.
func drainSession(ctx context.Context, e sessionEngine, req search.Request, w, diag io.Writer) (int, error) {
	id := e.Start(req)
	done := ctx.Done()
	errCount := 0
	for {
		select {
		case <-done:
			e.Stop()
			done = nil
		case l := <-e.Lines():
			if l.Session != id {
				continue
			}
			switch l.Kind {
			case model.LineDone:
				return errCount, nil
			case model.LineText:
				if _, err := fmt.Fprintln(w, l.Text); err != nil {
					e.Stop()
					return errCount, fmt.Errorf("write output: %w", err)
				}
			case model.LineError:
				errCount++
				fmt.Fprintln(diag, l.Text)
			default:
				fmt.Fprintln(diag, l.Text)
			}
		}
	}
}

// openOutput returns the destination for events. An empty path or "-"
// means stdout.
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, f.Close, nil
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("zstd writer: %w", err)
	}
	return enc, func() error { return errors.Join(enc.Close(), f.Close()) }, nil
}
