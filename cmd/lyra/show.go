package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/genricoloni/lyra/internal/config"
	"github.com/genricoloni/lyra/internal/domain"
	"github.com/genricoloni/lyra/internal/engine"
	"github.com/genricoloni/lyra/internal/logging"
	"github.com/genricoloni/lyra/internal/metadata"
	"github.com/genricoloni/lyra/internal/scanner"
	"github.com/genricoloni/lyra/internal/storage"
	"github.com/spf13/cobra"
)

const (
	showTimeout = 5 * time.Second
	// showQuiet is how long to keep waiting for a lyrics scan after the load
	showQuiet = 300 * time.Millisecond
)

var errNoEntry = errors.New("entry not found")

type showOptions struct {
	id      int64
	radio   bool
	verbose bool
}

func newShowCmd() *cobra.Command {
	opts := showOptions{id: domain.NewEntryID}

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print the metadata of a file or of a library entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.id < 0 {
				return errors.New("a file or --id is required")
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runShow(cmd.Context(), cmd.OutOrStdout(), path, opts)
		},
	}
	cmd.Flags().Int64Var(&opts.id, "id", domain.NewEntryID, "library identifier to show instead of a file")
	cmd.Flags().BoolVar(&opts.radio, "radio", false, "the identifier refers to a radio")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at the configured level instead of errors only")
	return cmd
}

// runShow loads one entry through the metadata model, driving the dispatch
// queue on the calling goroutine, and prints its rows.
func runShow(ctx context.Context, out io.Writer, path string, opts showOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()

	level := "error"
	if opts.verbose {
		level = cfg.GetLogLevel()
	}
	logger, err := logging.New(logging.DefaultConfig(level, cfg.GetLogFile()))
	if err != nil {
		return err
	}
	defer logger.Sync()

	queue := engine.NewQueue()
	tags := scanner.NewTagScanner(logger.Named("scanner"), scanner.NewCoverWriter(logger, cfg))

	lib, err := storage.Open(ctx, logger.Named("storage"), cfg.GetDatabasePath(), tags, queue)
	if err != nil {
		return err
	}
	defer lib.Close()

	var (
		model  *metadata.Editable
		loaded bool
	)
	model = metadata.NewEditable(logger.Named("metadata"), lib, tags, queue,
		metadata.WithHandler(func(ev metadata.Event) {
			if ev.Kind == metadata.EventReset && model.RowCount() > 0 {
				loaded = true
			}
		}))

	if opts.id >= 0 {
		kind := domain.EntryTrack
		if opts.radio {
			kind = domain.EntryRadio
		}
		model.InitializeByID(ctx, kind, opts.id)
	} else {
		model.InitializeByFileName(ctx, path)
	}

	if err := pump(ctx, queue, func() bool { return loaded }); err != nil {
		model.Close()
		queue.Close()
		return err
	}
	model.Close()
	queue.Close()

	printRows(out, model.Model)
	return nil
}

// pump runs queued closures until done reports true, then keeps going until
// the queue has been quiet for showQuiet.
func pump(ctx context.Context, queue *engine.Queue, done func() bool) error {
	deadline := time.NewTimer(showTimeout)
	defer deadline.Stop()

	for !done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return errNoEntry
		case <-queue.Ready():
			queue.Drain()
		}
	}

	quiet := time.NewTimer(showQuiet)
	defer quiet.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-quiet.C:
			return nil
		case <-queue.Ready():
			queue.Drain()
			quiet.Reset(showQuiet)
		}
	}
}

func printRows(out io.Writer, m *metadata.Model) {
	for row := 0; row < m.RowCount(); row++ {
		v := m.Read(row, metadata.AspectValue)
		if v.IsUnset() {
			continue
		}
		label := m.Read(row, metadata.AspectLabel).String()
		if label == "" {
			key, _ := m.Key(row)
			label = key.String()
		}
		fmt.Fprintf(out, "%-16s %s\n", label+":", v.String())
	}
}
