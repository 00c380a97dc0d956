package cli

import (
	"io"
	"log/slog"

	"github.com/roach88/usagelog/internal/store"
)

// setupLogging installs a text slog handler on w as the default logger.
func setupLogging(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// openStore opens the resolved database, creating it if needed.
func openStore(opts *RootOptions) (*store.Store, error) {
	slog.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// closeStore closes st, logging any error.
func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
