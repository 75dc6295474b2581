package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/akngest/internal/config"
	"github.com/dgallion1/akngest/internal/store"
)

var (
	rootCmd = &cobra.Command{
		Use:   "akngest",
		Short: "Recover the structure of ITU Final Acts as Akoma Ntoso",
		Long: `akngest reads a Final Acts export (PDF, DOCX, HTML, Markdown, text or a
page/line CSV), finds every decision, resolution and recommendation through
the table of contents, and writes an AKN4UN documentCollection.

Settings come from the environment (and a .env file); flags override them.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	verbose bool
	dbPath  string
	cfg     config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Run history database (SQLite); defaults to HISTORY_DB")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(keywordsCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	cfg = config.Load()
	if !cmd.Flags().Changed("db") {
		dbPath = cfg.HistoryDB
	}
	return nil
}

// newLogger logs to w as text; warnings are visible by default.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openHistory opens the run history, or returns nil when it is disabled.
func openHistory() (store.History, error) {
	if dbPath == "" {
		return nil, nil
	}
	db, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", dbPath, err)
	}
	return db, nil
}
