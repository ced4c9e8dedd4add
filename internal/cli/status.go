package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/welldatalabs/wellsync/internal/control"
	"github.com/welldatalabs/wellsync/internal/core/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the synced header records in the local store",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := control.OpenStore(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to open header store", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close()
	}()

	entries, err := store.List(ctx)
	if err != nil {
		slog.Error("Failed to list headers", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "RECORD\tMODIFIED")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", e.RecordID, e.ModifiedAt.UTC().Format(time.RFC3339))
	}
	_ = w.Flush()
	fmt.Printf("%d record(s)\n", len(entries))
}
