package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/welldatalabs/wellsync/internal/control"
	"github.com/welldatalabs/wellsync/internal/core/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset [record_id]",
	Short: "Forget synced state so records are re-downloaded on the next cycle",
	Long: `Without arguments, reset clears the whole header store. With a record
identifier it forgets only that record. Forgotten records show up as missing
in the next diff and are downloaded again.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) {
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

	if len(args) == 1 {
		if err := store.Delete(ctx, args[0]); err != nil {
			slog.Error("Failed to delete record", "record", args[0], "error", err)
			os.Exit(1)
		}
		fmt.Printf("Forgot record %s\n", args[0])
		return
	}

	if err := store.Clear(ctx); err != nil {
		slog.Error("Failed to clear header store", "error", err)
		os.Exit(1)
	}
	fmt.Println("Cleared header store")
}
