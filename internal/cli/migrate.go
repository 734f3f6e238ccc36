package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/budgetlens/budgetlens/internal/app/budget"
	"github.com/budgetlens/budgetlens/internal/daemon"
	"github.com/budgetlens/budgetlens/internal/infra/eventlog"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate FILE",
	Short: "Import budgets from a legacy JSON dump",
	Long: `Import a JSON array of budgets ({id, name, created_at, input_data})
into the configured store. Calculations are recomputed. Budgets whose id is
already stored are skipped, so the command can be re-run safely.`,
	Args: cobra.ExactArgs(1),
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(true)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	legacy, err := budget.DecodeLegacy(f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := daemon.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	events := eventlog.NewWorker(store, cfg.Events.Buffer, log)
	events.Start()
	defer events.Shutdown()

	svc := budget.NewService(store, budget.WithEventSink(events), budget.WithLogger(log))
	res, err := svc.Import(ctx, legacy)
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d, failed %d of %d budgets\n",
		res.Imported, res.Skipped, res.Failed, len(legacy))
	return err
}
