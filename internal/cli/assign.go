package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/adapters/memory"
	"github.com/emiliopalmerini/despertar/internal/adapters/turso"
	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/experiment"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

var assignCmd = &cobra.Command{
	Use:   "assign <userId>...",
	Short: "Show the experiment variants of users",
	Long: `Show the bucket and variant of each user in each experiment.

Without --db assignments are computed in memory. With --db the sticky
assignments stored there are used and new ones are saved.

Examples:
  despertar assign user_123
  despertar assign alice bob --experiment cta_text_test
  despertar assign user_123 --db file:./despertar.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAssign,
}

var (
	assignExperiment   string
	assignFile         string
	assignDB           string
	assignForceControl bool
)

func init() {
	assignCmd.Flags().StringVarP(&assignExperiment, "experiment", "e", "", "Only this experiment")
	assignCmd.Flags().StringVar(&assignFile, "file", "", "Experiments YAML (default: built-in experiments)")
	assignCmd.Flags().StringVar(&assignDB, "db", "", "Database URL holding sticky assignments")
	assignCmd.Flags().BoolVar(&assignForceControl, "force-control", false, "Assign every user to variant A")
}

func runAssign(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	registry, err := experiment.LoadOrDefault(assignFile)
	if err != nil {
		return err
	}
	configs := registry.All()
	if assignExperiment != "" {
		cfg, err := registry.Get(assignExperiment)
		if err != nil {
			return err
		}
		configs = []domain.ExperimentConfig{cfg}
	}

	store, closeStore, err := assignStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	engine := experiment.NewEngine(store, registry, assignForceControl, zap.NewNop())

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USER\tEXPERIMENT\tBUCKET\tVARIANT\tNAME\tSTICKY")
	for _, userID := range args {
		bucket := domain.Bucket(userID)
		for _, cfg := range configs {
			a := engine.GetOrCreate(ctx, userID, cfg)
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%t\n", userID, cfg.Name, bucket, a.Variant, a.VariantName, a.Sticky)
		}
	}
	return w.Flush()
}

func assignStore(ctx context.Context) (ports.KeyValueStore, func() error, error) {
	if assignDB == "" {
		return memory.NewKeyValueStore(), func() error { return nil }, nil
	}
	db, err := openMigratedDB(ctx, assignDB)
	if err != nil {
		return nil, nil, err
	}
	return turso.NewKeyValueStore(db.DB), db.Close, nil
}
