package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/emiliopalmerini/despertar/internal/adapters/turso"
	"github.com/emiliopalmerini/despertar/internal/experiment"
)

var experimentsCmd = &cobra.Command{
	Use:   "experiments",
	Short: "Inspect the A/B experiments",
}

var experimentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List experiments and their weights",
	Args:  cobra.NoArgs,
	RunE:  runExperimentsList,
}

var experimentsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print an experiment with its variant payloads",
	Args:  cobra.ExactArgs(1),
	RunE:  runExperimentsShow,
}

var experimentsAssignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "List the sticky assignments stored in a database",
	Long: `List the sticky assignments stored in a database.

Examples:
  despertar experiments assignments --db file:./despertar.db
  despertar experiments assignments --db file:./despertar.db --experiment cta_text_test`,
	Args: cobra.NoArgs,
	RunE: runExperimentsAssignments,
}

var (
	experimentsFile       string
	experimentsDB         string
	experimentsExperiment string
)

func init() {
	experimentsCmd.PersistentFlags().StringVar(&experimentsFile, "file", "", "Experiments YAML (default: built-in experiments)")
	experimentsCmd.AddCommand(experimentsListCmd)
	experimentsCmd.AddCommand(experimentsShowCmd)
	experimentsCmd.AddCommand(experimentsAssignmentsCmd)

	experimentsAssignmentsCmd.Flags().StringVar(&experimentsDB, "db", "", "Database URL")
	experimentsAssignmentsCmd.Flags().StringVarP(&experimentsExperiment, "experiment", "e", "", "Only this experiment")
	_ = experimentsAssignmentsCmd.MarkFlagRequired("db")
}

func runExperimentsList(cmd *cobra.Command, args []string) error {
	registry, err := experiment.LoadOrDefault(experimentsFile)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tA\tB\tDESCRIPTION")
	for _, c := range registry.All() {
		fmt.Fprintf(w, "%s\t%d%% %s\t%d%% %s\t%s\n", c.Name, c.A.Weight, c.A.Name, c.B.Weight, c.B.Name, c.Description)
	}
	return w.Flush()
}

func runExperimentsShow(cmd *cobra.Command, args []string) error {
	registry, err := experiment.LoadOrDefault(experimentsFile)
	if err != nil {
		return err
	}
	cfg, err := registry.Get(args[0])
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}

func runExperimentsAssignments(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := openMigratedDB(ctx, experimentsDB)
	if err != nil {
		return err
	}
	defer db.Close()

	prefix := "ab_test_"
	if experimentsExperiment != "" {
		prefix += experimentsExperiment + "_"
	}
	store := turso.NewKeyValueStore(db.DB)
	keys, err := store.Keys(ctx, prefix)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVARIANT")
	for _, k := range keys {
		v, err := store.Get(ctx, k)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.TrimPrefix(k, "ab_test_"), v)
	}
	return w.Flush()
}
