package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/tinydock/internal/application/campaign"
	"github.com/turtacn/tinydock/internal/infrastructure/storage/minio"
)

// dockFlags are shared by dock and run.
type dockFlags struct {
	targets  []string
	rewrite  bool
	fraction float64
	seed     int64
	selector string
}

func (f *dockFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.targets, "target", "t", nil, "targets to dock (repeatable; default: all)")
	cmd.Flags().BoolVar(&f.rewrite, "rewrite", false, "dock molecules that already have a pose")
	cmd.Flags().Float64Var(&f.fraction, "fraction", 0, "random subsample of each target's job set, in (0, 1]")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "seed for --fraction (0 = random)")
	cmd.Flags().StringVar(&f.selector, "selector", "", "CSV whose identifier column restricts the job set")
}

func (f *dockFlags) input() campaign.DockInput {
	return campaign.DockInput{
		Targets:      f.targets,
		Rewrite:      f.rewrite,
		Fraction:     f.fraction,
		Seed:         f.seed,
		SelectorPath: f.selector,
	}
}

// runService wraps the common RunE body: fetch CLIContext, apply --timeout,
// call fn and print its result.
func runService[R any](fn func(cmd *cobra.Command, cliCtx *CLIContext) (R, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cliCtx, err := GetCLIContext(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd, cliCtx)
		defer cancel()
		cmd.SetContext(ctx)

		res, err := fn(cmd, cliCtx)
		if err != nil {
			return err
		}
		return PrintResult(cmd, res)
	}
}

func newPrepareCmd() *cobra.Command {
	var (
		input   string
		rewrite bool
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Validate molecules, assign identifiers and write ligand files",
		Long: "Reads a molecule table, drops invalid and duplicate structures, adds the\n" +
			"identifier column, writes the identified table to data.molecules_csv and\n" +
			"converts every molecule into a dockable ligand file.",
		Args: cobra.NoArgs,
		RunE: runService(func(cmd *cobra.Command, cliCtx *CLIContext) (*campaign.PrepareResult, error) {
			return cliCtx.Service.Prepare(cmd.Context(), &campaign.PrepareInput{Input: input, Rewrite: rewrite})
		}),
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "molecule CSV (default: data.molecules_csv)")
	cmd.Flags().BoolVar(&rewrite, "rewrite", false, "convert molecules whose ligand file already exists")

	return cmd
}

func newDockCmd() *cobra.Command {
	var flags dockFlags

	cmd := &cobra.Command{
		Use:   "dock",
		Short: "Dock prepared ligands against the configured targets",
		Long: "Docks every prepared ligand that has no pose yet against each selected target.\n" +
			"Interrupted campaigns resume where they stopped; failed jobs are reported and\n" +
			"offered again on the next run.",
		Args: cobra.NoArgs,
		RunE: runService(func(cmd *cobra.Command, cliCtx *CLIContext) (*campaign.DockResult, error) {
			in := flags.input()
			return cliCtx.Service.Dock(cmd.Context(), &in)
		}),
	}
	flags.register(cmd)

	return cmd
}

func newSummarizeCmd() *cobra.Command {
	var targets []string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Parse engine logs into per-target summary tables",
		Args:  cobra.NoArgs,
		RunE: runService(func(cmd *cobra.Command, cliCtx *CLIContext) (*campaign.SummarizeResult, error) {
			return cliCtx.Service.Summarize(cmd.Context(), &campaign.SummarizeInput{Targets: targets})
		}),
	}
	cmd.Flags().StringSliceVarP(&targets, "target", "t", nil, "targets to summarize (repeatable; default: all)")

	return cmd
}

func newPrioritizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prioritize",
		Short: "Rank molecules by on-target mean minus off-target maximum",
		Args:  cobra.NoArgs,
		RunE: runService(func(cmd *cobra.Command, cliCtx *CLIContext) (*campaign.PrioritizeResult, error) {
			return cliCtx.Service.Prioritize(cmd.Context())
		}),
	}
}

func newRunCmd() *cobra.Command {
	var flags dockFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Dock, summarize every target and prioritize",
		Args:  cobra.NoArgs,
		RunE: runService(func(cmd *cobra.Command, cliCtx *CLIContext) (*campaign.RunResult, error) {
			return cliCtx.Service.Run(cmd.Context(), &campaign.RunInput{Dock: flags.input()})
		}),
	}
	flags.register(cmd)

	return cmd
}

func newStatsCmd() *cobra.Command {
	var targets []string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Describe the best-pose affinities of each target",
		Args:  cobra.NoArgs,
		RunE: runService(func(cmd *cobra.Command, cliCtx *CLIContext) (*campaign.StatsResult, error) {
			return cliCtx.Service.Stats(cmd.Context(), &campaign.StatsInput{Targets: targets})
		}),
	}
	cmd.Flags().StringSliceVarP(&targets, "target", "t", nil, "targets to describe (repeatable; default: all)")

	return cmd
}

func newExportPosesCmd() *cobra.Command {
	var (
		targets []string
		ids     []string
		top     int
	)

	cmd := &cobra.Command{
		Use:   "export-poses",
		Short: "Convert docked poses to SDF for inspection",
		Long: "Converts the poses of the given molecules, or of the best-ranked molecules\n" +
			"of the prioritization table, to SDF under data.poseview_dir.",
		Args: cobra.NoArgs,
		RunE: runService(func(cmd *cobra.Command, cliCtx *CLIContext) (*campaign.ExportResult, error) {
			return cliCtx.Service.ExportPoses(cmd.Context(), &campaign.ExportInput{Targets: targets, IDs: ids, Top: top})
		}),
	}
	cmd.Flags().StringSliceVarP(&targets, "target", "t", nil, "targets to export (repeatable; default: all)")
	cmd.Flags().StringSliceVar(&ids, "id", nil, "molecule identifiers to export (repeatable)")
	cmd.Flags().IntVar(&top, "top", campaign.DefaultExportTop, "export the N best-ranked molecules when --id is not given")

	return cmd
}

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Upload the molecule, summary and prioritization tables to MinIO",
		Args:  cobra.NoArgs,
		RunE: runService(func(cmd *cobra.Command, cliCtx *CLIContext) (*minio.PublishReport, error) {
			return cliCtx.Service.Publish(cmd.Context())
		}),
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipInit: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintResult(cmd, BuildInfo{Version: Version, Commit: GitCommit, BuildDate: BuildDate})
		},
	}
}

//Personal.AI order the ending
