package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/solver-tube/internal/config"
	"github.com/napolitain/solver-tube/internal/loader"
	"github.com/napolitain/solver-tube/internal/logger"
	"github.com/napolitain/solver-tube/internal/models"
	"github.com/napolitain/solver-tube/internal/recorder"
	"github.com/napolitain/solver-tube/internal/solver"
)

var (
	configFile string
	defsPath   string
	cash       float64
	quiet      bool

	policyName string
	noMemo     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tube",
		Short: "Idle channel economy upgrade-order optimizer",
		Long: `Finds the minimum-time sequence of channel upgrades that raises
the total income rate above a target bound, via branch-and-bound
search over a cash/time economic simulation.`,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&defsPath, "defs", "d", "data/defs.json", "Path to channel definitions")
	rootCmd.PersistentFlags().Float64Var(&cash, "cash", 0, "Starting cash reserve")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	solveCmd := &cobra.Command{
		Use:   "solve <bound>",
		Short: "Search for the fastest path to a target income rate [$/s]",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().StringVarP(&policyName, "policy", "p", "", "Simulation policy: exact, jump, amortized")
	solveCmd.Flags().BoolVar(&noMemo, "no-memo", false, "Disable the transposition table")

	compareCmd := &cobra.Command{
		Use:   "compare <bound>",
		Short: "Run all three simulation policies and compare results",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompare,
	}

	rootCmd.AddCommand(solveCmd, compareCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSetup parses the bound argument and loads config plus channel
// definitions, applying flag overrides on top of the config file.
func loadSetup(cmd *cobra.Command, args []string) (*config.Config, *models.Economy, float64, error) {
	bound, err := strconv.ParseFloat(args[0], 64)
	if err != nil || bound <= 0 {
		return nil, nil, 0, fmt.Errorf("bound must be a positive income rate, got %q", args[0])
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, 0, err
	}
	if cmd.Flags().Changed("policy") {
		cfg.Solver.Policy = policyName
	}
	if cmd.Flags().Changed("no-memo") {
		cfg.Solver.NoMemo = noMemo
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, 0, err
	}

	logger.Init(cfg.Logging.Level)

	economy, err := loader.LoadChannels(defsPath)
	if err != nil {
		return nil, nil, 0, err
	}

	return cfg, economy, bound, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, economy, bound, err := loadSetup(cmd, args)
	if err != nil {
		return err
	}

	titleColor := color.New(color.FgCyan, color.Bold)
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgYellow)

	if !quiet {
		titleColor.Println("\n╭─────────────────────────────╮")
		titleColor.Println("│  Channel Upgrade Optimizer  │")
		titleColor.Println("╰─────────────────────────────╯")
		fmt.Println()
		infoColor.Printf("Channels: %s\n", economy)
		infoColor.Printf("Target:   %.2f $/s, policy=%s, cash=%.2f\n\n", bound, cfg.Solver.Policy, cash)
	}

	pristine := economy.Clone()

	opts := solver.Options{
		Policy:      solver.Policy(cfg.Solver.Policy),
		Epsilon:     cfg.Solver.Epsilon,
		PhaseScale:  cfg.Solver.PhaseScale,
		DisableMemo: cfg.Solver.NoMemo,
		MaxDepth:    cfg.Solver.MaxDepth,
		Timeout:     cfg.Solver.Timeout,
	}
	if !quiet {
		opts.OnImprove = func(res solver.Result) {
			printImprovement(pristine, res)
		}
	}

	sol, err := solver.NewSolver(economy, bound, opts).Solve(cash, 0)
	if err != nil {
		return err
	}

	printPathTable(pristine, sol)

	successColor.Printf("\n✓ Bound %.2f $/s reached after %.3f s of game time (%d upgrades)\n",
		bound, sol.Time, len(sol.Path))
	if !quiet {
		infoColor.Printf("  nodes=%d pruned=%d terminal=%d memo hits=%d stores=%d wall=%s\n",
			sol.Stats.Nodes, sol.Stats.Pruned, sol.Stats.Terminal,
			sol.Stats.MemoHits, sol.Stats.MemoStores, sol.Elapsed.Round(time.Millisecond))
	}

	return recordRun(cfg, sol, bound)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, economy, bound, err := loadSetup(cmd, args)
	if err != nil {
		return err
	}

	infoColor := color.New(color.FgYellow)
	if !quiet {
		infoColor.Printf("Comparing simulation policies against %.2f $/s...\n\n", bound)
	}

	policies := []solver.Policy{solver.PolicyExact, solver.PolicyJump, solver.PolicyAmortized}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Policy", "Time [s]", "Upgrades", "Nodes", "Memo Hits", "Wall"}),
	)

	var reference float64
	for _, policy := range policies {
		opts := solver.Options{
			Policy:      policy,
			Epsilon:     cfg.Solver.Epsilon,
			PhaseScale:  cfg.Solver.PhaseScale,
			DisableMemo: cfg.Solver.NoMemo,
			MaxDepth:    cfg.Solver.MaxDepth,
			Timeout:     cfg.Solver.Timeout,
		}

		// Each policy gets a fresh economy: the solver mutates it in place.
		sol, err := solver.NewSolver(economy.Clone(), bound, opts).Solve(cash, 0)
		if err != nil {
			return fmt.Errorf("policy %s: %w", policy, err)
		}
		if policy == solver.PolicyExact {
			reference = sol.Time
		}

		timeCol := fmt.Sprintf("%.3f", sol.Time)
		if policy != solver.PolicyExact && reference > 0 {
			timeCol = fmt.Sprintf("%.3f (%+.1f%%)", sol.Time, (sol.Time-reference)/reference*100)
		}
		_ = table.Append([]string{
			string(policy),
			timeCol,
			strconv.Itoa(len(sol.Path)),
			strconv.Itoa(sol.Stats.Nodes),
			strconv.Itoa(sol.Stats.MemoHits),
			sol.Elapsed.Round(time.Millisecond).String(),
		})
	}

	return table.Render()
}

// printImprovement replays an improved path against the pristine economy
// and prints the resulting channel states.
func printImprovement(pristine *models.Economy, res solver.Result) {
	replay := pristine.Clone()
	for _, step := range res.Path {
		replay.Upgrade(step.Channel)
	}
	fmt.Printf("%.1f:\tIncome=%.0f $/s channels=[%s]\n", res.Time, replay.Income(), replay)
}

// printPathTable renders the winning upgrade order.
func printPathTable(pristine *models.Economy, sol *solver.Solution) {
	replay := pristine.Clone()

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Channel", "Upgrade", "Bought At [s]", "Income After [$/s]"}),
	)

	for i, step := range sol.Path {
		ch := replay.Channels[step.Channel]
		from := ch.Level
		replay.Upgrade(step.Channel)

		_ = table.Append([]string{
			strconv.Itoa(i + 1),
			ch.Name,
			fmt.Sprintf("%d → %d", from, ch.Level),
			fmt.Sprintf("%.3f", step.Time),
			fmt.Sprintf("%.2f", replay.Income()),
		})
	}

	_ = table.Render()
}

// recordRun appends the solve to the run-history database when enabled.
func recordRun(cfg *config.Config, sol *solver.Solution, bound float64) error {
	var rec recorder.Recorder = recorder.NewNoop()
	if cfg.Database.Enabled {
		sqlite, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logger.Warnf("run history disabled: %v", err)
		} else {
			rec = sqlite
		}
	}
	defer rec.Close()

	pathJSON, err := json.Marshal(sol.Path)
	if err != nil {
		return fmt.Errorf("encode path: %w", err)
	}

	return rec.RecordRun(&recorder.RunRecord{
		ID:         uuid.NewString(),
		DefsPath:   defsPath,
		Bound:      bound,
		Policy:     cfg.Solver.Policy,
		Cash:       cash,
		BestTime:   sol.Time,
		Path:       string(pathJSON),
		Nodes:      sol.Stats.Nodes,
		Pruned:     sol.Stats.Pruned,
		Terminal:   sol.Stats.Terminal,
		MemoHits:   sol.Stats.MemoHits,
		MemoStores: sol.Stats.MemoStores,
		ElapsedMS:  sol.Elapsed.Milliseconds(),
	})
}
