package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"growthegm/internal/policy"
	"growthegm/internal/report"
	"growthegm/internal/solver"
)

var (
	solveOut   string
	solveTrace string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run the configured operator to its fixed point",
	Long: `Iterates the configured operator from the "eat everything" initial
policy and writes the resulting consumption policy as CSV. With
tolerance > 0 the run stops once successive policies agree to within the
tolerance in sup norm; with tolerance 0 it performs exactly
max_iterations applications.`,
	Args: cobra.NoArgs,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveOut, "out", "o", "policy.csv", "output CSV for the solved policy")
	solveCmd.Flags().StringVar(&solveTrace, "trace", "", "optional output CSV for the convergence trace")
}

func runSolve(cmd *cobra.Command, args []string) error {
	exp, err := loadExperiment()
	if err != nil {
		return err
	}
	m, shocks, err := buildModel(exp)
	if err != nil {
		return err
	}
	op := buildOperator(exp, m, shocks)

	initial, err := policy.Identity(m.Grid)
	if err != nil {
		return err
	}

	logger.Info("solving",
		zap.String("method", string(exp.Method)),
		zap.Int("grid_size", exp.GridSize),
		zap.Int("shock_sample", exp.ShockSample),
		zap.Int("max_iterations", exp.MaxIterations),
		zap.Float64("tolerance", exp.Tolerance))

	start := time.Now()
	res, err := solver.Run(initial, op, m.Grid, solver.Options{
		MaxIterations: exp.MaxIterations,
		Tolerance:     exp.Tolerance,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	logger.Info("solved",
		zap.Int("iterations", res.Iterations),
		zap.Bool("converged", res.Converged),
		zap.Float64("final_distance", res.Distances[len(res.Distances)-1]),
		zap.Int("evaluations", res.Evaluations),
		zap.Duration("elapsed", elapsed))

	if err := report.WritePolicyCSV(solveOut, m.Grid, map[string]*policy.Policy{
		string(exp.Method): res.Policy,
	}); err != nil {
		return fmt.Errorf("write policy CSV: %w", err)
	}
	fmt.Println("Policy written to", solveOut)

	if solveTrace != "" {
		if err := report.WriteConvergenceCSV(solveTrace, res.Distances); err != nil {
			return fmt.Errorf("write convergence CSV: %w", err)
		}
		fmt.Println("Convergence trace written to", solveTrace)
	}
	return nil
}
