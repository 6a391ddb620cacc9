// Package report writes solver output as CSV for plotting and inspection.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"growthegm/internal/policy"
)

// WritePolicyCSV samples each named policy on grid and writes one row per
// grid point: income first, then one consumption column per policy.
// Columns appear in sorted name order so the output is deterministic.
func WritePolicyCSV(path string, grid []float64, policies map[string]*policy.Policy) error {
	if len(grid) == 0 {
		return fmt.Errorf("empty grid")
	}
	if len(policies) == 0 {
		return fmt.Errorf("no policies to write")
	}

	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{"income"}, names...)
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, y := range grid {
		record[0] = strconv.FormatFloat(y, 'g', -1, 64)
		for j, name := range names {
			record[j+1] = strconv.FormatFloat(policies[name].Evaluate(y), 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// WriteConvergenceCSV writes the per-iteration sup-norm distance trace of
// a fixed-point run, one row per iteration.
func WriteConvergenceCSV(path string, distances []float64) error {
	if len(distances) == 0 {
		return fmt.Errorf("empty distance trace")
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"iteration", "distance"}); err != nil {
		return err
	}
	for t, d := range distances {
		record := []string{
			strconv.Itoa(t),
			strconv.FormatFloat(d, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}
