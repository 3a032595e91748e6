// Package pipeline drives providers through the ingestion paths: the bulk
// runner streams batches through a BulkStreamWriter with periodic
// acknowledgement reconciliation, and the regular runner issues synchronous
// inserts. Both produce comparable throughput results.
package pipeline

import (
	"fmt"
	"time"
)

// Result captures one completed run of a provider through an ingestion path.
type Result struct {
	ProviderName string
	TableName    string
	TotalRows    int
	Duration     time.Duration
	RowsPerSec   float64
	Batches      int
	AffectedRows int
	AvgLatency   time.Duration
	Success      bool
	Err          error
}

func newResult(providerName, tableName string, totalRows int) *Result {
	return &Result{
		ProviderName: providerName,
		TableName:    tableName,
		TotalRows:    totalRows,
	}
}

func (r *Result) succeed(rowsWritten, batches, affected int, duration time.Duration) *Result {
	r.TotalRows = rowsWritten
	r.Batches = batches
	r.AffectedRows = affected
	r.Duration = duration
	if duration > 0 {
		r.RowsPerSec = float64(rowsWritten) / duration.Seconds()
	}
	r.Success = true
	return r
}

func (r *Result) fail(err error) *Result {
	r.Err = err
	r.Success = false
	return r
}

// Display prints a human-readable summary of the run.
func (r *Result) Display() {
	fmt.Printf("=== %s Result ===\n", r.ProviderName)
	fmt.Printf("Table: %s\n", r.TableName)
	if r.Success {
		fmt.Println("SUCCESS")
		fmt.Printf("Total rows: %d\n", r.TotalRows)
		fmt.Printf("Batches: %d\n", r.Batches)
		fmt.Printf("Duration: %dms\n", r.Duration.Milliseconds())
		fmt.Printf("Throughput: %.0f rows/sec\n", r.RowsPerSec)
	} else {
		fmt.Println("FAILED")
		if r.Err != nil {
			fmt.Printf("Error: %v\n", r.Err)
		}
	}
	fmt.Println()
}

// ShowResults prints a comparison table across runs, with relative
// performance against the fastest successful one.
func ShowResults(results []*Result) {
	if len(results) == 0 {
		return
	}

	fmt.Println("=== Benchmark Results ===")

	var fastest *Result
	for _, r := range results {
		if r.Success && (fastest == nil || r.RowsPerSec > fastest.RowsPerSec) {
			fastest = r
		}
	}
	if fastest == nil {
		fmt.Println("No successful runs to display")
		return
	}
	fmt.Printf("Fastest: %s (%.0f rows/sec)\n\n", fastest.ProviderName, fastest.RowsPerSec)

	fmt.Printf("%-25s %12s %12s %15s %10s\n", "Provider", "Rows", "Duration(ms)", "Throughput", "Status")
	fmt.Println("--------------------------------------------------------------------------")
	for _, r := range results {
		if r.Success {
			fmt.Printf("%-25s %12d %12d %10.0f r/s %10s\n",
				r.ProviderName, r.TotalRows, r.Duration.Milliseconds(), r.RowsPerSec, "SUCCESS")
		} else {
			fmt.Printf("%-25s %12d %12s %15s %10s\n",
				r.ProviderName, r.TotalRows, "N/A", "N/A", "FAILED")
		}
	}
	fmt.Println()

	for _, r := range results {
		if !r.Success {
			continue
		}
		if r == fastest {
			fmt.Printf("[FASTEST] %s: baseline\n", r.ProviderName)
		} else {
			fmt.Printf("%s: %.1f%% of fastest\n", r.ProviderName, r.RowsPerSec/fastest.RowsPerSec*100)
		}
	}
}
