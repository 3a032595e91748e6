package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/bulkstream/pkg/config"
	"github.com/ajitpratap0/bulkstream/pkg/ingest"
	"github.com/ajitpratap0/bulkstream/pkg/logger"
	"github.com/ajitpratap0/bulkstream/pkg/metrics"
	"github.com/ajitpratap0/bulkstream/pkg/pipeline"
	"github.com/ajitpratap0/bulkstream/pkg/provider"
	"github.com/ajitpratap0/bulkstream/pkg/table"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "bulkbench",
		Short: "Bulkstream - streaming bulk loader benchmarks for tabular stores",
		Long: `Bulkbench drives synthetic time-series providers through the bulkstream
ingestion paths: the pipelined bulk stream writer and the synchronous
regular insert path. It also embeds a framed-protocol sink for local runs.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bulkbench v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newBulkCmd())
	root.AddCommand(newRegularCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bindConfigFlags overlays CLI flags onto the env-derived configuration.
func bindConfigFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "ingest endpoint host:port, or mem:// for in-process")
	cmd.Flags().StringVar(&cfg.Database, "db", cfg.Database, "logical database name")
	cmd.Flags().IntVar(&cfg.TableRowCount, "rows", cfg.TableRowCount, "rows to generate per provider")
	cmd.Flags().IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "rows per batch")
	cmd.Flags().IntVar(&cfg.Parallelism, "parallelism", cfg.Parallelism, "max outstanding bulk writes")
	cmd.Flags().StringVar(&cfg.Compression, "compression", cfg.Compression, "batch compression: none, lz4, zstd")
	cmd.Flags().BoolVar(&cfg.Development, "dev", cfg.Development, "development mode: debug logging and strict type checks")
}

func initLogging(dev bool) {
	cfg := logger.Config{Level: "info", Development: dev, Encoding: "json"}
	if dev {
		cfg.Level = "debug"
		cfg.Encoding = "console"
	}
	if err := logger.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
	}
}

func setupRun(cfg *config.Config) {
	initLogging(cfg.Development)
	// Strict accessor checks panic on schema bugs; only wanted in development.
	table.SetStrictTypeChecks(cfg.Development)
	displaySystemInfo(cfg)
}

func displaySystemInfo(cfg *config.Config) {
	fmt.Println("=== Benchmark Configuration ===")
	fmt.Printf("Endpoint: %s\n", cfg.Endpoint)
	fmt.Printf("Database: %s\n", cfg.Database)
	fmt.Printf("Rows per provider: %d\n", cfg.TableRowCount)
	fmt.Printf("Batch size: %d\n", cfg.BatchSize)
	fmt.Printf("Parallelism: %d\n", cfg.Parallelism)
	fmt.Printf("Compression: %s\n", cfg.Compression)

	if hostname, err := os.Hostname(); err == nil {
		fmt.Printf("Hostname: %s\n", hostname)
	}
	if count, err := cpu.Counts(true); err == nil {
		fmt.Printf("CPU cores: %d\n", count)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Printf("Memory: %.1f GiB total, %.0f%% used\n",
			float64(vm.Total)/(1<<30), vm.UsedPercent)
	}
	fmt.Println()
}

func newBulkCmd() *cobra.Command {
	cfg := config.FromEnv()
	var providerName string
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Run the bulk stream ingestion benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupRun(cfg)
			defer logger.Sync()

			client := ingest.NewClient(cfg)
			defer client.Close()

			p, err := buildTableProvider(providerName, cfg.TableRowCount)
			if err != nil {
				return err
			}
			runner := pipeline.NewBulkRunner(client, cfg, metrics.NewCollector(providerName))
			result := runner.Run(cmd.Context(), p, providerName)
			result.Display()
			if !result.Success {
				return result.Err
			}
			return nil
		},
	}
	bindConfigFlags(cmd, cfg)
	cmd.Flags().StringVar(&providerName, "provider", "log", "data provider: log or metrics")
	return cmd
}

func newRegularCmd() *cobra.Command {
	cfg := config.FromEnv()
	var providerName string
	cmd := &cobra.Command{
		Use:   "regular",
		Short: "Run the regular insert-path benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupRun(cfg)
			defer logger.Sync()

			client := ingest.NewClient(cfg)
			defer client.Close()

			p, err := buildWireProvider(providerName, cfg.TableRowCount)
			if err != nil {
				return err
			}
			runner := pipeline.NewRegularRunner(client, cfg, metrics.NewCollector(providerName))
			result := runner.Run(cmd.Context(), p, providerName)
			result.Display()
			if !result.Success {
				return result.Err
			}
			return nil
		},
	}
	bindConfigFlags(cmd, cfg)
	cmd.Flags().StringVar(&providerName, "provider", "log", "data provider: log or metrics")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	var dev bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-process ingest sink for local benchmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			initLogging(dev)
			defer logger.Sync()

			srv, err := ingest.NewServer(addr)
			if err != nil {
				return err
			}
			fmt.Printf("ingest sink listening on %s\n", srv.Addr())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ticker := time.NewTicker(10 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					logger.Info("shutting down",
						zap.Int64("rows_accepted", srv.RowsAccepted()),
						zap.Int64("batches_accepted", srv.BatchesAccepted()))
					return srv.Close()
				case <-ticker.C:
					logger.Info("sink stats",
						zap.Int64("rows_accepted", srv.RowsAccepted()),
						zap.Int64("batches_accepted", srv.BatchesAccepted()))
				}
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:4001", "listen address")
	cmd.Flags().BoolVar(&dev, "dev", false, "development mode logging")
	return cmd
}

func buildTableProvider(name string, rows int) (provider.TableDataProvider, error) {
	switch name {
	case "log":
		return provider.NewLogTableDataProvider("benchmark_logs", rows), nil
	case "metrics":
		return provider.NewMetricsTableDataProvider("host_metrics", rows), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

func buildWireProvider(name string, rows int) (provider.WireDataProvider, error) {
	switch name {
	case "log":
		return provider.NewLogTableDataProvider("benchmark_logs", rows), nil
	case "metrics":
		return provider.NewMetricsTableDataProvider("host_metrics", rows), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
