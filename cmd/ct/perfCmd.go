package ct

import (
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/dAttr/cmd/util"
	"github.com/ValentinKolb/dAttr/lib/colortable"
	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for dAttr servers",
		Long:    "Runs publish, fetch, receive and info operations against the color table registry from multiple threads. Every thread edits its own color table.",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfTablePrefix = "__perf"
	perfNumThreads  = 10
	perfNumOps      = 1000
	perfNumPoints   = 16
	perfSkip        = make([]string, 0)
	perfTests       = []string{"publish", "fetch", "receive", "info"}
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. publish,info)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Number of operations per thread and benchmark"))
	key = "points"
	perfTestCmd.Flags().Int(key, 16, util.WrapString("Number of control points of the published color tables"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfNumOps = max(viper.GetInt("ops"), 1)
	perfNumPoints = max(viper.GetInt("points"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for dAttr servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d, Ops: %d, Points: %d\n", perfNumThreads, perfNumOps, perfNumPoints)
	fmt.Println()

	// every thread works on its own copy of the registry
	workers := make([]*colortable.Attributes, perfNumThreads)
	for i := range workers {
		workers[i] = colortable.NewAttributes()
		err := util.Edit(rpcReplica, workers[i], func(a *colortable.Attributes) error {
			return a.AddColorTable(tableName(i), perfTable(0))
		})
		if err != nil {
			return fmt.Errorf("prepare thread %d: %w", i, err)
		}
	}
	defer cleanup(workers)

	fmt.Println("staring tests...")

	registry := metrics.NewRegistry()
	ops := map[string]func(thread, op int) error{
		"publish": func(thread, op int) error {
			a := workers[thread]
			if err := a.UpdateColorTable(tableName(thread), perfTable(op)); err != nil {
				return err
			}
			return replica.Publish(rpcReplica, a)
		},
		"fetch": func(thread, _ int) error {
			return replica.Fetch(rpcReplica, workers[thread])
		},
		"receive": func(thread, _ int) error {
			return replica.Receive(rpcReplica, workers[thread])
		},
		"info": func(_, _ int) error {
			_, err := rpcReplica.Info()
			return err
		},
	}

	for _, test := range perfTests {
		if shouldSkip(test) {
			fmt.Printf("%-12sskipped\n", test)
			continue
		}
		timer := metrics.GetOrRegisterTimer(test, registry)
		errCount := metrics.GetOrRegisterCounter(test+".errors", registry)
		runParallel(timer, errCount, ops[test])
		printResult(test, timer.Snapshot(), errCount.Count())
	}

	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := writeResultsToCSV(csvPath, registry); err != nil {
			return err
		}
		fmt.Printf("results written to %s\n", csvPath)
	}

	return nil
}

// runParallel runs op perfNumOps times on each of perfNumThreads goroutines
func runParallel(timer metrics.Timer, errCount metrics.Counter, op func(thread, op int) error) {
	var wg sync.WaitGroup
	for thread := 0; thread < perfNumThreads; thread++ {
		wg.Add(1)
		go func(thread int) {
			defer wg.Done()
			for i := 0; i < perfNumOps; i++ {
				start := time.Now()
				err := op(thread, i)
				timer.UpdateSince(start)
				if err != nil {
					errCount.Inc(1)
				}
			}
		}(thread)
	}
	wg.Wait()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

func tableName(thread int) string {
	return fmt.Sprintf("%s-%d", perfTablePrefix, thread)
}

// perfTable creates a gradient whose colors depend on op, so every publish changes the table
func perfTable(op int) *colortable.ControlPointList {
	table := colortable.NewControlPointList()
	for i := 0; i < perfNumPoints; i++ {
		v := byte((op + i) % 256)
		table.AddControlPoint(colortable.NewControlPointRGBA(v, 255-v, v/2, 255, float32(i)/float32(max(perfNumPoints-1, 1))))
	}
	return table
}

// cleanup removes the color tables created by the benchmark
func cleanup(workers []*colortable.Attributes) {
	err := util.Edit(rpcReplica, colortable.NewAttributes(), func(a *colortable.Attributes) error {
		for i := range workers {
			a.RemoveColorTable(tableName(i))
		}
		return nil
	})
	if err != nil {
		fmt.Printf("error removing benchmark tables: %v\n", err)
	}
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, t metrics.Timer, errors int64) {
	fmt.Printf("%-12s%8d ops\tmean %s\tp50 %s\tp99 %s\t%.0f ops/sec\t%d errors\n",
		test,
		t.Count(),
		time.Duration(t.Mean()),
		time.Duration(t.Percentile(0.5)),
		time.Duration(t.Percentile(0.99)),
		t.RateMean(),
		errors,
	)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, registry metrics.Registry) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	config := util.GetClientConfig()

	// Write header
	header := []string{
		"Test", "Count", "Errors", "MeanNs", "P50Ns", "P99Ns", "OpsPerSec",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"ShardID", "Serializer", "Transport",
		"Threads", "Points",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for _, test := range perfTests {
		timer, ok := registry.Get(test).(metrics.Timer)
		if !ok {
			continue
		}
		t := timer.Snapshot()
		var errors int64
		if c, ok := registry.Get(test + ".errors").(metrics.Counter); ok {
			errors = c.Count()
		}

		row := []string{
			test,
			strconv.FormatInt(t.Count(), 10),
			strconv.FormatInt(errors, 10),
			fmt.Sprintf("%.0f", t.Mean()),
			fmt.Sprintf("%.0f", t.Percentile(0.5)),
			fmt.Sprintf("%.0f", t.Percentile(0.99)),
			fmt.Sprintf("%.0f", t.RateMean()),
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Transport.RetryCount),
			strconv.Itoa(config.Transport.ConnectionsPerEndpoint),
			strconv.FormatUint(util.GetShardID(), 10),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfNumPoints),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
