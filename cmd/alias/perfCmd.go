package alias

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/esclient/cmd/util"
	"github.com/ValentinKolb/esclient/rpc/client"
	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/transport/http"
	"github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the alias APIs",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfIndexPrefix  = "__esc-perf"
	perfNumThreads   = 10
	perfAliasSpread  = 100
	perfSkip         = make([]string, 0)
	perfPrintMetrics = false
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. add,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "aliases"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different aliases to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "print-metrics"
	perfTestCmd.Flags().Bool(key, false, util.WrapString("Print the client metrics (Prometheus text format) and the per endpoint transport metrics after the run"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfAliasSpread = max(viper.GetInt("aliases"), 1)
	perfNumThreads = viper.GetInt("threads")
	perfSkip = strings.Split(viper.GetString("skip"), ",")
	perfPrintMetrics = viper.GetBool("print-metrics")

	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	fmt.Println("Performance testing tool for the alias APIs")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	config := util.GetClientConfig()
	fmt.Println(config.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)
	index := perfIndexPrefix + "-index"
	aliasName := func(i int) string {
		return fmt.Sprintf("%s-%d", perfIndexPrefix, i%perfAliasSpread)
	}

	// removeAll removes every alias the tests created
	removeAll := func(test string) {
		listed, err := esClient.GetAliases(ctx, func(d *client.GetAliasesDescriptor) *client.GetAliasesDescriptor {
			return d.Index(index)
		})
		if err := checkResponse("cleanup", listed, err); err != nil {
			log.Printf("(%s) - error listing aliases: %v\n", test, err)
			return
		}
		existing, _ := listed.Aliases(index)
		if len(existing) == 0 {
			return
		}
		resp, err := esClient.Alias(ctx, func(d *client.AliasDescriptor) *client.AliasDescriptor {
			for _, a := range existing {
				d = d.Remove(index, a.Name)
			}
			return d
		})
		if err := checkResponse("cleanup", resp, err); err != nil {
			log.Printf("(%s) - error removing aliases: %v\n", test, err)
		}
	}

	// addAll creates every alias used by the read tests
	addAll := func(test string) {
		resp, err := esClient.Alias(ctx, func(d *client.AliasDescriptor) *client.AliasDescriptor {
			for i := 0; i < perfAliasSpread; i++ {
				d = d.Add(index, aliasName(i))
			}
			return d
		})
		if err := checkResponse("setup", resp, err); err != nil {
			log.Printf("(%s) - error adding aliases: %v\n", test, err)
		}
	}

	results["add"] = testing.Benchmark(func(b *testing.B) {
		if shouldSkip("add") {
			return
		}

		b.Cleanup(func() { removeAll("add") })
		b.SetParallelism(perfNumThreads)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				resp, err := esClient.Alias(ctx, func(d *client.AliasDescriptor) *client.AliasDescriptor {
					return d.Add(index, aliasName(counter))
				})
				if err := checkResponse("add", resp, err); err != nil {
					log.Printf("(add) - error adding alias: %v\n", err)
				}
				counter++
			}
		})
	})
	printResult("add", results["add"])

	results["get"] = testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get") {
			return
		}

		addAll("get")
		b.Cleanup(func() { removeAll("get") })
		b.SetParallelism(perfNumThreads)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				resp, err := esClient.GetAliases(ctx, func(d *client.GetAliasesDescriptor) *client.GetAliasesDescriptor {
					return d.Index(index).Alias(aliasName(counter))
				})
				if err := checkResponse("get", resp, err); err != nil {
					log.Printf("(get) - error getting alias: %v\n", err)
				}
				counter++
			}
		})
	})
	printResult("get", results["get"])

	results["get-async"] = testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get-async") {
			return
		}

		addAll("get-async")
		b.Cleanup(func() { removeAll("get-async") })
		b.SetParallelism(perfNumThreads)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				future := esClient.GetAliasesAsync(ctx, func(d *client.GetAliasesDescriptor) *client.GetAliasesDescriptor {
					return d.Index(index)
				})
				resp, err := future.Await(ctx)
				if err := checkResponse("get-async", resp, err); err != nil {
					log.Printf("(get-async) - error getting aliases: %v\n", err)
				}
			}
		})
	})
	printResult("get-async", results["get-async"])

	results["exists"] = testing.Benchmark(func(b *testing.B) {
		if shouldSkip("exists") {
			return
		}

		addAll("exists")
		b.Cleanup(func() { removeAll("exists") })
		b.SetParallelism(perfNumThreads)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				// every second name does not exist
				name := aliasName(counter)
				if counter%2 == 1 {
					name += "-missing"
				}
				resp, err := esClient.AliasExists(ctx, name, nil)
				if err := checkResponse("exists", resp, err); err != nil {
					log.Printf("(exists) - error checking alias: %v\n", err)
				}
				counter++
			}
		})
	})
	printResult("exists", results["exists"])

	if perfPrintMetrics {
		fmt.Println()
		fmt.Println("Client metrics:")
		metrics.WritePrometheus(os.Stdout, false)

		if reporter, ok := esTransport.(http.MetricsReporter); ok {
			fmt.Println()
			fmt.Println("Transport metrics:")
			gometrics.WriteOnce(reporter.Metrics(), os.Stdout)
		}
	}

	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := writeResultsToCSV(csvPath, results, &config); err != nil {
			return err
		}
		fmt.Printf("results written to %s\n", csvPath)
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"Serializer", "Transport", "Threads", "Aliases",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	tests := make([]string, 0, len(results))
	for test := range results {
		tests = append(tests, test)
	}
	sort.Strings(tests)

	for _, test := range tests {
		result := results[test]
		var nsPerOp, opsPerSec float64
		skipped := "true"
		if result.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			strings.Join(config.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(config.ConnectionsPerEndpoint),
			viper.GetString(common.ConfKeySerializer),
			viper.GetString(common.ConfKeyTransport),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfAliasSpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
