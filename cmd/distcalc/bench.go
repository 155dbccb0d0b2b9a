package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/acortes/distributed_calculator/protocol"
	"github.com/acortes/distributed_calculator/workload"
)

var (
	benchOps    int
	benchGetPct float64
	benchDelay  time.Duration
	benchOut    string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a generated workload against the server and chart the results",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchOps, "ops", 1000, "number of requests to send")
	benchCmd.Flags().Float64Var(&benchGetPct, "get-pct", 0.2, "fraction of GET requests")
	benchCmd.Flags().DurationVar(&benchDelay, "delay", 0, "delay between requests")
	benchCmd.Flags().StringVar(&benchOut, "out", "results", "output directory for charts")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gen := workload.NewGenerator()
	gen.OperationCount = benchOps
	gen.GetPercentage = benchGetPct
	gen.InstructionDelay = benchDelay
	instructions := gen.Generate()

	if err := os.MkdirAll(benchOut, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	conn, err := net.Dial(cfg.Network, cfg.Address)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", cfg.Address, err)
	}
	defer conn.Close()
	responses := bufio.NewReader(conn)

	var latencyX, latencyY []float64
	var throughputX, throughputY []float64

	start := time.Now()
	log.Infof("starting workload of %d requests against %s", len(instructions), cfg.Address)

	for i, instr := range instructions {
		requestStart := time.Now()

		if _, err := conn.Write(instr.Message().Encode()); err != nil {
			return fmt.Errorf("writing request %d: %w", i+1, err)
		}
		line, err := responses.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading response %d: %w", i+1, err)
		}
		if msg := protocol.Decode([]byte(strings.TrimRight(line, "\r\n"))); msg.Kind == protocol.KindError {
			log.Errorf("request %d rejected: %s", i+1, msg.Payload)
		}

		latencyX = append(latencyX, float64(i+1))
		latencyY = append(latencyY, float64(time.Since(requestStart).Microseconds())/1000.0)

		elapsed := time.Since(start).Seconds()
		throughputX = append(throughputX, elapsed)
		throughputY = append(throughputY, float64(i+1)/elapsed)

		if instr.Delay > 0 {
			time.Sleep(instr.Delay)
		}
	}

	log.Infof("workload completed in %s", time.Since(start))

	if err := renderChart(
		"Throughput", "Time (s)", "Throughput (requests/s)",
		throughputX, throughputY,
		filepath.Join(benchOut, "throughput.png"),
	); err != nil {
		return err
	}
	return renderChart(
		"Latency", "Request", "Latency (ms)",
		latencyX, latencyY,
		filepath.Join(benchOut, "latency.png"),
	)
}

// renderChart saves one PNG line chart of the series.
func renderChart(title, xLabel, yLabel string, xData, yData []float64, path string) error {
	graph := chart.Chart{
		Title: title,
		XAxis: chart.XAxis{Name: xLabel},
		YAxis: chart.YAxis{Name: yLabel},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    title,
				XValues: xData,
				YValues: yData,
			},
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return nil
}
