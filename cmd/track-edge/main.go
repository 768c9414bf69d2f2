package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ghalamif/TrackFlow"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "sample":
		err = sampleCommand(os.Args[2:])
	case "register":
		err = registerCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("track-edge %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to monitor configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow, err := trackflow.Conf(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return flow.Run(ctx)
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := trackflow.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func sampleCommand(args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to monitor configuration file")
	n := fs.Int("n", 20, "Number of samples to generate")
	table := fs.String("table", "samples", "Table to print: samples or verdicts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n <= 0 {
		return fmt.Errorf("-n must be > 0")
	}

	cfg, err := trackflow.LoadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Metrics.Disabled = true
	if cfg.Policy.HistoryCapacity < *n {
		cfg.Policy.HistoryCapacity = *n
	}

	m, err := trackflow.NewMonitor(cfg)
	if err != nil {
		return err
	}
	for i := 0; i < *n; i++ {
		if _, err := m.Tick(); err != nil {
			return err
		}
	}

	var out trackflow.Table
	switch *table {
	case "samples":
		out = trackflow.SampleTable(m.History())
	case "verdicts":
		out = trackflow.VerdictTable(m.History())
	default:
		return fmt.Errorf("unknown table %q", *table)
	}
	return out.WriteCSV(os.Stdout)
}

func registerCommand(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	measured := fs.String("measured", "", "Comma-separated measured profile (mm)")
	standard := fs.String("standard", "", "Comma-separated reference profile (mm)")
	seed := fs.Int64("seed", 0, "Random seed for the synthesized registration error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := parseProfile(*measured)
	if err != nil {
		return fmt.Errorf("measured: %w", err)
	}
	s, err := parseProfile(*standard)
	if err != nil {
		return fmt.Errorf("standard: %w", err)
	}

	gen, err := trackflow.NewGenerator(trackflow.GeneratorConfig{Seed: *seed})
	if err != nil {
		return err
	}
	reg, err := gen.RegisterRailProfile(m, s)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(reg)
}

func parseProfile(raw string) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"track_samples_generated_total": 0,
		"track_chainage_meters":         0,
		"track_history_length":          0,
		"track_sink_errors_total":       0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %g", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] samples=%.0f chainage=%.2fm history=%.0f sink_errors=%.0f\n",
		time.Now().Format(time.RFC3339),
		targets["track_samples_generated_total"],
		targets["track_chainage_meters"],
		targets["track_history_length"],
		targets["track_sink_errors_total"],
	)
	return nil
}

func printUsage() {
	fmt.Printf(`TrackFlow CLI

Usage:
  track-edge <command> [flags]

Commands:
  run        Start the monitor using the provided config
  validate   Load and validate a config file without starting the monitor
  sample     Generate N samples without timers and print them as CSV
  register   Register a measured rail profile against a reference profile
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  track-edge run -config ./data/config.yaml
  track-edge validate -config ./data/config.yaml
  track-edge sample -config ./data/config.yaml -n 40 -table verdicts
  track-edge register -measured 10,10,10,10 -standard 8,8
  track-edge stats -url http://localhost:9100/metrics -interval 1s
`)
}
