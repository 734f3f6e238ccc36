package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().String("url", "http://127.0.0.1:5000", "base URL of a running budgetlens server")
	healthCmd.Flags().Duration("interval", 30*time.Second, "poll interval")
	healthCmd.Flags().Bool("once", false, "check once and exit")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Poll a running server's health endpoint",
	Long: `Poll /api/health on a running server and print one line per check
until interrupted. With --once, exit non-zero when the server is unhealthy.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

// healthReport is the subset of /api/health the CLI prints.
type healthReport struct {
	Status   string `json:"status"`
	Database struct {
		Connected   bool `json:"connected"`
		BudgetCount int  `json:"budget_count"`
	} `json:"database"`
	System *struct {
		CPUCount           int       `json:"cpu_count"`
		ProcessMemoryMB    float64   `json:"process_memory_mb"`
		MemoryUsagePercent float64   `json:"memory_usage_percent"`
		MemoryAvailableGB  float64   `json:"memory_available_gb"`
		Goroutines         int       `json:"goroutines"`
		SampledAt          time.Time `json:"sampled_at"`
	} `json:"system"`
}

func runHealth(cmd *cobra.Command, _ []string) error {
	base, _ := cmd.Flags().GetString("url")
	interval, _ := cmd.Flags().GetDuration("interval")
	once, _ := cmd.Flags().GetBool("once")
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 10 * time.Second}
	endpoint := strings.TrimRight(base, "/") + "/api/health"
	out := cmd.OutOrStdout()

	check := func() error {
		report, err := fetchHealth(ctx, client, endpoint)
		if err != nil {
			fmt.Fprintf(out, "%s  unreachable: %v\n", time.Now().Format(time.TimeOnly), err)
			return err
		}
		fmt.Fprintln(out, formatHealth(report, time.Now()))
		if report.Status != "healthy" {
			return fmt.Errorf("server is %s", report.Status)
		}
		return nil
	}

	if once {
		return check()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		_ = check()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func fetchHealth(ctx context.Context, client *http.Client, endpoint string) (*healthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	var report healthReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("HTTP %d: unexpected body", resp.StatusCode)
	}
	return &report, nil
}

func formatHealth(r *healthReport, now time.Time) string {
	line := fmt.Sprintf("%s  %-9s db=%t budgets=%d",
		now.Format(time.TimeOnly), r.Status, r.Database.Connected, r.Database.BudgetCount)
	if s := r.System; s != nil {
		mem := humanize.IBytes(uint64(s.ProcessMemoryMB * 1024 * 1024))
		line += fmt.Sprintf(" cpus=%d mem=%s goroutines=%d", s.CPUCount, mem, s.Goroutines)
		if s.MemoryAvailableGB > 0 {
			avail := humanize.IBytes(uint64(s.MemoryAvailableGB * (1 << 30)))
			line += fmt.Sprintf(" host=%.1f%% used, %s free", s.MemoryUsagePercent, avail)
		}
		line += " sampled " + humanize.RelTime(s.SampledAt, now, "ago", "from now")
	}
	return line
}
