// Package monitor samples process health on a cron schedule and keeps the
// latest reading for the health endpoint.
package monitor

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/procfs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/budgetlens/budgetlens/internal/infra/observability"
)

// DefaultSchedule matches the dashboard's poll interval.
const DefaultSchedule = "@every 30s"

// Sample is one reading of process and host health. ProcessMemoryMB is
// the resident set size. The host memory fields are zero when /proc is not
// available.
type Sample struct {
	CPUCount           int       `json:"cpu_count"`
	ProcessMemoryMB    float64   `json:"process_memory_mb"`
	MemoryUsagePercent float64   `json:"memory_usage_percent"`
	MemoryAvailableGB  float64   `json:"memory_available_gb"`
	Goroutines         int       `json:"goroutines"`
	SampledAt          time.Time `json:"sampled_at"`
}

// memoryStats is what a memory reader reports, in bytes.
type memoryStats struct {
	rss       uint64
	total     uint64
	available uint64
}

var errNoMeminfo = errors.New("meminfo lacks MemTotal or MemAvailable")

// readProcMemory reads this process's RSS and the host's memory totals
// from /proc.
func readProcMemory() (memoryStats, error) {
	self, err := procfs.Self()
	if err != nil {
		return memoryStats{}, fmt.Errorf("open /proc/self: %w", err)
	}
	stat, err := self.Stat()
	if err != nil {
		return memoryStats{}, fmt.Errorf("read process stat: %w", err)
	}

	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return memoryStats{}, fmt.Errorf("open /proc: %w", err)
	}
	mi, err := fs.Meminfo()
	if err != nil {
		return memoryStats{}, fmt.Errorf("read meminfo: %w", err)
	}
	if mi.MemTotal == nil || mi.MemAvailable == nil {
		return memoryStats{}, errNoMeminfo
	}

	return memoryStats{
		rss:       uint64(stat.ResidentMemory()),
		total:     *mi.MemTotal * 1024,
		available: *mi.MemAvailable * 1024,
	}, nil
}

// Monitor runs the sampler. The zero value is not usable; call New.
type Monitor struct {
	cron       *cron.Cron
	log        logrus.FieldLogger
	now        func() time.Time
	readMemory func() (memoryStats, error)
	fallback   sync.Once

	mu     sync.RWMutex
	latest Sample
}

// New validates schedule and registers the sampling job.
func New(schedule string, log logrus.FieldLogger) (*Monitor, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	m := &Monitor{
		cron:       cron.New(),
		log:        log.WithField("component", "monitor"),
		now:        time.Now,
		readMemory: readProcMemory,
	}
	if _, err := m.cron.AddFunc(schedule, m.sample); err != nil {
		return nil, fmt.Errorf("monitor schedule %q: %w", schedule, err)
	}
	return m, nil
}

// Start takes an initial sample so Snapshot is never empty, then starts
// the scheduler.
func (m *Monitor) Start() {
	m.sample()
	m.cron.Start()
}

// Stop halts the scheduler and waits for a running sample to finish.
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
}

// Snapshot returns the latest sample.
func (m *Monitor) Snapshot() Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

func (m *Monitor) sample() {
	s := Sample{
		CPUCount:   runtime.NumCPU(),
		Goroutines: runtime.NumGoroutine(),
		SampledAt:  m.now().UTC(),
	}

	mem, err := m.readMemory()
	if err != nil {
		// Without /proc, report what the Go runtime holds from the OS.
		m.fallback.Do(func() {
			m.log.WithError(err).Warn("process memory unavailable, falling back to runtime stats")
		})
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		mem = memoryStats{rss: ms.Sys}
	}
	s.ProcessMemoryMB = round2(float64(mem.rss) / (1 << 20))
	if mem.total > 0 {
		used := mem.total - min(mem.available, mem.total)
		s.MemoryUsagePercent = round2(float64(used) / float64(mem.total) * 100)
		s.MemoryAvailableGB = round2(float64(mem.available) / (1 << 30))
	}

	m.mu.Lock()
	m.latest = s
	m.mu.Unlock()

	observability.ProcessMemoryMB.Set(s.ProcessMemoryMB)
	observability.HostMemoryUsagePercent.Set(s.MemoryUsagePercent)
	observability.MonitorSamples.Inc()
	m.log.WithFields(logrus.Fields{
		"memory_mb":      fmt.Sprintf("%.1f", s.ProcessMemoryMB),
		"memory_percent": s.MemoryUsagePercent,
		"goroutines":     s.Goroutines,
	}).Debug("health sample")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
