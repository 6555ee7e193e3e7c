package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"war-room/contract"
)

// TelemetryWorker periodically logs the process self stats (CPU, RAM,
// OS status) together with the number of live rooms.
type TelemetryWorker struct {
	registry contract.IRegistry
	interval time.Duration
	log      *slog.Logger
}

func NewTelemetryWorker(registry contract.IRegistry, interval time.Duration, log *slog.Logger) *TelemetryWorker {
	return &TelemetryWorker{registry: registry, interval: interval, log: log}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	w.log.Info("Starting telemetry worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, status, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Info("telemetry",
				"rooms", w.registry.Len(),
				"ram_bytes", rss,
				"cpu_percent", cpu,
				"status", status)
		}
	}
}

// getSelfStats retrieves technical metrics (Memory, CPU and OS Status)
// for the given process.
func getSelfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
