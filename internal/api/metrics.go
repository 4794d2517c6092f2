package api

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ServerMetrics собирает метрики процесса для отладочного API.
type ServerMetrics struct {
	startTime time.Time
	proc      *process.Process
}

// ProcessStats — снимок состояния процесса.
type ProcessStats struct {
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Goroutines     int     `json:"goroutines"`
	MemAllocMB     float64 `json:"mem_alloc_mb"`
	MemSysMB       float64 `json:"mem_sys_mb"`
	SystemMemUsage float64 `json:"system_mem_usage_percent"`
	CPUPercent     float64 `json:"cpu_percent"`
	NumGC          uint32  `json:"num_gc"`
}

// NewServerMetrics создаёт сборщик метрик текущего процесса.
func NewServerMetrics() *ServerMetrics {
	proc, _ := process.NewProcess(int32(os.Getpid()))
	return &ServerMetrics{
		startTime: time.Now(),
		proc:      proc,
	}
}

// Collect возвращает текущие показатели процесса. Ошибки сбора
// отдельных показателей не фатальны: поле остаётся нулевым.
func (sm *ServerMetrics) Collect() ProcessStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	stats := ProcessStats{
		UptimeSeconds: time.Since(sm.startTime).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		MemAllocMB:    float64(ms.Alloc) / 1024 / 1024,
		MemSysMB:      float64(ms.Sys) / 1024 / 1024,
		NumGC:         ms.NumGC,
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.SystemMemUsage = vm.UsedPercent
	}

	if sm.proc != nil {
		if pct, err := sm.proc.CPUPercent(); err == nil {
			stats.CPUPercent = pct
		}
	} else if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		stats.CPUPercent = pcts[0]
	}

	return stats
}
