// Package localnode probes the local machine's hardware. It backs
// every query when no scheduler is detected, so all probes degrade to
// zero values rather than failing the whole command.
package localnode

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/clusterscope/cscope/pkg/execx"
	"github.com/clusterscope/cscope/pkg/logging"
	"github.com/clusterscope/cscope/pkg/models"
)

// Probe collects local CPU, memory and GPU facts.
type Probe struct {
	runner execx.Runner
	log    *logging.Logger
}

// NewProbe creates a local node probe.
func NewProbe(runner execx.Runner, log *logging.Logger) *Probe {
	return &Probe{runner: runner, log: log}
}

// Resources returns the local node's CPU and memory capacity. Fields
// that cannot be determined on this platform are left at zero so higher
// layers can still print partial information.
func (p *Probe) Resources(ctx context.Context) models.NodeResource {
	node := models.NodeResource{}

	if hostname, err := os.Hostname(); err == nil {
		node.Hostname = hostname
	}

	if count, err := cpu.CountsWithContext(ctx, true); err == nil && count > 0 {
		node.CPUCount = count
	} else {
		node.CPUCount = runtime.NumCPU()
	}

	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		node.MemTotalMB = int64(vmem.Total / (1024 * 1024))
	} else if mb := memTotalMBFromProc(); mb > 0 {
		node.MemTotalMB = mb
	} else {
		p.log.Debug("memory probe failed", map[string]interface{}{"error": err.Error()})
	}

	if info, err := cpu.InfoWithContext(ctx); err == nil && len(info) > 0 {
		node.CPUModel = info[0].ModelName
	}

	return node
}

// memTotalMBFromProc reads MemTotal from /proc/meminfo, the fallback
// when gopsutil cannot answer.
func memTotalMBFromProc() int64 {
	file, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return kb / 1024
	}
	return 0
}
