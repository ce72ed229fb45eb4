package cluster

import (
	"fmt"
	"io"

	"github.com/clusterscope/cscope/pkg/models"
)

// The formatters are pure: records in, text out. Field order is fixed
// and numbers are printed without locale separators so scripts can
// parse the output.

// FormatCPUs renders the cpus report.
func FormatCPUs(w io.Writer, snap Snapshot) {
	fmt.Fprintln(w, "CPU information:")
	if snap.Local != nil {
		fmt.Fprintf(w, "cpu_count: %d\n", snap.Local.CPUCount)
		return
	}
	for _, p := range snap.Partitions {
		fmt.Fprintf(w, "partition: %s, cpu_count: %d\n", p.Name, p.CPUCount)
	}
}

// FormatMem renders the mem report. GB values are derived from the MB
// value through models.RoundMBToGB and nothing else.
func FormatMem(w io.Writer, snap Snapshot) {
	fmt.Fprintln(w, "Mem information:")
	if snap.Local != nil {
		fmt.Fprintf(w, "mem_total_MB: %d, mem_total_GB: %d\n",
			snap.Local.MemTotalMB, snap.Local.MemTotalGB())
		return
	}
	for _, p := range snap.Partitions {
		fmt.Fprintf(w, "partition: %s, mem_total_MB: %d, mem_total_GB: %d\n",
			p.Name, p.MemTotalMB, p.MemTotalGB())
	}
}

// FormatAvailableMem renders the mem report scaled to the configured
// usable percentage of total memory.
func FormatAvailableMem(w io.Writer, snap Snapshot, percentage float64) {
	fmt.Fprintln(w, "Mem information:")
	if snap.Local != nil {
		mb := AvailableMB(snap.Local.MemTotalMB, percentage)
		fmt.Fprintf(w, "mem_available_MB: %d, mem_available_GB: %d\n", mb, models.RoundMBToGB(mb))
		return
	}
	for _, p := range snap.Partitions {
		mb := AvailableMB(p.MemTotalMB, percentage)
		fmt.Fprintf(w, "partition: %s, mem_available_MB: %d, mem_available_GB: %d\n",
			p.Name, mb, models.RoundMBToGB(mb))
	}
}

// AvailableMB applies the usable-memory percentage to a total.
func AvailableMB(totalMB int64, percentage float64) int64 {
	return int64(float64(totalMB) * percentage / 100.0)
}

// FormatGPUMode selects which slice of GPU information to print.
type FormatGPUMode int

const (
	// GPUFull prints vendor plus per-model counts.
	GPUFull FormatGPUMode = iota
	// GPUCounts prints per-model counts only.
	GPUCounts
	// GPUGenerations prints the model keys only.
	GPUGenerations
	// GPUVendor prints the vendor line only.
	GPUVendor
)

// FormatGPUs renders the gpus report. The inventory is already sorted
// by model key.
func FormatGPUs(w io.Writer, inventory []models.GPUDevice, mode FormatGPUMode) {
	vendor := VendorOf(inventory)

	switch mode {
	case GPUVendor:
		fmt.Fprintf(w, "Primary GPU vendor: %s\n", vendor)
	case GPUCounts:
		if len(inventory) == 0 {
			fmt.Fprintln(w, "No GPUs found")
			return
		}
		fmt.Fprintln(w, "GPU counts by type:")
		for _, gpu := range inventory {
			fmt.Fprintf(w, "  %s: %d\n", gpu.Model, gpu.Count)
		}
	case GPUGenerations:
		if len(inventory) == 0 {
			fmt.Fprintln(w, "No GPUs found")
			return
		}
		fmt.Fprintln(w, "GPU generations available:")
		for _, gpu := range inventory {
			fmt.Fprintf(w, "- %s\n", gpu.Model)
		}
	default:
		fmt.Fprintf(w, "GPU vendor: %s\n", vendor)
		if len(inventory) == 0 {
			fmt.Fprintln(w, "No GPUs found")
			return
		}
		fmt.Fprintln(w, "GPU information:")
		for _, gpu := range inventory {
			fmt.Fprintf(w, "  %s: %d\n", gpu.Model, gpu.Count)
		}
	}
}

// FormatCheckGPU renders the check-gpu verdict.
func FormatCheckGPU(w io.Writer, model string, found bool) {
	if found {
		fmt.Fprintf(w, "GPU type %s is available in the cluster.\n", model)
	} else {
		fmt.Fprintf(w, "GPU type %s is NOT available in the cluster.\n", model)
	}
}
