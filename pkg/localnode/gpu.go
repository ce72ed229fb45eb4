package localnode

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/clusterscope/cscope/pkg/models"
)

// generationRe pulls a GPU generation token out of a full product name,
// e.g. "NVIDIA A100-SXM4-80GB" -> "A100", "AMD Instinct MI300X" ->
// "MI300X". Product names that carry no recognizable token are kept
// whole so they still show up in the inventory.
var generationRe = regexp.MustCompile(`\b(MI\d{2,3}[A-Z]?|[AHVPBLT]\d{2,3}|RTX ?\d{3,4}(?: TI)?|GTX ?\d{3,4}(?: TI)?)\b`)

// GPUInventory enumerates local GPU devices. nvidia-smi is tried first,
// then rocm-smi; a host with neither simply has no GPUs. Counts are
// keyed by generation so they line up with cluster GRES inventory.
func (p *Probe) GPUInventory(ctx context.Context) []models.GPUDevice {
	names := p.nvidiaGPUNames(ctx)
	if len(names) == 0 {
		names = p.rocmGPUNames(ctx)
	}

	counts := make(map[string]int)
	for _, name := range names {
		counts[NormalizeModel(name)]++
	}

	inventory := make([]models.GPUDevice, 0, len(counts))
	for model, count := range counts {
		inventory = append(inventory, models.GPUDevice{Model: model, Count: count})
	}
	sort.Slice(inventory, func(i, j int) bool { return inventory[i].Model < inventory[j].Model })
	return inventory
}

// HasGPUType reports whether the given model exists on this host.
// Case-insensitive exact match on the normalized model key, same policy
// as the cluster-side check.
func (p *Probe) HasGPUType(ctx context.Context, model string) bool {
	want := strings.ToUpper(strings.TrimSpace(model))
	for _, gpu := range p.GPUInventory(ctx) {
		if gpu.Model == want {
			return true
		}
	}
	return false
}

// NormalizeModel maps a vendor product name to its generation key.
func NormalizeModel(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if m := generationRe.FindString(upper); m != "" {
		return strings.ReplaceAll(m, " ", "")
	}
	return upper
}

func (p *Probe) nvidiaGPUNames(ctx context.Context) []string {
	if !p.runner.LookPath("nvidia-smi") {
		return nil
	}
	out, err := p.runner.Output(ctx, "nvidia-smi", "--query-gpu=name", "--format=csv,noheader")
	if err != nil {
		p.log.Debug("nvidia-smi probe failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return nonEmptyLines(out)
}

func (p *Probe) rocmGPUNames(ctx context.Context) []string {
	if !p.runner.LookPath("rocm-smi") {
		return nil
	}
	out, err := p.runner.Output(ctx, "rocm-smi", "--showproductname", "--csv")
	if err != nil {
		p.log.Debug("rocm-smi probe failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	// CSV rows look like "card0,AMD Instinct MI300X OAM,...". The header
	// row and non-card rows are skipped.
	var names []string
	for _, line := range nonEmptyLines(out) {
		fields := strings.Split(line, ",")
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "card") {
			continue
		}
		names = append(names, fields[1])
	}
	return names
}

func nonEmptyLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
