package jobgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/clusterscope/cscope/pkg/models"
)

// Format names an output renderer for Requirements.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatSbatch   Format = "sbatch"
	FormatSrun     Format = "srun"
	FormatSubmitit Format = "submitit"
)

// Render serializes the requirements in the requested format.
func (r Requirements) Render(format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(data), "\n"), nil
	case FormatSbatch:
		return r.renderSbatch(), nil
	case FormatSrun:
		return r.renderSrun(), nil
	case FormatSubmitit:
		return r.renderSubmitit(), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// renderSbatch emits #SBATCH header directives for a batch script.
func (r Requirements) renderSbatch() string {
	lines := []string{
		fmt.Sprintf("#SBATCH --partition=%s", r.Partition),
		fmt.Sprintf("#SBATCH --cpus-per-task=%d", r.CPUsPerTask),
		fmt.Sprintf("#SBATCH --mem=%dM", r.MemoryMB),
		fmt.Sprintf("#SBATCH --ntasks-per-node=%d", r.TasksPerNode),
	}
	if r.GPUsPerNode > 0 {
		lines = append(lines, fmt.Sprintf("#SBATCH --gpus-per-node=%d", r.GPUsPerNode))
	}
	return strings.Join(lines, "\n")
}

// renderSrun emits a one-line flag string for interactive use.
func (r Requirements) renderSrun() string {
	flags := []string{
		fmt.Sprintf("--partition=%s", r.Partition),
		fmt.Sprintf("--cpus-per-task=%d", r.CPUsPerTask),
		fmt.Sprintf("--mem=%dM", r.MemoryMB),
		fmt.Sprintf("--ntasks-per-node=%d", r.TasksPerNode),
	}
	if r.GPUsPerNode > 0 {
		flags = append(flags, fmt.Sprintf("--gpus-per-node=%d", r.GPUsPerNode))
	}
	return "srun " + strings.Join(flags, " ")
}

// renderSubmitit emits keyword parameters for submitit's
// AutoExecutor.update_parameters.
func (r Requirements) renderSubmitit() string {
	lines := []string{
		"executor.update_parameters(",
		fmt.Sprintf("    slurm_partition=%q,", r.Partition),
		fmt.Sprintf("    cpus_per_task=%d,", r.CPUsPerTask),
		fmt.Sprintf("    mem_gb=%d,", models.RoundMBToGB(r.MemoryMB)),
		fmt.Sprintf("    tasks_per_node=%d,", r.TasksPerNode),
	}
	if r.GPUsPerNode > 0 {
		lines = append(lines, fmt.Sprintf("    gpus_per_node=%d,", r.GPUsPerNode))
	}
	lines = append(lines, ")")
	return strings.Join(lines, "\n")
}
