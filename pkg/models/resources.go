package models

// PartitionResource holds the aggregate hardware capacity of one Slurm
// partition. Values are per-node maxima across the partition's nodes,
// which is what job sizing cares about.
type PartitionResource struct {
	Name           string `json:"partition"`
	CPUCount       int    `json:"cpu_count"`
	MemTotalMB     int64  `json:"mem_total_mb"`
	GPUCount       int    `json:"gpu_count,omitempty"`
	GPUModel       string `json:"gpu_model,omitempty"`
	AvailableNodes int    `json:"available_nodes"`
	State          string `json:"state"`
}

// MemTotalGB converts the MB value using half-up integer rounding.
// GB figures are always derived from MemTotalMB, never probed separately.
func (p PartitionResource) MemTotalGB() int64 {
	return RoundMBToGB(p.MemTotalMB)
}

// IsUp reports whether the partition accepts jobs.
func (p PartitionResource) IsUp() bool {
	return p.State == "UP"
}

// NodeResource describes the local machine when no scheduler is present.
type NodeResource struct {
	Hostname   string `json:"hostname"`
	CPUCount   int    `json:"cpu_count"`
	MemTotalMB int64  `json:"mem_total_mb"`
	CPUModel   string `json:"cpu_model,omitempty"`
}

// MemTotalGB converts the MB value using half-up integer rounding.
func (n NodeResource) MemTotalGB() int64 {
	return RoundMBToGB(n.MemTotalMB)
}

// GPUDevice is one GPU model with its device count, either cluster-wide
// (from Slurm GRES) or on the local host (from nvidia-smi/rocm-smi).
type GPUDevice struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// ClusterEnvironment captures per-invocation detection results. It is
// computed once and passed explicitly to collectors rather than being
// re-probed as ambient state.
type ClusterEnvironment struct {
	SlurmAvailable bool              `json:"slurm_available"`
	CloudProvider  string            `json:"cloud_provider,omitempty"`
	CloudMetadata  map[string]string `json:"cloud_metadata,omitempty"`
}

// RoundMBToGB converts megabytes to gigabytes with half-up rounding.
// One rule for the whole tree so MB and GB figures can never disagree.
func RoundMBToGB(mb int64) int64 {
	return (mb + 512) / 1024
}
