// Package cluster merges the scheduler and local-node probes into one
// uniform query surface. Every query produces exactly one of a
// per-partition record set or a single local-node record: when Slurm is
// unreachable the local machine answers, deterministically.
package cluster

import (
	"context"
	"strings"

	"github.com/clusterscope/cscope/pkg/aws"
	"github.com/clusterscope/cscope/pkg/execx"
	"github.com/clusterscope/cscope/pkg/localnode"
	"github.com/clusterscope/cscope/pkg/logging"
	"github.com/clusterscope/cscope/pkg/models"
	"github.com/clusterscope/cscope/pkg/slurm"
)

// LocalClusterName is reported when no scheduler is present.
const LocalClusterName = "local-node"

// Snapshot is one query result. Exactly one of Partitions and Local is
// populated.
type Snapshot struct {
	Partitions []models.PartitionResource
	Local      *models.NodeResource
}

// FromScheduler reports whether the snapshot came from Slurm.
func (s Snapshot) FromScheduler() bool {
	return s.Local == nil
}

// Info is the unified query engine. Environment detection runs once in
// Detect and is carried as a value; collectors never re-probe it.
type Info struct {
	env   models.ClusterEnvironment
	slurm *slurm.Client
	local *localnode.Probe
	log   *logging.Logger
}

// Detect probes the environment once and returns the query engine.
func Detect(ctx context.Context, runner execx.Runner, log *logging.Logger) *Info {
	slurmClient := slurm.NewClient(runner, log)
	awsDetector := aws.NewDetector()

	env := models.ClusterEnvironment{
		SlurmAvailable: slurmClient.Available(ctx),
	}
	if awsDetector.IsAWS() {
		env.CloudProvider = "aws"
		env.CloudMetadata = awsDetector.Metadata()
	}
	log.Debug("environment detected", map[string]interface{}{
		"slurm": env.SlurmAvailable,
		"cloud": env.CloudProvider,
	})

	return &Info{
		env:   env,
		slurm: slurmClient,
		local: localnode.NewProbe(runner, log),
		log:   log,
	}
}

// Environment returns the detection results for this invocation.
func (i *Info) Environment() models.ClusterEnvironment {
	return i.env
}

// Resources returns the per-partition record set, or the local node
// when no scheduler is reachable. A partition filter that matches
// nothing yields an empty partition list, which is success.
func (i *Info) Resources(ctx context.Context, filter string) (Snapshot, error) {
	if i.env.SlurmAvailable {
		partitions, err := i.slurm.Partitions(ctx, filter)
		if err == nil {
			return Snapshot{Partitions: partitions}, nil
		}
		// A scheduler that answered the availability probe but fails the
		// real query is treated as unavailable; fall through to local.
		i.log.Warn("partition query failed, falling back to local node", map[string]interface{}{
			"error": err.Error(),
		})
	}
	node := i.local.Resources(ctx)
	return Snapshot{Local: &node}, nil
}

// ClusterName returns the Slurm cluster name, or "local-node".
func (i *Info) ClusterName(ctx context.Context) string {
	if i.env.SlurmAvailable {
		if name, err := i.slurm.ClusterName(ctx); err == nil {
			return name
		}
	}
	return LocalClusterName
}

// SlurmVersion returns the scheduler version, or "0" off-cluster.
func (i *Info) SlurmVersion(ctx context.Context) string {
	if i.env.SlurmAvailable {
		if version, err := i.slurm.Version(ctx); err == nil {
			return version
		}
	}
	return "0"
}

// GPUInventory lists GPU models and counts, cluster-wide on Slurm and
// host-local otherwise.
func (i *Info) GPUInventory(ctx context.Context) []models.GPUDevice {
	if i.env.SlurmAvailable {
		if inventory, err := i.slurm.GPUInventory(ctx); err == nil {
			return inventory
		}
	}
	return i.local.GPUInventory(ctx)
}

// HasGPUType reports whether the given GPU model exists. The match is
// case-insensitive but exact against inventory keys; substring matching
// would conflate similarly named models.
func (i *Info) HasGPUType(ctx context.Context, model string) bool {
	want := strings.ToUpper(strings.TrimSpace(model))
	for _, gpu := range i.GPUInventory(ctx) {
		if gpu.Model == want {
			return true
		}
	}
	return false
}

// GPUVendor names the primary GPU vendor in the inventory.
func (i *Info) GPUVendor(ctx context.Context) string {
	return VendorOf(i.GPUInventory(ctx))
}

// VendorOf infers the vendor from inventory model keys.
func VendorOf(inventory []models.GPUDevice) string {
	if len(inventory) == 0 {
		return "none"
	}
	for _, gpu := range inventory {
		if strings.HasPrefix(gpu.Model, "MI") {
			return "AMD"
		}
	}
	return "NVIDIA"
}
