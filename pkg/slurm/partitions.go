package slurm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/clusterscope/cscope/pkg/models"
)

// nodeQueryWorkers caps concurrent `scontrol show node` invocations
// when expanding partitions into per-node resources.
const nodeQueryWorkers = 4

type nodeAggregate struct {
	maxCPUs   int
	maxMemMB  int64
	maxGPUs   int
	gpuModel  string
	available int
}

// Partitions lists partition resources in scheduler-reported order.
// A non-empty filter keeps only the partition with that name; an
// unmatched filter yields an empty slice, not an error, so callers can
// present "nothing matched" uniformly.
//
// Each partition's node set is queried separately; those sub-queries
// run concurrently and are merged back in the original partition order.
func (c *Client) Partitions(ctx context.Context, filter string) ([]models.PartitionResource, error) {
	// A scheduler that answered the detection probe can still vanish
	// before the real query; that is an availability failure, not a
	// parse failure.
	out, err := c.runner.Output(ctx, "scontrol", "show", "partition", "-o")
	if err != nil {
		return nil, fmt.Errorf("%w: listing partitions: %v", ErrUnavailable, err)
	}

	type pending struct {
		resource models.PartitionResource
		nodeSpec string
	}

	var queue []pending
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		record := parseKVRecord(line)
		name, ok := record["PartitionName"]
		if !ok {
			c.log.Debug("skipping malformed partition record", map[string]interface{}{"line": line})
			continue
		}
		if filter != "" && name != filter {
			continue
		}
		nodeSpec := record["Nodes"]
		if nodeSpec == "(null)" {
			nodeSpec = ""
		}
		state := record["State"]
		if state == "" {
			state = "UNKNOWN"
		}
		queue = append(queue, pending{
			resource: models.PartitionResource{Name: name, State: state},
			nodeSpec: nodeSpec,
		})
	}

	// Expand node specs concurrently, results slotted by index so the
	// scheduler's partition order survives regardless of completion order.
	results := make([]models.PartitionResource, len(queue))
	sem := make(chan struct{}, nodeQueryWorkers)
	var wg sync.WaitGroup
	for i, p := range queue {
		results[i] = p.resource
		if p.nodeSpec == "" {
			continue
		}
		wg.Add(1)
		go func(i int, spec string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			agg := c.nodeResources(ctx, spec)
			results[i].CPUCount = agg.maxCPUs
			results[i].MemTotalMB = agg.maxMemMB
			results[i].GPUCount = agg.maxGPUs
			results[i].GPUModel = agg.gpuModel
			results[i].AvailableNodes = agg.available
		}(i, p.nodeSpec)
	}
	wg.Wait()

	return results, nil
}

// nodeResources expands a node spec via `scontrol show node <spec> -o`
// and aggregates per-node maxima. scontrol can exit non-zero while
// still emitting the records we need, so exit errors with output are
// tolerated; malformed lines are skipped.
func (c *Client) nodeResources(ctx context.Context, nodeSpec string) nodeAggregate {
	out, err := c.runner.Output(ctx, "scontrol", "show", "node", nodeSpec, "-o")
	if err != nil && out == "" {
		c.log.Debug("node query failed", map[string]interface{}{
			"nodes": nodeSpec,
			"error": err.Error(),
		})
		return nodeAggregate{}
	}

	var agg nodeAggregate
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		record := parseKVRecord(line)
		if len(record) == 0 {
			continue
		}

		if nodeIsAvailable(record["State"]) {
			agg.available++
		}

		if cpus, err := strconv.Atoi(record["CPUTot"]); err == nil && cpus > agg.maxCPUs {
			agg.maxCPUs = cpus
		}
		if mem, err := strconv.ParseInt(record["RealMemory"], 10, 64); err == nil && mem > agg.maxMemMB {
			agg.maxMemMB = mem
		}
		model, count := ParseGPUGres(record["Gres"])
		if count > agg.maxGPUs {
			agg.maxGPUs = count
			agg.gpuModel = model
		}
	}
	return agg
}
