// Package jobgen recommends Slurm resource-request parameters that fit
// the detected cluster's partitions. When GPUs are requested, CPU cores
// and memory are sized as the job's share of the node: a job taking
// half a node's GPUs gets half its cores and memory.
package jobgen

import (
	"errors"
	"fmt"

	"github.com/clusterscope/cscope/pkg/models"
)

// ErrNoSuitablePartition means no UP partition satisfies the request.
// It is surfaced to the user with a non-zero exit, never defaulted away.
var ErrNoSuitablePartition = errors.New("no suitable partition for requested resources")

// JobType selects the request shape.
type JobType string

const (
	// TypeTask is a single multi-task job sized by total GPUs per node.
	TypeTask JobType = "task"
	// TypeArray is an array job sized by GPUs per array task.
	TypeArray JobType = "array"
)

// Request describes what the user wants to run.
type Request struct {
	JobType         JobType
	NumGPUs         int    // task jobs: GPUs per node
	NumTasksPerNode int    // task jobs: tasks sharing the node
	NumGPUsPerTask  int    // array jobs: GPUs per array task
	Partition       string // optional: restrict to this partition
}

// Thresholds are sizing knobs. They come from configuration, not from
// constants buried in the algorithm.
type Thresholds struct {
	// MemoryPercent is the share of node memory handed to applications,
	// leaving headroom for the OS and filesystem cache.
	MemoryPercent float64
	// MinCPUsPerTask floors the derived CPU allocation.
	MinCPUsPerTask int
}

// DefaultThresholds mirror the configuration defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{MemoryPercent: 95.0, MinCPUsPerTask: 1}
}

// Requirements is the recommended resource request.
type Requirements struct {
	Partition    string `json:"partition" yaml:"partition"`
	CPUsPerTask  int    `json:"cpus_per_task" yaml:"cpus_per_task"`
	MemoryMB     int64  `json:"memory_mb" yaml:"memory_mb"`
	GPUsPerNode  int    `json:"gpus_per_node" yaml:"gpus_per_node"`
	TasksPerNode int    `json:"tasks_per_node" yaml:"tasks_per_node"`
}

// Generate picks the first UP partition (scheduler order) that can hold
// the request and derives the proportional CPU/memory allocation.
func Generate(partitions []models.PartitionResource, req Request, th Thresholds) (Requirements, error) {
	gpusPerNode, tasksPerNode, err := normalize(req)
	if err != nil {
		return Requirements{}, err
	}

	for _, p := range partitions {
		if req.Partition != "" && p.Name != req.Partition {
			continue
		}
		if !p.IsUp() {
			continue
		}
		if gpusPerNode > p.GPUCount {
			continue
		}
		if p.CPUCount == 0 {
			continue
		}
		return size(p, gpusPerNode, tasksPerNode, th), nil
	}

	if req.Partition != "" {
		return Requirements{}, fmt.Errorf("partition %q: %w", req.Partition, ErrNoSuitablePartition)
	}
	return Requirements{}, ErrNoSuitablePartition
}

func normalize(req Request) (gpusPerNode, tasksPerNode int, err error) {
	switch req.JobType {
	case TypeTask:
		if req.NumGPUs < 0 {
			return 0, 0, fmt.Errorf("num-gpus must be >= 0, got %d", req.NumGPUs)
		}
		tasksPerNode = req.NumTasksPerNode
		if tasksPerNode <= 0 {
			tasksPerNode = 1
		}
		return req.NumGPUs, tasksPerNode, nil
	case TypeArray:
		if req.NumGPUsPerTask < 0 {
			return 0, 0, fmt.Errorf("num-gpus-per-task must be >= 0, got %d", req.NumGPUsPerTask)
		}
		return req.NumGPUsPerTask, 1, nil
	default:
		return 0, 0, fmt.Errorf("unknown job type %q", req.JobType)
	}
}

// size derives the per-task allocation from the partition's per-node
// capacity. With GPUs the job gets its GPU share of the node; without,
// the whole node divided across tasks.
func size(p models.PartitionResource, gpusPerNode, tasksPerNode int, th Thresholds) Requirements {
	share := 1.0
	if gpusPerNode > 0 && p.GPUCount > 0 {
		share = float64(gpusPerNode) / float64(p.GPUCount)
	}

	cpus := int(float64(p.CPUCount) * share / float64(tasksPerNode))
	if cpus < th.MinCPUsPerTask {
		cpus = th.MinCPUsPerTask
	}
	memMB := int64(float64(p.MemTotalMB) * share * th.MemoryPercent / 100.0)

	return Requirements{
		Partition:    p.Name,
		CPUsPerTask:  cpus,
		MemoryMB:     memMB,
		GPUsPerNode:  gpusPerNode,
		TasksPerNode: tasksPerNode,
	}
}
