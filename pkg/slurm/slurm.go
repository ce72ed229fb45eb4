// Package slurm queries a Slurm scheduler through its command-line
// tools and normalizes the text output into resource records. All
// parsing lives behind the Client so other schedulers can be added as
// sibling adapters with the same shape.
package slurm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/clusterscope/cscope/pkg/execx"
	"github.com/clusterscope/cscope/pkg/logging"
	"github.com/clusterscope/cscope/pkg/models"
	"github.com/clusterscope/cscope/pkg/retry"
)

// ErrUnavailable means no reachable Slurm scheduler. Callers fall back
// to the local node silently.
var ErrUnavailable = errors.New("slurm scheduler unavailable")

// Client is the Slurm query adapter.
type Client struct {
	runner execx.Runner
	log    *logging.Logger
}

// NewClient creates a Slurm client using the given command runner.
func NewClient(runner execx.Runner, log *logging.Logger) *Client {
	return &Client{runner: runner, log: log}
}

// Available reports whether a working Slurm installation is reachable.
// `sinfo --version` is probed with bounded retries; any persistent
// failure means "not a Slurm cluster", never an error.
func (c *Client) Available(ctx context.Context) bool {
	if !c.runner.LookPath("sinfo") {
		return false
	}
	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		_, err := c.runner.Output(ctx, "sinfo", "--version")
		return err
	})
	if err != nil {
		c.log.Debug("sinfo probe failed", map[string]interface{}{"error": err.Error()})
		return false
	}
	return true
}

// ClusterName reads the cluster name from `scontrol show config`.
func (c *Client) ClusterName(ctx context.Context) (string, error) {
	out, err := c.runner.Output(ctx, "scontrol", "show", "config")
	if err != nil {
		return "", fmt.Errorf("reading cluster config: %w", err)
	}
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if ok && strings.TrimSpace(key) == "ClusterName" {
			return strings.TrimSpace(value), nil
		}
	}
	return "", fmt.Errorf("ClusterName not present in scontrol config output")
}

// Version returns the Slurm version string, e.g. "23.02.7".
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.runner.Output(ctx, "sinfo", "--version")
	if err != nil {
		return "", fmt.Errorf("reading slurm version: %w", err)
	}
	version := parseVersion(out)
	if version == "" {
		return "", fmt.Errorf("unexpected sinfo --version output %q", out)
	}
	return version, nil
}

// GPUInventory aggregates GPU models and counts across the cluster from
// `sinfo -h -o %G` GRES output. Lines without GPU entries are skipped.
// Models are keyed by upper-cased generation; per-node counts for the
// same model accumulate.
func (c *Client) GPUInventory(ctx context.Context) ([]models.GPUDevice, error) {
	out, err := c.runner.Output(ctx, "sinfo", "-h", "-o", "%G")
	if err != nil {
		return nil, fmt.Errorf("reading cluster GRES: %w", err)
	}

	counts := make(map[string]int)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		model, count := ParseGPUGres(line)
		if count == 0 {
			continue
		}
		if model == "" {
			model = "GPU"
		}
		counts[model] += count
	}

	inventory := make([]models.GPUDevice, 0, len(counts))
	for model, count := range counts {
		inventory = append(inventory, models.GPUDevice{Model: model, Count: count})
	}
	sort.Slice(inventory, func(i, j int) bool { return inventory[i].Model < inventory[j].Model })
	return inventory, nil
}

// HasGPUType reports whether the given GPU model exists in the cluster
// inventory. Matching is case-insensitive but exact: "A100" does not
// match "A100X", which avoids false positives between similarly named
// models.
func (c *Client) HasGPUType(ctx context.Context, model string) (bool, error) {
	inventory, err := c.GPUInventory(ctx)
	if err != nil {
		return false, err
	}
	want := strings.ToUpper(strings.TrimSpace(model))
	for _, gpu := range inventory {
		if gpu.Model == want {
			return true, nil
		}
	}
	return false, nil
}
