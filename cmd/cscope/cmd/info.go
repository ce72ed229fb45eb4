package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show a general cluster summary",
	Long: `Show the cluster name, scheduler version and a partition resource
summary. Off-cluster the summary covers the local node.`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	info := detectCluster(cmd)
	ctx := cmd.Context()

	fmt.Printf("Cluster Name: %s\n", info.ClusterName(ctx))
	fmt.Printf("Slurm Version: %s\n", info.SlurmVersion(ctx))

	snap, err := info.Resources(ctx, "")
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	if snap.Local != nil {
		table.Header("Host", "CPUs", "Mem (MB)", "Mem (GB)")
		table.Append(
			snap.Local.Hostname,
			strconv.Itoa(snap.Local.CPUCount),
			strconv.FormatInt(snap.Local.MemTotalMB, 10),
			strconv.FormatInt(snap.Local.MemTotalGB(), 10),
		)
		table.Render()
		return nil
	}

	table.Header("Partition", "State", "CPUs/Node", "Mem/Node (MB)", "GPUs/Node", "GPU Model", "Avail Nodes")
	for _, p := range snap.Partitions {
		gpuModel := p.GPUModel
		if gpuModel == "" && p.GPUCount > 0 {
			gpuModel = "GPU"
		}
		table.Append(
			p.Name,
			p.State,
			strconv.Itoa(p.CPUCount),
			strconv.FormatInt(p.MemTotalMB, 10),
			strconv.Itoa(p.GPUCount),
			gpuModel,
			strconv.Itoa(p.AvailableNodes),
		)
	}
	table.Render()
	return nil
}
