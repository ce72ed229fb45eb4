package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clusterscope/cscope/pkg/cluster"
)

var (
	gpusGenerations bool
	gpusCounts      bool
	gpusVendor      bool
)

var gpusCmd = &cobra.Command{
	Use:   "gpus",
	Short: "Show GPU inventory",
	Long: `List GPU models and device counts, cluster-wide from Slurm GRES data
or from the local host when no scheduler is present.`,
	RunE: runGpus,
}

func init() {
	rootCmd.AddCommand(gpusCmd)
	gpusCmd.Flags().BoolVar(&gpusGenerations, "generations", false, "show only GPU generations")
	gpusCmd.Flags().BoolVar(&gpusCounts, "counts", false, "show only GPU counts by type")
	gpusCmd.Flags().BoolVar(&gpusVendor, "vendor", false, "show GPU vendor information")
}

func runGpus(cmd *cobra.Command, args []string) error {
	info := detectCluster(cmd)
	inventory := info.GPUInventory(cmd.Context())

	mode := cluster.GPUFull
	switch {
	case gpusVendor:
		mode = cluster.GPUVendor
	case gpusCounts:
		mode = cluster.GPUCounts
	case gpusGenerations:
		mode = cluster.GPUGenerations
	}
	cluster.FormatGPUs(os.Stdout, inventory, mode)
	return nil
}
