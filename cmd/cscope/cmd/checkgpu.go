package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clusterscope/cscope/pkg/cluster"
)

var checkGpuCmd = &cobra.Command{
	Use:   "check-gpu <model>",
	Short: "Check whether a GPU type exists",
	Long: `Report whether a specific GPU type (e.g. A100, MI300X) exists in the
cluster, or on the local host off-cluster. The match is
case-insensitive but exact. Exits 0 whether or not the type is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckGpu,
}

func init() {
	rootCmd.AddCommand(checkGpuCmd)
}

func runCheckGpu(cmd *cobra.Command, args []string) error {
	info := detectCluster(cmd)
	found := info.HasGPUType(cmd.Context(), args[0])
	cluster.FormatCheckGPU(os.Stdout, args[0], found)
	return nil
}
