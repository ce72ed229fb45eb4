package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clusterscope/cscope/pkg/cluster"
)

var cpusPartition string

var cpusCmd = &cobra.Command{
	Use:   "cpus",
	Short: "Show CPU counts per partition",
	Long: `Show the CPU core count for each Slurm partition, or for the local
node when no scheduler is present. A partition filter that matches
nothing prints an empty report and exits 0.`,
	RunE: runCpus,
}

func init() {
	rootCmd.AddCommand(cpusCmd)
	cpusCmd.Flags().StringVar(&cpusPartition, "partition", "", "only report this partition")
}

func runCpus(cmd *cobra.Command, args []string) error {
	info := detectCluster(cmd)
	snap, err := info.Resources(cmd.Context(), cpusPartition)
	if err != nil {
		return err
	}
	cluster.FormatCPUs(os.Stdout, snap)
	return nil
}
