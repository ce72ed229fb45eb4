package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clusterscope/cscope/pkg/cluster"
)

var (
	memPartition string
	memAvailable bool
)

var memCmd = &cobra.Command{
	Use:   "mem",
	Short: "Show memory per partition",
	Long: `Show total memory for each Slurm partition, or for the local node
when no scheduler is present. GB values are derived from the MB value
with half-up rounding.

With --available, memory is scaled to the configured usable percentage
(memory_percent, default 95) to leave headroom for the OS.`,
	RunE: runMem,
}

func init() {
	rootCmd.AddCommand(memCmd)
	memCmd.Flags().StringVar(&memPartition, "partition", "", "only report this partition")
	memCmd.Flags().BoolVar(&memAvailable, "available", false, "report application-usable memory instead of totals")
}

func runMem(cmd *cobra.Command, args []string) error {
	info := detectCluster(cmd)
	snap, err := info.Resources(cmd.Context(), memPartition)
	if err != nil {
		return err
	}
	if memAvailable {
		cluster.FormatAvailableMem(os.Stdout, snap, viper.GetFloat64("memory_percent"))
		return nil
	}
	cluster.FormatMem(os.Stdout, snap)
	return nil
}
