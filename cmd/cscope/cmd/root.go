package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clusterscope/cscope/pkg/cluster"
	"github.com/clusterscope/cscope/pkg/execx"
	"github.com/clusterscope/cscope/pkg/logging"
)

var (
	cfgFile string
	verbose bool
	logJSON bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cscope",
	Short: "Query HPC cluster and host resource information",
	Long: `cscope is a command line tool to query cluster and job metadata:
CPU counts, memory, GPU inventory, Slurm partition information and
AWS/NCCL environment detection. Off-cluster it reports the local node.`,
	SilenceUsage: true,
}

// Execute runs the root command with the given context. Subcommand
// errors print to stderr and map to a non-zero exit in main.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
}

// initConfig reads in config file and CSCOPE_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".cscope"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("cscope")
	viper.AutomaticEnv()

	// Sizing knobs are configuration, not constants in the algorithms.
	viper.SetDefault("probe_timeout", "5s")
	viper.SetDefault("memory_percent", 95.0)
	viper.SetDefault("min_cpus_per_task", 1)

	if err := viper.ReadInConfig(); err == nil {
		newLogger().Debug("config loaded", map[string]interface{}{"file": viper.ConfigFileUsed()})
	}
}

func newLogger() *logging.Logger {
	level := logging.WARN
	if verbose {
		level = logging.DEBUG
	}
	return logging.New(level, logJSON)
}

func probeTimeout() time.Duration {
	timeout := viper.GetDuration("probe_timeout")
	if timeout <= 0 {
		timeout = execx.DefaultTimeout
	}
	return timeout
}

// detectCluster wires the runner and logger and performs the one-shot
// environment detection every subcommand starts from.
func detectCluster(cmd *cobra.Command) *cluster.Info {
	runner := &execx.SystemRunner{Timeout: probeTimeout()}
	return cluster.Detect(cmd.Context(), runner, newLogger())
}
