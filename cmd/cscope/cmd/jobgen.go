package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clusterscope/cscope/pkg/jobgen"
)

var (
	jobGenType         string
	jobGenGPUs         int
	jobGenTasksPerNode int
	jobGenGPUsPerTask  int
	jobGenPartition    string
	jobGenFormat       string
)

var jobGenCmd = &cobra.Command{
	Use:   "job-gen",
	Short: "Generate a resource request for a job",
	Long: `Recommend Slurm resource-request parameters (partition, CPUs, memory,
GPUs) that fit the cluster's partitions. CPU and memory allocations are
sized proportionally to the requested share of a node's GPUs.

Fails with a non-zero exit when no partition satisfies the request.`,
	RunE: runJobGen,
}

func init() {
	rootCmd.AddCommand(jobGenCmd)
	jobGenCmd.Flags().StringVar(&jobGenType, "job-type", "task", "type of job: task or array")
	jobGenCmd.Flags().IntVar(&jobGenGPUs, "num-gpus", -1, "number of GPUs per node (task jobs)")
	jobGenCmd.Flags().IntVar(&jobGenTasksPerNode, "num-tasks-per-node", 1, "tasks per node (task jobs)")
	jobGenCmd.Flags().IntVar(&jobGenGPUsPerTask, "num-gpus-per-task", -1, "GPUs per task (array jobs)")
	jobGenCmd.Flags().StringVar(&jobGenPartition, "partition", "", "restrict the request to this partition")
	jobGenCmd.Flags().StringVar(&jobGenFormat, "format", "json", "output format: json, yaml, sbatch, srun, submitit")
}

func runJobGen(cmd *cobra.Command, args []string) error {
	req := jobgen.Request{
		JobType:   jobgen.JobType(jobGenType),
		Partition: jobGenPartition,
	}
	switch req.JobType {
	case jobgen.TypeTask:
		if jobGenGPUs < 0 {
			return errors.New("must specify --num-gpus for task jobs")
		}
		req.NumGPUs = jobGenGPUs
		req.NumTasksPerNode = jobGenTasksPerNode
	case jobgen.TypeArray:
		if jobGenGPUsPerTask < 0 {
			return errors.New("must specify --num-gpus-per-task for array jobs")
		}
		req.NumGPUsPerTask = jobGenGPUsPerTask
	default:
		return fmt.Errorf("unknown job type %q, see --help", jobGenType)
	}

	info := detectCluster(cmd)
	snap, err := info.Resources(cmd.Context(), "")
	if err != nil {
		return err
	}
	if !snap.FromScheduler() {
		return errors.New("job-gen requires a Slurm cluster, none detected")
	}

	thresholds := jobgen.Thresholds{
		MemoryPercent:  viper.GetFloat64("memory_percent"),
		MinCPUsPerTask: viper.GetInt("min_cpus_per_task"),
	}
	requirements, err := jobgen.Generate(snap.Partitions, req, thresholds)
	if err != nil {
		return err
	}

	out, err := requirements.Render(jobgen.Format(jobGenFormat))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
