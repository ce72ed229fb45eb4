package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterscope/cscope/pkg/aws"
)

var awsCmd = &cobra.Command{
	Use:   "aws",
	Short: "Check for AWS and show recommended NCCL settings",
	Long: `Detect whether the host is an AWS EC2 instance and, if so, print the
recommended NCCL/EFA environment settings for distributed training.`,
	RunE: runAws,
}

func init() {
	rootCmd.AddCommand(awsCmd)
}

func runAws(cmd *cobra.Command, args []string) error {
	detector := aws.NewDetector()

	if !detector.IsAWS() {
		fmt.Println("This is NOT an AWS cluster.")
		return nil
	}

	fmt.Println("This is an AWS cluster.")
	settings, err := json.MarshalIndent(detector.NCCLSettings(), "", "  ")
	if err != nil {
		return fmt.Errorf("rendering NCCL settings: %w", err)
	}
	fmt.Println("\nRecommended NCCL settings:")
	fmt.Println(string(settings))
	return nil
}
