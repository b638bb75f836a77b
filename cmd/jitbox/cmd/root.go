package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jitbox",
	Short: "x64jit example runner",
	Long:  `jitbox assembles and runs the guest programs shipped under examples/.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "examples",
		Title: "Guest programs",
	})

	rootCmd.AddCommand(fibCmd)
	rootCmd.AddCommand(bfCmd)
	rootCmd.AddCommand(tinyvmCmd)
}
