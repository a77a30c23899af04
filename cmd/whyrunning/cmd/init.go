package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jrcribb/whyrunning/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Write the default configuration to .whyrunning.yaml in the current
directory. Every command picks the file up; values can be overridden
per run with WHYRUNNING_* environment variables or flags.`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
}

func runInit(_ *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	path := filepath.Join(cwd, config.DefaultFileName)
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("configuration already exists, use --force to overwrite")
	}

	if err := config.Save(config.Default(), path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Println("Wrote", config.DefaultFileName)
	return nil
}
