package main

import (
	"os"

	"github.com/spf13/cobra"
)

func configCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as YAML.

The output reflects defaults, the config file, .env and ARENA_*
variables, and can be saved as a starting snakearena.yaml.

Examples:
  snakearena config > snakearena.yaml
  ARENA_ADDR=:8080 snakearena config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}
