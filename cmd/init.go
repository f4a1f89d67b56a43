package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docsite/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docsite configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the site and writes the config file (default .docsite.yml).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("%d sections in %d groups. Run `docsite check` to verify them.\n", len(cfg.Sections()), len(cfg.Groups))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
