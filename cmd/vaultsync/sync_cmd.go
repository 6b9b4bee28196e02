package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvault/vaultsync/internal/client"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a single sync attempt and exit",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromViper()
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true

		c, err := client.New(cfg)
		if err != nil {
			return err
		}

		res, err := c.RunOnce(cmd.Context())
		if err != nil {
			fmt.Printf("%s %v\n", red("sync failed:"), err)
			return err
		}

		fmt.Printf("%s outcome=%s uploaded=%t downloaded=%t\n", green("sync ok:"), res.Outcome, res.Uploaded, res.Downloaded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
