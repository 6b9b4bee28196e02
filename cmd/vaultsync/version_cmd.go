package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvault/vaultsync/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show detailed version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.DetailedWithApp())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
