// Package cmd contains the ledger client commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var url string

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8280", "Url of the ledger service.")
}

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Client for the fleet telemetry ledger",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
