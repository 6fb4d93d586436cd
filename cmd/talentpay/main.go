package main

import (
	"context"
	"fmt"
	"os"
	"talentpay/internal/structures"

	"github.com/spf13/cobra"
)

var flags structures.CliFlags

var rootCmd = &cobra.Command{
	Use:   "talentpay",
	Short: "Payout engine and API for studio talents.",
	Long: `talentpay computes what each talent is owed for a billing period from
platform production, the talent's share and the period discounts, and serves
the result over an authenticated HTTP API.

Without a subcommand it starts the API server.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "enable debug mode")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(computeCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
