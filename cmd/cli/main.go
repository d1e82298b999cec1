package main

import (
	"fmt"
	"os"

	"github.com/adermis/adermis/cmd/cli/seed"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func init() {
	// A missing .env file is fine here too.
	_ = godotenv.Load()
	rootCmd.AddGroup(seed.Group)
	rootCmd.AddCommand(seed.Demo)
}

var rootCmd = &cobra.Command{
	Use:  "adermis-cli",
	Long: `Command line utilities for Adermis`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
