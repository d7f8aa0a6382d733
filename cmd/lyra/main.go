package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "lyra",
	Short:        "Lyra keeps track and radio metadata and follows what other players are playing.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newRunCmd(), newShowCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
