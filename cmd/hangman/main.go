package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dcrodman/hangman/internal/core"
)

var ConfigFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:   "hangman",
		Short: "Hangman game server and related tools",
		Run:   ServerCommand,
	}
	rootCmd.PersistentFlags().StringVarP(&ConfigFlag, "config", "c", "", "Path to the directory containing config.yaml")

	playCmd.Flags().StringVarP(&AddressFlag, "address", "a", "", "Address of the server (defaults to the configured port on localhost)")
	resultsCmd.Flags().IntVarP(&LimitFlag, "limit", "n", 20, "Number of results to show")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(resultsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads the config from ConfigFlag and changes to that directory so that
// any relative paths in the config file will resolve.
func loadConfig() *core.Config {
	cfg, err := core.LoadConfig(ConfigFlag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if ConfigFlag != "" {
		if err := os.Chdir(ConfigFlag); err != nil {
			fmt.Println("error changing to config directory:", err)
			os.Exit(1)
		}
	}
	return cfg
}
