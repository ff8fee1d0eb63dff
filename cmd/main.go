package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stock-sentiment-tracker",
	Short: "A CLI for managing the stock sentiment tracker services",
	Long:  `Stock Sentiment Tracker correlates news sentiment with daily price movement per ticker. See the worker, scheduler, api and migrate binaries for the runnable services.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
