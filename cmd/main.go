// Command sunset-relay switches a relay on after sunset and off at a
// per-weekday time.
//
// @title        Sunset Relay API
// @version      1.0
// @description  Switches a relay on after sunset and off at a per-weekday time.
// @BasePath     /
package main

import (
	"fmt"
	"os"

	"sunset_relay/internal/config"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sunset-relay",
	Short: "Sunset relay controller",
	Long: `sunset-relay turns a relay ON a configurable number of minutes after
local sunset and OFF at a per-weekday time. Without arguments it runs the
controller and its HTTP configuration interface.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sunsetCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/config.yml)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
