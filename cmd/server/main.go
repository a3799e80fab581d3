package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"liyu1981.xyz/safezone-service/pkg/config"
)

var (
	envFile string
	v       = config.New()

	rootCmd = &cobra.Command{
		Use:   "safezone",
		Short: "Safe-zone geofence alert service",
		Long: `Receives wearable location readings, checks them against the
caregiver-defined safe zones and alerts caregivers by email and WhatsApp
when the patient leaves every zone.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(envFile)
		},
		// serve is the default
		RunE: runServe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional .env file to load before reading the environment")
	addServeFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
