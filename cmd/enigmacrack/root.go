package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"enigmacrack/internal/config"
)

var (
	cfgFile string
	cfg     config.Config
	v       *viper.Viper
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "enigmacrack",
	Short: "Simulate and cryptanalyze 3-rotor German Naval Enigma M3 traffic.",
	Long: `enigmacrack simulates an M3 Enigma machine and, given a ciphertext
believed to be an M3 message with no known key material, searches for the
wheel order, ring settings, rotor positions, and plugboard wiring most
likely to have produced it, using Gillogly's hill-climbing method as
refined by Williams.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main. It only needs to happen once
// to rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	defaults := config.Defaults()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.enigmacrack.yaml)")
	rootCmd.PersistentFlags().String("data-dir", defaults.DataDir, "directory holding bigram/trigram/quadgram tables")
	rootCmd.PersistentFlags().Int("workers", defaults.Workers, "goroutine pool size for the parallel search (0 means runtime.NumCPU())")
	rootCmd.PersistentFlags().String("reflector", defaults.Reflector, "reflector wiring used by encrypt (\"B\" or \"C\"); crack always uses B")
}

// initConfig reads in config file and ENV variables if set, then binds the
// persistent flags on top so command-line overrides always win.
func initConfig() {
	loaded, vv, err := config.Load(cfgFile)
	cobra.CheckErr(err)
	cfg, v = loaded, vv

	cobra.CheckErr(v.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir")))
	cobra.CheckErr(v.BindPFlag("reflector", rootCmd.PersistentFlags().Lookup("reflector")))
	cobra.CheckErr(v.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers")))
	cobra.CheckErr(v.Unmarshal(&cfg))

	if v.ConfigFileUsed() != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
}
