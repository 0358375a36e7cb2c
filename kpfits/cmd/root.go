package cmd

import (
	"fmt"
	"os"

	"github.com/kernel-phase/kpfits/config"
	"github.com/kernel-phase/kpfits/version"
	"github.com/spf13/cobra"
)

var conf *config.KPFitsConfig

var persistentFlagConfigFile string
var persistentFlagLogfile string
var persistentFlagLoglevel string

var rootCmd = &cobra.Command{
	Use:     "kpfits",
	Short:   "kpfits validates kernel-phase FITS interchange products",
	Version: version.Version,
	Long: `A structural validator for the kernel-phase FITS format: checks HDU
presence, ranks, fixed axis lengths and shared axis sizes against the
format schema and reports an auditable pass/fail/warning log.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func initConfig() {
	var err error
	if persistentFlagConfigFile != "" {
		data, err2 := os.ReadFile(persistentFlagConfigFile)
		if err2 != nil {
			_ = rootCmd.Help()
			fmt.Fprintf(os.Stderr, "error reading config file %s: %v\n", persistentFlagConfigFile, err2)
			os.Exit(1)
		}
		conf, err = config.LoadKPFitsConfig(string(data))
	} else {
		conf, err = config.LoadKPFitsConfig(config.DefaultConfig)
	}
	if err != nil {
		_ = rootCmd.Help()
		fmt.Fprintf(os.Stderr, "error loading config file %s: %v\n", persistentFlagConfigFile, err)
		os.Exit(1)
	}

	// overwrite config file with command line data
	if persistentFlagLogfile != "" {
		conf.LogFile = persistentFlagLogfile
	}
	if persistentFlagLoglevel != "" {
		conf.LogLevel = persistentFlagLoglevel
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&persistentFlagConfigFile, "config", "", "config file (TOML)")
	rootCmd.PersistentFlags().StringVar(&persistentFlagLogfile, "log-file", "", "log output file (default is console)")
	rootCmd.PersistentFlags().StringVar(&persistentFlagLoglevel, "log-level", "", "log level (ERROR|WARN|INFO|DEBUG)")

	initValidate()
	initCreate()
	initStat()
	rootCmd.AddCommand(validateCmd, createCmd, statCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
