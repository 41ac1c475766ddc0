// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the geodcat-bridge CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/geodcat-bridge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the geodcat-bridge CLI.
var rootCmd = &cobra.Command{
	Use:   "geodcat-bridge",
	Short: "Convert ISO 19139 metadata documents to RDF/DCAT-AP",
	Long: `geodcat-bridge fetches an ISO 19139 XML metadata document, applies an
XSLT stylesheet (typically iso19139-to-geodcatap.xsl), and writes the
resulting RDF/DCAT-AP output to disk.

The convert subcommand runs the full fetch-transform-save path; history
lists previous runs. The two endpoints (xml_url, xsl_url) come from the
config file and can be overridden per invocation with flags.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./geodcat-bridge.yaml or ~/.config/geodcat-bridge/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("geodcat-bridge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "geodcat-bridge"))
		}
	}

	viper.SetEnvPrefix("GEODCAT_BRIDGE")
	viper.AutomaticEnv()

	viper.SetDefault("fetch.timeout", 30*time.Second)
	viper.SetDefault("fetch.user_agent", "geodcat-bridge/"+version)
	viper.SetDefault("transform.cache_dir", "cache")
	viper.SetDefault("transform.output_dir", "output")
	viper.SetDefault("history.history_dir", "history")
	viper.SetDefault("history.max_results", 20)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the stage configuration from viper. The two URL
// keys live at the top level, matching the original config.yaml layout.
func loadConfig() types.Config {
	return types.Config{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:            viper.GetDuration("fetch.timeout"),
				UserAgent:          viper.GetString("fetch.user_agent"),
				InsecureSkipVerify: viper.GetBool("fetch.insecure_skip_verify"),
			},
			SourceURL: viper.GetString("xml_url"),
		},
		Transform: types.TransformConfig{
			Stylesheet: viper.GetString("xsl_url"),
			CacheDir:   viper.GetString("transform.cache_dir"),
			OutputDir:  viper.GetString("transform.output_dir"),
		},
		History: types.HistoryConfig{
			HistoryDir: viper.GetString("history.history_dir"),
			MaxResults: viper.GetInt("history.max_results"),
		},
	}
}

// newLogger builds the logger handed to the pipeline stages. Debug level is
// opt-in via --verbose.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
