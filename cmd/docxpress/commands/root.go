// Package commands implements the CLI commands for docxpress.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/docxpress/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "docxpress",
	Short: "Convert word-processor documents into publishing markup",
	Long: `Docxpress converts articles written in a word processor into
publishing markup: block-comment markup, page-builder or generic
shortcodes, or plain annotated HTML.

Examples:
  # Convert a document to block-comment markup for the clinic site
  docxpress convert article.docx -p clinic

  # Page-builder shortcodes, written next to the input
  docxpress convert article.docx -d fusion -p skin --out-dir .

  # Inspect what the rules did
  docxpress convert article.html -d html --format yaml --blocks`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.docxpress.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")
	rootCmd.PersistentFlags().String("profiles", "", "YAML file with extra or overriding site profiles")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
	_ = viper.BindPFlag("profiles_file", rootCmd.PersistentFlags().Lookup("profiles"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".docxpress")
		viper.SetConfigType("yaml")
	}

	// Environment variables: DOCXPRESS_DIALECT, DOCXPRESS_PROFILE, ...
	viper.SetEnvPrefix("DOCXPRESS")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// initLogger configures logging from the bound flags.
func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", "path", used)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logInfo prints a progress message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
