package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/5uh417/blog/internal/config"
	"github.com/5uh417/blog/internal/logging"
)

var (
	cfgFile     string
	publishFile string
	rootDir     string
	logLevel    string
	logFormat   string

	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "blog",
	Short: "Site settings for Suhail's Blog",
	Long: `blog loads, validates and previews the settings of the blog: site
metadata, content paths, URL templates, pagination, navigation and theme.
Settings come from built-in defaults, an optional config file
(blogconf.yaml, .toml or .json), an optional publish overlay and BLOG_*
environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.InitLogger(logLevel, logFormat)
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./blogconf.{yaml,toml,json})")
	rootCmd.PersistentFlags().StringVar(&publishFile, "publish", "", "publish overlay merged over the config file")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "C", ".", "project directory that PATH and THEME are relative to")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
}

func initializeConfig(_ *cobra.Command) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	settings = s
	return nil
}

func loadSettings() (*config.Settings, error) {
	opts := config.LoadOptions{
		ConfigFile:  cfgFile,
		PublishFile: publishFile,
		EnvFile:     filepath.Join(rootDir, ".env"),
	}
	if cfgFile == "" {
		opts.SearchPaths = []string{rootDir}
	}
	return config.Load(opts)
}
