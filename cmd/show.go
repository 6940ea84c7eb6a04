package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/5uh417/blog/internal/config"
)

var showCmd = &cobra.Command{
	Use:   "show [SETTING]",
	Short: "Prints the resolved settings",
	Long: `The show command prints the settings after defaults, the config file,
the publish overlay and environment overrides are applied. With a setting
name it prints only that value.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		return runShow(cmd.OutOrStdout(), settings, key)
	},
}

func runShow(w io.Writer, s *config.Settings, key string) error {
	out, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if key == "" {
		_, err = w.Write(out)
		return err
	}

	var doc yaml.MapSlice
	if err := yaml.Unmarshal(out, &doc); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	for _, item := range doc {
		if name, _ := item.Key.(string); strings.EqualFold(name, key) {
			value, err := yaml.Marshal(item.Value)
			if err != nil {
				return err
			}
			_, err = w.Write(value)
			return err
		}
	}
	return fmt.Errorf("unknown setting %q", key)
}

func init() {
	rootCmd.AddCommand(showCmd)
}
