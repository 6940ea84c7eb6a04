package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/5uh417/blog/internal/config"
)

var skipPaths bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validates the settings",
	Long: `The check command validates every setting before a build: required
identity fields, time zone and language, navigation pairs, pagination, and
that each *_URL / *_SAVE_AS pair uses the same placeholders and saves to a
safe relative path. It also verifies that PATH and THEME exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.OutOrStdout(), settings, rootDir, !skipPaths)
	},
}

func runCheck(w io.Writer, s *config.Settings, root string, checkPaths bool) error {
	var result *multierror.Error
	if err := s.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if checkPaths {
		if err := s.CheckPaths(root); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, warning := range s.Lint() {
		slog.Warn(warning)
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("settings are invalid: %w", err)
	}

	fmt.Fprintf(w, "%s: settings OK (%d URL templates, %d menu items, pagination %d)\n",
		s.SiteName, len(s.URLTemplates()), len(s.MenuItems), s.DefaultPagination)
	return nil
}

func init() {
	checkCmd.Flags().BoolVar(&skipPaths, "skip-paths", false, "do not check that PATH and THEME exist")
	rootCmd.AddCommand(checkCmd)
}
