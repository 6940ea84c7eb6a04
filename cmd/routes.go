package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/5uh417/blog/internal/config"
	"github.com/5uh417/blog/internal/content"
	"github.com/5uh417/blog/internal/model"
	"github.com/5uh417/blog/internal/route"
)

var (
	routeKind  string
	routePlain bool
)

// routesCmd represents the routes command
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Lists the URL and output file of everything the site generates",
	Long: `The routes command discovers articles and pages under PATH, reads their
metadata, and resolves every article, page, category, author, tag, listing,
archive, pagination page and enabled feed through the *_URL / *_SAVE_AS
templates. Two outputs writing the same file are reported as errors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoutes(cmd.Context(), cmd.OutOrStdout(), settings, rootDir)
	},
}

func buildRoutes(ctx context.Context, s *config.Settings, root string) ([]model.Route, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings are invalid: %w", err)
	}
	items, err := content.Discover(ctx, s, root)
	if err != nil {
		return nil, fmt.Errorf("content discovery failed: %w", err)
	}
	slog.Debug("content discovered", "items", len(items), "path", s.Path)

	router, err := route.New(s)
	if err != nil {
		return nil, err
	}
	routes, err := router.Table(items)
	if err != nil {
		return nil, fmt.Errorf("routing failed: %w", err)
	}
	return routes, nil
}

func runRoutes(ctx context.Context, w io.Writer, s *config.Settings, root string) error {
	routes, err := buildRoutes(ctx, s, root)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(routes))
	for _, rt := range routes {
		if routeKind != "" && string(rt.Kind) != routeKind {
			continue
		}
		rows = append(rows, []string{string(rt.Kind), rt.Name, rt.Permalink, rt.SaveAs})
	}

	if routePlain {
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row[0], row[1], row[2], row[3])
		}
		return nil
	}

	header := lipgloss.NewStyle().Bold(true)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle()
		}).
		Headers("KIND", "NAME", "URL", "SAVE_AS").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d routes\n", len(rows))
	return nil
}

func init() {
	routesCmd.Flags().StringVar(&routeKind, "kind", "", "only list routes of this kind (article, page, category, feed, ...)")
	routesCmd.Flags().BoolVar(&routePlain, "plain", false, "tab-separated output without a table")
	rootCmd.AddCommand(routesCmd)
}
