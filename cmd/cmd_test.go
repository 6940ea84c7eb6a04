package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5uh417/blog/internal/config"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "themes", "terminal-pelican", "templates"), 0o755))
	writeFile(t, root, "content/hello.md", "---\ntitle: Hello\ndate: 2024-03-05\ncategory: Notes\n---\nBody\n")
	writeFile(t, root, "content/pages/about.md", "Title: About\n\nMe.\n")
	return root
}

func TestRunCheck(t *testing.T) {
	root := newProject(t)
	s := config.Defaults()

	var out bytes.Buffer
	require.NoError(t, runCheck(&out, &s, root, true))
	assert.Contains(t, out.String(), "Suhail's Blog: settings OK")
}

func TestRunCheck_ReportsEveryProblem(t *testing.T) {
	s := config.Defaults()
	s.DefaultPagination = 0
	s.ArticleURL = "{slug}/"

	var out bytes.Buffer
	err := runCheck(&out, &s, t.TempDir(), true)
	require.Error(t, err)
	for _, name := range []string{"DEFAULT_PAGINATION", "ARTICLE_SAVE_AS", "PATH", "THEME"} {
		assert.Contains(t, err.Error(), name)
	}
	assert.Empty(t, out.String())
}

func TestRunCheck_SkipPaths(t *testing.T) {
	s := config.Defaults()
	var out bytes.Buffer
	assert.NoError(t, runCheck(&out, &s, t.TempDir(), false))
}

func TestRunShow(t *testing.T) {
	s := config.Defaults()

	var out bytes.Buffer
	require.NoError(t, runShow(&out, &s, ""))
	assert.Contains(t, out.String(), "ARTICLE_SAVE_AS:")
	assert.Contains(t, out.String(), "{date:%Y}/{date:%m}/{slug}/index.html")
	assert.Contains(t, out.String(), "- About\n")
	assert.Contains(t, out.String(), "- /pages/about/\n")

	out.Reset()
	require.NoError(t, runShow(&out, &s, "default_pagination"))
	assert.Equal(t, "10\n", out.String())

	assert.Error(t, runShow(&out, &s, "NOPE"))
}

func TestRunRoutes_Plain(t *testing.T) {
	root := newProject(t)
	s := config.Defaults()

	routePlain = true
	t.Cleanup(func() { routePlain = false })

	var out bytes.Buffer
	require.NoError(t, runRoutes(context.Background(), &out, &s, root))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Contains(t, lines, "article\tHello\t/2024/03/hello/\t2024/03/hello/index.html")
	assert.Contains(t, lines, "page\tAbout\t/pages/about/\tpages/about/index.html")
	assert.Contains(t, lines, "category\tNotes\t/category/notes/\tcategory/notes/index.html")
}

func TestRunRoutes_KindFilterAndTable(t *testing.T) {
	root := newProject(t)
	s := config.Defaults()

	routeKind = "page"
	t.Cleanup(func() { routeKind = "" })

	var out bytes.Buffer
	require.NoError(t, runRoutes(context.Background(), &out, &s, root))
	assert.Contains(t, out.String(), "pages/about/index.html")
	assert.NotContains(t, out.String(), "2024/03/hello")
	assert.Contains(t, out.String(), "1 routes")
}

func TestExecuteCheckWithConfigFile(t *testing.T) {
	root := newProject(t)
	conf := filepath.Join(root, "blogconf.yaml")
	writeFile(t, root, "blogconf.yaml", "SITENAME: Via Cobra\nDEFAULT_PAGINATION: 4\n")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"check", "--config", conf, "--root", root, "--log-level", "error"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		cfgFile, rootDir = "", "."
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Via Cobra: settings OK")
	assert.Contains(t, out.String(), "pagination 4")
}

func TestRefreshReloadsFromDisk(t *testing.T) {
	root := newProject(t)
	writeFile(t, root, "blogconf.yaml", "SITENAME: Reloaded\n")
	rootDir = root
	t.Cleanup(func() { rootDir = "." })

	var out bytes.Buffer
	s := refresh(context.Background(), &out)
	require.NotNil(t, s)
	assert.Equal(t, "Reloaded", s.SiteName)
	assert.Contains(t, out.String(), "Reloaded: settings OK")
	assert.Contains(t, out.String(), "9 routes resolved")
}
