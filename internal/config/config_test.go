package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	s := Defaults()
	require.NoError(t, s.Validate())
	assert.Equal(t, 10, s.DefaultPagination)
	assert.False(t, s.FeedsEnabled())
	assert.Equal(t, []string{"SITEURL is empty; generated links are root-relative"}, s.Lint())
}

func TestLoad_FileMatchesDefaults(t *testing.T) {
	s, err := Load(LoadOptions{ConfigFile: "testdata/blogconf.yaml"})
	require.NoError(t, err)

	want := Defaults()
	assert.Equal(t, &want, s)
}

func TestLoad_Idempotent(t *testing.T) {
	opts := LoadOptions{ConfigFile: "testdata/blogconf.yaml", PublishFile: "testdata/publishconf.yaml"}
	first, err := Load(opts)
	require.NoError(t, err)
	second, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoad_NoSourcesUsesDefaults(t *testing.T) {
	s, err := Load(LoadOptions{})
	require.NoError(t, err)
	want := Defaults()
	assert.Equal(t, &want, s)
}

func TestLoad_SearchPathWithoutFile(t *testing.T) {
	s, err := Load(LoadOptions{SearchPaths: []string{t.TempDir()}})
	require.NoError(t, err)
	assert.Equal(t, "Suhail's Blog", s.SiteName)
}

func TestLoad_SearchPathFindsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blogconf.yaml"), []byte("SITENAME: Found\n"), 0o644))

	s, err := Load(LoadOptions{SearchPaths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, "Found", s.SiteName)
}

func TestLoad_PublishOverlay(t *testing.T) {
	s, err := Load(LoadOptions{ConfigFile: "testdata/blogconf.yaml", PublishFile: "testdata/publishconf.yaml"})
	require.NoError(t, err)

	assert.Equal(t, "https://suhail.example.com", s.SiteURL)
	assert.Equal(t, "feeds/all.atom.xml", s.FeedAllAtom)
	assert.Equal(t, "feeds/{slug}.atom.xml", s.CategoryFeedAtom)
	assert.True(t, s.FeedsEnabled())
	// untouched keys keep the base file's values
	assert.Equal(t, "Suhail", s.Author)
	assert.Len(t, s.MenuItems, 3)
	require.NoError(t, s.Validate())
}

func TestLoad_TOML(t *testing.T) {
	s, err := Load(LoadOptions{ConfigFile: "testdata/blogconf.toml"})
	require.NoError(t, err)
	assert.Equal(t, "TOML Blog", s.SiteName)
	assert.Equal(t, 5, s.DefaultPagination)
	assert.Equal(t, []Link{{Label: "Home", URL: "/"}}, s.MenuItems)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BLOG_SITEURL", "https://env.example.com")
	t.Setenv("BLOG_DEFAULT_PAGINATION", "25")

	s, err := Load(LoadOptions{ConfigFile: "testdata/blogconf.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", s.SiteURL)
	assert.Equal(t, 25, s.DefaultPagination)
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BLOG_AUTHOR=Dotenv Author\n"), 0o644))
	t.Setenv("BLOG_AUTHOR", "")
	os.Unsetenv("BLOG_AUTHOR")

	s, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "Dotenv Author", s.Author)
}

func TestLoad_EnvFileIsReadOnEveryLoad(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BLOG_SITENAME=First\nBLOG_DEFAULT_PAGINATION=3\n"), 0o644))

	s, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "First", s.SiteName)
	assert.Equal(t, 3, s.DefaultPagination)
	_, leaked := os.LookupEnv("BLOG_SITENAME")
	assert.False(t, leaked)

	require.NoError(t, os.WriteFile(envFile, []byte("BLOG_SITENAME=Second\n"), 0o644))
	s, err = Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "Second", s.SiteName)
	assert.Equal(t, 10, s.DefaultPagination)
}

func TestLoad_ProcessEnvBeatsEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BLOG_SITENAME=From File\nBLOG_NOT_A_SETTING=x\nOTHER=y\n"), 0o644))
	t.Setenv("BLOG_SITENAME", "From Env")

	s, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "From Env", s.SiteName)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		opts    LoadOptions
		wantErr string
	}{
		{"missing file", LoadOptions{ConfigFile: "testdata/nope.yaml"}, "failed to read config file"},
		{"unknown setting", LoadOptions{ConfigFile: "testdata/unknown.yaml"}, "site_name_typo"},
		{"malformed link", LoadOptions{ConfigFile: "testdata/badlinks.yaml"}, "(label, URL) pair"},
		{"missing publish file", LoadOptions{PublishFile: "testdata/nope.yaml"}, "failed to merge publish file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestURLTemplatesCoverEverySaveAs(t *testing.T) {
	s := Defaults()
	names := map[string]bool{}
	for _, p := range s.URLTemplates() {
		names[p.SaveAsSetting()] = true
		names[p.URLSetting()] = true
	}
	for _, want := range []string{"ARTICLE_SAVE_AS", "PAGE_URL", "TAG_SAVE_AS", "CATEGORY_URL",
		"AUTHOR_SAVE_AS", "ARCHIVES_SAVE_AS", "PAGINATED_URL", "TAGS_SAVE_AS"} {
		assert.True(t, names[want], want)
	}
}

func TestLocation(t *testing.T) {
	s := Defaults()
	loc, err := s.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())

	s.Timezone = "Mars/Olympus"
	_, err = s.Location()
	assert.Error(t, err)
}

func TestSettingErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &SettingError{Setting: "THEME", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "THEME: boom", err.Error())
}
