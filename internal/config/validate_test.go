package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsOf(t *testing.T, err error) []string {
	t.Helper()
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr), "expected *multierror.Error, got %T", err)
	var names []string
	for _, e := range merr.Errors {
		var se *SettingError
		require.True(t, errors.As(e, &se), "expected *SettingError, got %T", e)
		names = append(names, se.Setting)
	}
	return names
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		setting string
	}{
		{"missing sitename", func(s *Settings) { s.SiteName = "" }, "SITENAME"},
		{"missing author", func(s *Settings) { s.Author = "" }, "AUTHOR"},
		{"zero pagination", func(s *Settings) { s.DefaultPagination = 0 }, "DEFAULT_PAGINATION"},
		{"negative pagination", func(s *Settings) { s.DefaultPagination = -3 }, "DEFAULT_PAGINATION"},
		{"bad timezone", func(s *Settings) { s.Timezone = "Mars/Olympus" }, "TIMEZONE"},
		{"bad language", func(s *Settings) { s.DefaultLang = "not a lang" }, "DEFAULT_LANG"},
		{"relative siteurl", func(s *Settings) { s.SiteURL = "example.com/blog" }, "SITEURL"},
		{"empty link label", func(s *Settings) { s.Links[0].Label = "" }, "LINKS[0].label"},
		{"empty menu url", func(s *Settings) { s.MenuItems[2].URL = "" }, "MENUITEMS[2].url"},
		{"mismatched placeholders", func(s *Settings) { s.ArticleURL = "{date:%Y}/{slug}/" }, "ARTICLE_SAVE_AS"},
		{"different date spec", func(s *Settings) { s.ArticleURL = "{date:%y}/{date:%m}/{slug}/" }, "ARTICLE_SAVE_AS"},
		{"absolute save_as", func(s *Settings) { s.PageSaveAs = "/pages/{slug}/index.html" }, "PAGE_SAVE_AS"},
		{"parent dir save_as", func(s *Settings) {
			s.CategoryURL = "../{slug}/"
			s.CategorySaveAs = "../{slug}/index.html"
		}, "CATEGORY_URL"},
		{"directory save_as", func(s *Settings) { s.ArchivesSaveAs = "archives/" }, "ARCHIVES_SAVE_AS"},
		{"dot save_as", func(s *Settings) {
			s.ArchivesURL = "."
			s.ArchivesSaveAs = "."
		}, "ARCHIVES_SAVE_AS"},
		{"trailing dot save_as", func(s *Settings) { s.TagsSaveAs = "tags/." }, "TAGS_SAVE_AS"},
		{"unknown placeholder", func(s *Settings) {
			s.PageURL = "pages/{title}/"
			s.PageSaveAs = "pages/{title}/index.html"
		}, "PAGE_SAVE_AS"},
		{"unclosed brace", func(s *Settings) { s.AuthorURL = "author/{slug/" }, "AUTHOR_URL"},
		{"pagination without number", func(s *Settings) {
			s.PaginatedURL = "page/"
			s.PaginatedSaveAs = "page/index.html"
		}, "PAGINATED_SAVE_AS"},
		{"feed without slug", func(s *Settings) { s.CategoryFeedAtom = "feeds/category.atom.xml" }, "CATEGORY_FEED_ATOM"},
		{"feed absolute", func(s *Settings) { s.FeedAllAtom = "/feeds/all.atom.xml" }, "FEED_ALL_ATOM"},
		{"empty page path", func(s *Settings) { s.PagePaths = []string{""} }, "PAGE_PATHS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, settingsOf(t, err), tt.setting)
			assert.Contains(t, err.Error(), tt.setting)
		})
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	s := Defaults()
	s.SiteName = ""
	s.DefaultPagination = 0
	s.PageURL = "p/{slug}/{lang}/"

	err := s.Validate()
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"SITENAME", "DEFAULT_PAGINATION", "PAGE_SAVE_AS"}, settingsOf(t, err))
	assert.Contains(t, err.Error(), "3 invalid setting(s)")
}

func TestValidate_DisabledOutputSkipsPairCheck(t *testing.T) {
	s := Defaults()
	// TAG_SAVE_AS is empty, so TAG_URL may carry anything parseable.
	s.TagURL = "tag/{slug}/{name}/"
	assert.NoError(t, s.Validate())
}

func TestValidate_EveryPairHasMatchingPlaceholders(t *testing.T) {
	s := Defaults()
	require.NoError(t, s.Validate())
	for _, pair := range s.URLTemplates() {
		if pair.SaveAs == "" {
			continue
		}
		assert.NoError(t, errors.Join(checkPair(pair)...), pair.Name)
	}
}

func TestValidate_EnabledFeeds(t *testing.T) {
	s := Defaults()
	s.FeedAllAtom = "feeds/all.atom.xml"
	s.CategoryFeedAtom = "feeds/{slug}.atom.xml"
	s.TranslationFeedAtom = "feeds/all-{lang}.atom.xml"
	assert.NoError(t, s.Validate())
}

func TestLint(t *testing.T) {
	s := Defaults()
	s.SiteURL = "https://example.com"
	assert.Empty(t, s.Lint())

	s.ArchivesURL = "archives.html"
	s.MenuItems = append(s.MenuItems, Link{Label: "Soon", URL: "#"})
	warnings := s.Lint()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "ARCHIVES_URL")
	assert.Contains(t, warnings[1], "Soon")
}

func TestCheckPaths(t *testing.T) {
	root := t.TempDir()
	s := Defaults()

	err := s.CheckPaths(root)
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"PATH", "THEME"}, settingsOf(t, err))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "content"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "themes", "terminal-pelican"), 0o755))
	assert.NoError(t, s.CheckPaths(root))

	s.Theme = filepath.Join(root, "content", "file")
	require.NoError(t, os.WriteFile(s.Theme, []byte("x"), 0o644))
	err = s.CheckPaths(root)
	require.Error(t, err)
	assert.Equal(t, []string{"THEME"}, settingsOf(t, err))
}
