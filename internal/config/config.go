// Package config holds the blog's site settings: identity, content paths,
// URL templates, navigation, feeds, pagination and theme.
//
// Settings are keyed by the generator's upper-case names (SITENAME,
// ARTICLE_URL, ...). A Settings value is built once per run by Load and is
// not mutated afterwards.
package config

import (
	"fmt"
	"time"
)

// Link is a (label, URL) pair rendered into a navigation widget.
// In a config file it is written as a two-element list.
type Link struct {
	Label string `mapstructure:"label" validate:"required"`
	URL   string `mapstructure:"url" validate:"required"`
}

// MarshalYAML writes the pair back in its list form.
func (l Link) MarshalYAML() (interface{}, error) {
	return []string{l.Label, l.URL}, nil
}

type Settings struct {
	Author       string `mapstructure:"AUTHOR" yaml:"AUTHOR" validate:"required"`
	SiteName     string `mapstructure:"SITENAME" yaml:"SITENAME" validate:"required"`
	SiteURL      string `mapstructure:"SITEURL" yaml:"SITEURL" validate:"omitempty,http_url"`
	Timezone     string `mapstructure:"TIMEZONE" yaml:"TIMEZONE" validate:"required,timezone"`
	DefaultLang  string `mapstructure:"DEFAULT_LANG" yaml:"DEFAULT_LANG" validate:"required,bcp47_language_tag"`
	RelativeURLs bool   `mapstructure:"RELATIVE_URLS" yaml:"RELATIVE_URLS"`

	Path         string   `mapstructure:"PATH" yaml:"PATH" validate:"required"`
	ArticlePaths []string `mapstructure:"ARTICLE_PATHS" yaml:"ARTICLE_PATHS"`
	PagePaths    []string `mapstructure:"PAGE_PATHS" yaml:"PAGE_PATHS"`
	StaticPaths  []string `mapstructure:"STATIC_PATHS" yaml:"STATIC_PATHS"`
	OutputPath   string   `mapstructure:"OUTPUT_PATH" yaml:"OUTPUT_PATH" validate:"required"`
	Theme        string   `mapstructure:"THEME" yaml:"THEME" validate:"required"`

	// Feed outputs. An empty value disables the feed.
	FeedAllAtom         string `mapstructure:"FEED_ALL_ATOM" yaml:"FEED_ALL_ATOM"`
	FeedAllRSS          string `mapstructure:"FEED_ALL_RSS" yaml:"FEED_ALL_RSS"`
	CategoryFeedAtom    string `mapstructure:"CATEGORY_FEED_ATOM" yaml:"CATEGORY_FEED_ATOM"`
	TagFeedAtom         string `mapstructure:"TAG_FEED_ATOM" yaml:"TAG_FEED_ATOM"`
	TranslationFeedAtom string `mapstructure:"TRANSLATION_FEED_ATOM" yaml:"TRANSLATION_FEED_ATOM"`
	AuthorFeedAtom      string `mapstructure:"AUTHOR_FEED_ATOM" yaml:"AUTHOR_FEED_ATOM"`
	AuthorFeedRSS       string `mapstructure:"AUTHOR_FEED_RSS" yaml:"AUTHOR_FEED_RSS"`

	Links     []Link `mapstructure:"LINKS" yaml:"LINKS" validate:"dive"`
	Social    []Link `mapstructure:"SOCIAL" yaml:"SOCIAL" validate:"dive"`
	MenuItems []Link `mapstructure:"MENUITEMS" yaml:"MENUITEMS" validate:"dive"`

	DefaultPagination int `mapstructure:"DEFAULT_PAGINATION" yaml:"DEFAULT_PAGINATION" validate:"gte=1"`

	ArticleURL         string `mapstructure:"ARTICLE_URL" yaml:"ARTICLE_URL"`
	ArticleSaveAs      string `mapstructure:"ARTICLE_SAVE_AS" yaml:"ARTICLE_SAVE_AS"`
	PageURL            string `mapstructure:"PAGE_URL" yaml:"PAGE_URL"`
	PageSaveAs         string `mapstructure:"PAGE_SAVE_AS" yaml:"PAGE_SAVE_AS"`
	TagURL             string `mapstructure:"TAG_URL" yaml:"TAG_URL"`
	TagSaveAs          string `mapstructure:"TAG_SAVE_AS" yaml:"TAG_SAVE_AS"`
	CategoryURL        string `mapstructure:"CATEGORY_URL" yaml:"CATEGORY_URL"`
	CategorySaveAs     string `mapstructure:"CATEGORY_SAVE_AS" yaml:"CATEGORY_SAVE_AS"`
	AuthorURL          string `mapstructure:"AUTHOR_URL" yaml:"AUTHOR_URL"`
	AuthorSaveAs       string `mapstructure:"AUTHOR_SAVE_AS" yaml:"AUTHOR_SAVE_AS"`
	PaginatedURL       string `mapstructure:"PAGINATED_URL" yaml:"PAGINATED_URL"`
	PaginatedSaveAs    string `mapstructure:"PAGINATED_SAVE_AS" yaml:"PAGINATED_SAVE_AS"`
	IndexURL           string `mapstructure:"INDEX_URL" yaml:"INDEX_URL"`
	IndexSaveAs        string `mapstructure:"INDEX_SAVE_AS" yaml:"INDEX_SAVE_AS"`
	ArchivesURL        string `mapstructure:"ARCHIVES_URL" yaml:"ARCHIVES_URL"`
	ArchivesSaveAs     string `mapstructure:"ARCHIVES_SAVE_AS" yaml:"ARCHIVES_SAVE_AS"`
	YearArchiveURL     string `mapstructure:"YEAR_ARCHIVE_URL" yaml:"YEAR_ARCHIVE_URL"`
	YearArchiveSaveAs  string `mapstructure:"YEAR_ARCHIVE_SAVE_AS" yaml:"YEAR_ARCHIVE_SAVE_AS"`
	MonthArchiveURL    string `mapstructure:"MONTH_ARCHIVE_URL" yaml:"MONTH_ARCHIVE_URL"`
	MonthArchiveSaveAs string `mapstructure:"MONTH_ARCHIVE_SAVE_AS" yaml:"MONTH_ARCHIVE_SAVE_AS"`
	TagsURL            string `mapstructure:"TAGS_URL" yaml:"TAGS_URL"`
	TagsSaveAs         string `mapstructure:"TAGS_SAVE_AS" yaml:"TAGS_SAVE_AS"`
	CategoriesURL      string `mapstructure:"CATEGORIES_URL" yaml:"CATEGORIES_URL"`
	CategoriesSaveAs   string `mapstructure:"CATEGORIES_SAVE_AS" yaml:"CATEGORIES_SAVE_AS"`
	AuthorsURL         string `mapstructure:"AUTHORS_URL" yaml:"AUTHORS_URL"`
	AuthorsSaveAs      string `mapstructure:"AUTHORS_SAVE_AS" yaml:"AUTHORS_SAVE_AS"`
}

// Defaults returns the blog's declared configuration.
func Defaults() Settings {
	return Settings{
		Author:      "Suhail",
		SiteName:    "Suhail's Blog",
		SiteURL:     "",
		Timezone:    "Asia/Kolkata",
		DefaultLang: "en",

		Path:         "content",
		ArticlePaths: []string{""},
		PagePaths:    []string{"pages"},
		StaticPaths:  []string{"images"},
		OutputPath:   "output",
		Theme:        "themes/terminal-pelican",

		Links: []Link{
			{"Pelican", "https://getpelican.com/"},
			{"Python.org", "https://www.python.org/"},
			{"Jinja2", "https://palletsprojects.com/p/jinja/"},
			{"You can modify those links in your config file", "#"},
		},
		Social: []Link{
			{"You can add links in your config file", "#"},
			{"Another social link", "#"},
		},
		MenuItems: []Link{
			{"About", "/pages/about/"},
			{"Tags", "/tags/"},
			{"Archives", "/archives/"},
		},

		DefaultPagination: 10,

		ArticleURL:       "{date:%Y}/{date:%m}/{slug}/",
		ArticleSaveAs:    "{date:%Y}/{date:%m}/{slug}/index.html",
		PageURL:          "pages/{slug}/",
		PageSaveAs:       "pages/{slug}/index.html",
		TagURL:           "tag/{slug}/",
		TagSaveAs:        "",
		CategoryURL:      "category/{slug}/",
		CategorySaveAs:   "category/{slug}/index.html",
		AuthorURL:        "author/{slug}/",
		AuthorSaveAs:     "author/{slug}/index.html",
		PaginatedURL:     "page/{number}/",
		PaginatedSaveAs:  "page/{number}/index.html",
		IndexURL:         "",
		IndexSaveAs:      "index.html",
		ArchivesURL:      "archives/",
		ArchivesSaveAs:   "archives/index.html",
		TagsURL:          "tags/",
		TagsSaveAs:       "tags/index.html",
		CategoriesURL:    "categories/",
		CategoriesSaveAs: "categories/index.html",
		AuthorsURL:       "authors/",
		AuthorsSaveAs:    "authors/index.html",
	}
}

// TemplatePair is one *_URL / *_SAVE_AS pair.
type TemplatePair struct {
	// Name is the setting prefix, e.g. "ARTICLE".
	Name   string
	URL    string
	SaveAs string
	// Fields lists the placeholder names the pair may use.
	Fields []string
}

func (p TemplatePair) URLSetting() string    { return p.Name + "_URL" }
func (p TemplatePair) SaveAsSetting() string { return p.Name + "_SAVE_AS" }

// URLTemplates returns every routing pair in a stable order.
func (s *Settings) URLTemplates() []TemplatePair {
	return []TemplatePair{
		{"ARTICLE", s.ArticleURL, s.ArticleSaveAs, []string{"slug", "date", "lang", "category", "author"}},
		{"PAGE", s.PageURL, s.PageSaveAs, []string{"slug", "lang"}},
		{"TAG", s.TagURL, s.TagSaveAs, []string{"slug", "name"}},
		{"CATEGORY", s.CategoryURL, s.CategorySaveAs, []string{"slug", "name"}},
		{"AUTHOR", s.AuthorURL, s.AuthorSaveAs, []string{"slug", "name"}},
		{"PAGINATED", s.PaginatedURL, s.PaginatedSaveAs, []string{"number", "base_name"}},
		{"INDEX", s.IndexURL, s.IndexSaveAs, nil},
		{"ARCHIVES", s.ArchivesURL, s.ArchivesSaveAs, nil},
		{"YEAR_ARCHIVE", s.YearArchiveURL, s.YearArchiveSaveAs, []string{"date"}},
		{"MONTH_ARCHIVE", s.MonthArchiveURL, s.MonthArchiveSaveAs, []string{"date"}},
		{"TAGS", s.TagsURL, s.TagsSaveAs, nil},
		{"CATEGORIES", s.CategoriesURL, s.CategoriesSaveAs, nil},
		{"AUTHORS", s.AuthorsURL, s.AuthorsSaveAs, nil},
	}
}

// Feed is one feed output setting.
type Feed struct {
	Name   string
	SaveAs string
	Fields []string
}

// Feeds returns every feed setting, enabled or not.
func (s *Settings) Feeds() []Feed {
	return []Feed{
		{"FEED_ALL_ATOM", s.FeedAllAtom, nil},
		{"FEED_ALL_RSS", s.FeedAllRSS, nil},
		{"CATEGORY_FEED_ATOM", s.CategoryFeedAtom, []string{"slug"}},
		{"TAG_FEED_ATOM", s.TagFeedAtom, []string{"slug"}},
		{"TRANSLATION_FEED_ATOM", s.TranslationFeedAtom, []string{"lang"}},
		{"AUTHOR_FEED_ATOM", s.AuthorFeedAtom, []string{"slug"}},
		{"AUTHOR_FEED_RSS", s.AuthorFeedRSS, []string{"slug"}},
	}
}

// FeedsEnabled reports whether any feed is generated.
func (s *Settings) FeedsEnabled() bool {
	for _, f := range s.Feeds() {
		if f.SaveAs != "" {
			return true
		}
	}
	return false
}

// Location resolves TIMEZONE.
func (s *Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", s.Timezone, err)
	}
	return loc, nil
}
