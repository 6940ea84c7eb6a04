package model

import "time"

// Kind names the type of output a route produces.
type Kind string

const (
	KindArticle      Kind = "article"
	KindPage         Kind = "page"
	KindTag          Kind = "tag"
	KindCategory     Kind = "category"
	KindAuthor       Kind = "author"
	KindIndex        Kind = "index"
	KindTags         Kind = "tags"
	KindCategories   Kind = "categories"
	KindAuthors      Kind = "authors"
	KindArchives     Kind = "archives"
	KindYearArchive  Kind = "year_archive"
	KindMonthArchive Kind = "month_archive"
	KindPaginated    Kind = "paginated"
	KindFeed         Kind = "feed"
)

// ContentItem represents a single article or page found under the content root.
// Only metadata is collected; the body is never rendered here.
type ContentItem struct {
	Kind       Kind
	Title      string
	Slug       string
	Date       time.Time
	Category   string
	Tags       []string
	Author     string
	Lang       string
	Status     string
	SourcePath string
	Metadata   map[string]interface{}
}

// Route is one generated output: the link other pages use and the file written.
type Route struct {
	Kind   Kind
	Name   string
	Source string
	URL    string
	SaveAs string
	// Permalink is URL joined onto SITEURL.
	Permalink string
}
