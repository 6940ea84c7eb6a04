// Package route resolves content items, taxonomies, listings and feeds to
// the URL other pages link to and the file the generator writes.
package route

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/5uh417/blog/internal/config"
	"github.com/5uh417/blog/internal/content"
	"github.com/5uh417/blog/internal/model"
	"github.com/5uh417/blog/internal/urlpattern"
)

type pair struct {
	name   string
	url    *urlpattern.Pattern
	saveAs *urlpattern.Pattern
}

// Router holds the compiled URL templates of one Settings value.
type Router struct {
	settings *config.Settings
	pairs    map[string]pair
	feeds    map[string]*urlpattern.Pattern
}

var listingPairs = map[model.Kind]string{
	model.KindIndex:      "INDEX",
	model.KindArchives:   "ARCHIVES",
	model.KindTags:       "TAGS",
	model.KindCategories: "CATEGORIES",
	model.KindAuthors:    "AUTHORS",
}

var taxonomyPairs = map[model.Kind]string{
	model.KindTag:      "TAG",
	model.KindCategory: "CATEGORY",
	model.KindAuthor:   "AUTHOR",
}

// New compiles every template in s.
func New(s *config.Settings) (*Router, error) {
	r := &Router{
		settings: s,
		pairs:    make(map[string]pair),
		feeds:    make(map[string]*urlpattern.Pattern),
	}
	for _, tp := range s.URLTemplates() {
		url, err := urlpattern.Parse(tp.URL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tp.URLSetting(), err)
		}
		saveAs, err := urlpattern.Parse(tp.SaveAs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tp.SaveAsSetting(), err)
		}
		r.pairs[tp.Name] = pair{name: tp.Name, url: url, saveAs: saveAs}
	}
	for _, f := range s.Feeds() {
		if f.SaveAs == "" {
			continue
		}
		p, err := urlpattern.Parse(f.SaveAs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		r.feeds[f.Name] = p
	}
	return r, nil
}

// Enabled reports whether the named pair produces output.
func (r *Router) Enabled(name string) bool {
	p, ok := r.pairs[name]
	return ok && !p.saveAs.Empty()
}

// resolve renders a pair. ok is false when the pair's SAVE_AS is empty.
func (r *Router) resolve(pairName string, kind model.Kind, name, source string, values urlpattern.Values) (model.Route, bool, error) {
	if !r.Enabled(pairName) {
		return model.Route{}, false, nil
	}
	p := r.pairs[pairName]
	url, err := p.url.Render(values)
	if err != nil {
		return model.Route{}, false, fmt.Errorf("%s_URL for %s %q: %w", pairName, kind, name, err)
	}
	saveAs, err := p.saveAs.Render(values)
	if err != nil {
		return model.Route{}, false, fmt.Errorf("%s_SAVE_AS for %s %q: %w", pairName, kind, name, err)
	}
	if pairName == "PAGINATED" {
		// {base_name} is empty for listings at the site root
		url = strings.TrimPrefix(url, "/")
		saveAs = strings.TrimPrefix(saveAs, "/")
	}
	if err := urlpattern.SafePath(saveAs); err != nil {
		return model.Route{}, false, fmt.Errorf("%s_SAVE_AS for %s %q: %w", pairName, kind, name, err)
	}
	return model.Route{
		Kind:      kind,
		Name:      name,
		Source:    source,
		URL:       url,
		SaveAs:    saveAs,
		Permalink: r.Permalink(url),
	}, true, nil
}

// Permalink joins a site-relative URL onto SITEURL.
func (r *Router) Permalink(url string) string {
	if r.settings.RelativeURLs {
		return url
	}
	return strings.TrimRight(r.settings.SiteURL, "/") + "/" + url
}

// Article routes an article through ARTICLE_URL / ARTICLE_SAVE_AS.
func (r *Router) Article(item *model.ContentItem) (model.Route, bool, error) {
	return r.resolve("ARTICLE", model.KindArticle, item.Title, item.SourcePath, urlpattern.Values{
		"slug":     item.Slug,
		"date":     item.Date,
		"lang":     item.Lang,
		"category": content.Slugify(item.Category),
		"author":   content.Slugify(item.Author),
	})
}

// Page routes a page through PAGE_URL / PAGE_SAVE_AS.
func (r *Router) Page(item *model.ContentItem) (model.Route, bool, error) {
	return r.resolve("PAGE", model.KindPage, item.Title, item.SourcePath, urlpattern.Values{
		"slug": item.Slug,
		"lang": item.Lang,
	})
}

// Taxonomy routes a tag, category or author page.
func (r *Router) Taxonomy(kind model.Kind, name string) (model.Route, bool, error) {
	pairName, ok := taxonomyPairs[kind]
	if !ok {
		return model.Route{}, false, fmt.Errorf("%s is not a taxonomy", kind)
	}
	return r.resolve(pairName, kind, name, "", urlpattern.Values{
		"slug": content.Slugify(name),
		"name": name,
	})
}

// Listing routes a site-wide listing: index, archives, tags, categories
// or authors.
func (r *Router) Listing(kind model.Kind) (model.Route, bool, error) {
	pairName, ok := listingPairs[kind]
	if !ok {
		return model.Route{}, false, fmt.Errorf("%s is not a listing", kind)
	}
	return r.resolve(pairName, kind, string(kind), "", nil)
}

// Archive routes a year or month archive for the period containing date.
func (r *Router) Archive(kind model.Kind, date time.Time) (model.Route, bool, error) {
	switch kind {
	case model.KindYearArchive:
		return r.resolve("YEAR_ARCHIVE", kind, date.Format("2006"), "", urlpattern.Values{"date": date})
	case model.KindMonthArchive:
		return r.resolve("MONTH_ARCHIVE", kind, date.Format("2006-01"), "", urlpattern.Values{"date": date})
	default:
		return model.Route{}, false, fmt.Errorf("%s is not an archive", kind)
	}
}

// PaginatesPerListing reports whether PAGINATED_* can tell listings apart,
// i.e. uses {base_name}. Without it only the index is paginated.
func (r *Router) PaginatesPerListing() bool {
	for _, n := range r.pairs["PAGINATED"].saveAs.Names() {
		if n == "base_name" {
			return true
		}
	}
	return false
}

// listingBaseName is the {base_name} of a listing saved at saveAs: the path
// without its extension, or its directory when the file is an index.
func listingBaseName(saveAs string) string {
	stem := strings.TrimSuffix(saveAs, path.Ext(saveAs))
	if path.Base(stem) != "index" {
		return stem
	}
	if dir := path.Dir(stem); dir != "." {
		return dir
	}
	return ""
}

// Paginate splits items into DEFAULT_PAGINATION sized pages. Page 1 is
// served at base; later pages are routed through PAGINATED_*. An empty
// listing still has one page.
func (r *Router) Paginate(base model.Route, items []*model.ContentItem) ([]model.Listing, error) {
	per := r.settings.DefaultPagination
	if per < 1 {
		return nil, fmt.Errorf("DEFAULT_PAGINATION must be positive, got %d", per)
	}
	total := (len(items) + per - 1) / per
	if total == 0 {
		total = 1
	}

	if !r.Enabled("PAGINATED") {
		return []model.Listing{{Number: 1, Total: 1, Route: base, Items: items}}, nil
	}

	baseName := listingBaseName(base.SaveAs)
	listings := make([]model.Listing, 0, total)
	for n := 1; n <= total; n++ {
		lo := (n - 1) * per
		hi := min(lo+per, len(items))
		page := model.Listing{Number: n, Total: total, Route: base, Items: items[lo:hi]}
		if n > 1 {
			rt, ok, err := r.resolve("PAGINATED", model.KindPaginated, fmt.Sprintf("%s page %d", base.Name, n), base.Source, urlpattern.Values{
				"number":    n,
				"base_name": baseName,
			})
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("PAGINATED_SAVE_AS produced no route for %s", base.Name)
			}
			page.Route = rt
		}
		listings = append(listings, page)
	}
	return listings, nil
}
