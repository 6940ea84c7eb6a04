package route

import (
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/5uh417/blog/internal/content"
	"github.com/5uh417/blog/internal/model"
	"github.com/5uh417/blog/internal/urlpattern"
)

// CollisionError reports two routes writing the same file.
type CollisionError struct {
	SaveAs string
	First  model.Route
	Second model.Route
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s %q and %s %q both write %s",
		e.First.Kind, e.First.Name, e.Second.Kind, e.Second.Name, e.SaveAs)
}

type builder struct {
	r      *Router
	routes []model.Route
	errs   *multierror.Error
}

func (b *builder) add(rt model.Route, ok bool, err error) {
	if err != nil {
		b.errs = multierror.Append(b.errs, err)
		return
	}
	if ok {
		b.routes = append(b.routes, rt)
	}
}

func (b *builder) paginate(rt model.Route, ok bool, err error, items []*model.ContentItem) {
	if err != nil || !ok {
		b.add(rt, ok, err)
		return
	}
	listings, err := b.r.Paginate(rt, items)
	if err != nil {
		b.errs = multierror.Append(b.errs, err)
		return
	}
	for _, l := range listings {
		b.routes = append(b.routes, l.Route)
	}
}

// Table returns every output the settings imply for items, in generation
// order. Outputs whose SAVE_AS is empty are left out. Two outputs writing
// the same file are reported as *CollisionError.
func (r *Router) Table(items []*model.ContentItem) ([]model.Route, error) {
	b := &builder{r: r}

	var articles []*model.ContentItem
	byCategory, byAuthor, byTag := taxonomy{}, taxonomy{}, taxonomy{}
	langs := map[string]bool{}
	for _, item := range items {
		switch item.Kind {
		case model.KindArticle:
			b.add(r.Article(item))
			articles = append(articles, item)
			byCategory.add(item.Category, item)
			byAuthor.add(item.Author, item)
			for _, tag := range item.Tags {
				byTag.add(tag, item)
			}
			langs[item.Lang] = true
		case model.KindPage:
			b.add(r.Page(item))
		}
	}

	perListing := r.PaginatesPerListing()
	for _, group := range []struct {
		kind  model.Kind
		terms taxonomy
	}{
		{model.KindCategory, byCategory},
		{model.KindAuthor, byAuthor},
		{model.KindTag, byTag},
	} {
		for _, slug := range sortedKeys(group.terms) {
			tm := group.terms[slug]
			rt, ok, err := r.Taxonomy(group.kind, tm.name)
			if perListing {
				b.paginate(rt, ok, err, tm.items)
			} else {
				b.add(rt, ok, err)
			}
		}
	}

	rt, ok, err := r.Listing(model.KindIndex)
	b.paginate(rt, ok, err, articles)
	for _, kind := range []model.Kind{model.KindTags, model.KindCategories, model.KindAuthors, model.KindArchives} {
		b.add(r.Listing(kind))
	}

	for _, period := range archivePeriods(articles) {
		b.add(r.Archive(model.KindYearArchive, period.year))
		for _, month := range period.months {
			b.add(r.Archive(model.KindMonthArchive, month))
		}
	}

	b.feeds(byCategory.names(), byTag.names(), byAuthor.names(), sortedKeys(langs))

	for _, c := range collisions(b.routes) {
		b.errs = multierror.Append(b.errs, c)
	}
	return b.routes, b.errs.ErrorOrNil()
}

func (b *builder) feeds(categories, tags, authors, langs []string) {
	for _, f := range b.r.settings.Feeds() {
		p, ok := b.r.feeds[f.Name]
		if !ok {
			continue
		}
		var names []string
		field := ""
		switch f.Name {
		case "FEED_ALL_ATOM", "FEED_ALL_RSS":
			names = []string{"all"}
		case "CATEGORY_FEED_ATOM":
			names, field = categories, "slug"
		case "TAG_FEED_ATOM":
			names, field = tags, "slug"
		case "AUTHOR_FEED_ATOM", "AUTHOR_FEED_RSS":
			names, field = authors, "slug"
		case "TRANSLATION_FEED_ATOM":
			names, field = langs, "lang"
		}
		for _, name := range names {
			values := urlpattern.Values{}
			if field == "slug" {
				values["slug"] = content.Slugify(name)
			} else if field != "" {
				values[field] = name
			}
			saveAs, err := p.Render(values)
			if err == nil {
				err = urlpattern.SafePath(saveAs)
			}
			if err != nil {
				b.errs = multierror.Append(b.errs, fmt.Errorf("%s for %q: %w", f.Name, name, err))
				continue
			}
			b.routes = append(b.routes, model.Route{
				Kind:      model.KindFeed,
				Name:      f.Name + " " + name,
				URL:       saveAs,
				SaveAs:    saveAs,
				Permalink: b.r.Permalink(saveAs),
			})
		}
	}
}

type term struct {
	name  string
	items []*model.ContentItem
}

// taxonomy groups articles by the slug of a category, author or tag name,
// so names differing only in case or accents share one page. The first
// spelling seen is kept for display.
type taxonomy map[string]*term

func (t taxonomy) add(name string, item *model.ContentItem) {
	slug := content.Slugify(name)
	tm, ok := t[slug]
	if !ok {
		tm = &term{name: name}
		t[slug] = tm
	}
	tm.items = append(tm.items, item)
}

func (t taxonomy) names() []string {
	out := make([]string, 0, len(t))
	for _, slug := range sortedKeys(t) {
		out = append(out, t[slug].name)
	}
	return out
}

type period struct {
	year   time.Time
	months []time.Time
}

// archivePeriods groups article dates by year and month, newest first.
func archivePeriods(articles []*model.ContentItem) []period {
	years := map[int]*period{}
	seenMonth := map[[2]int]bool{}
	for _, a := range articles {
		y, m := a.Date.Year(), a.Date.Month()
		p, ok := years[y]
		if !ok {
			p = &period{year: time.Date(y, time.January, 1, 0, 0, 0, 0, a.Date.Location())}
			years[y] = p
		}
		if key := [2]int{y, int(m)}; !seenMonth[key] {
			seenMonth[key] = true
			p.months = append(p.months, time.Date(y, m, 1, 0, 0, 0, 0, a.Date.Location()))
		}
	}
	out := make([]period, 0, len(years))
	for _, p := range years {
		sort.Slice(p.months, func(i, j int) bool { return p.months[i].After(p.months[j]) })
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].year.After(out[j].year) })
	return out
}

func collisions(routes []model.Route) []error {
	owner := make(map[string]model.Route, len(routes))
	var errs []error
	for _, rt := range routes {
		if prev, ok := owner[rt.SaveAs]; ok {
			errs = append(errs, &CollisionError{SaveAs: rt.SaveAs, First: prev, Second: rt})
			continue
		}
		owner[rt.SaveAs] = rt
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
