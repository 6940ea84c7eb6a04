// Package content finds the articles and pages under the content root and
// reads their metadata. Bodies are never rendered.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/5uh417/blog/internal/config"
	"github.com/5uh417/blog/internal/model"
)

// DefaultCategory is assigned to articles that declare no category and
// live directly under an article path.
const DefaultCategory = "misc"

var markdownExts = map[string]bool{".md": true, ".markdown": true, ".mkd": true, ".mdown": true}

// Discover walks PATH/ARTICLE_PATHS and PATH/PAGE_PATHS (relative to root)
// and returns one item per content file. Draft items are left out.
// Articles are sorted newest first, pages by title.
func Discover(ctx context.Context, s *config.Settings, root string) ([]*model.ContentItem, error) {
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}
	contentRoot := s.Path
	if !filepath.IsAbs(contentRoot) {
		contentRoot = filepath.Join(root, contentRoot)
	}

	d := &discoverer{
		settings: s,
		loc:      loc,
		seen:     make(map[string]bool),
	}

	skip := make(map[string]bool)
	for _, p := range append(append([]string{}, s.PagePaths...), s.StaticPaths...) {
		skip[filepath.Join(contentRoot, p)] = true
	}

	for _, p := range s.PagePaths {
		if err := d.walk(ctx, filepath.Join(contentRoot, p), model.KindPage, nil); err != nil {
			return nil, err
		}
	}
	for _, p := range s.ArticlePaths {
		if err := d.walk(ctx, filepath.Join(contentRoot, p), model.KindArticle, skip); err != nil {
			return nil, err
		}
	}

	sortItems(d.items)
	return d.items, nil
}

type discoverer struct {
	settings *config.Settings
	loc      *time.Location
	items    []*model.ContentItem
	seen     map[string]bool
}

func (d *discoverer) walk(ctx context.Context, dir string, kind model.Kind, skip map[string]bool) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		slog.Debug("content directory not found, skipping", "dir", dir, "kind", kind)
		return nil
	}
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if path != dir && skip[path] {
				return filepath.SkipDir
			}
			if path != dir && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.seen[path] {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !markdownExts[ext] && ext != ".rst" {
			return nil
		}
		d.seen[path] = true

		item, err := d.read(path, dir, kind)
		if err != nil {
			return err
		}
		if item == nil {
			return nil
		}
		d.items = append(d.items, item)
		return nil
	})
}

func (d *discoverer) read(path, base string, kind model.Kind) (*model.ContentItem, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	var (
		meta map[string]interface{}
		body []byte
	)
	if strings.ToLower(filepath.Ext(path)) == ".rst" {
		meta, err = readRSTMeta(src)
	} else {
		meta, body, err = readMarkdownMeta(src)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	item := &model.ContentItem{
		Kind:       kind,
		SourcePath: path,
		Metadata:   meta,
		Status:     strings.ToLower(metaString(meta, "status")),
	}
	if item.Status == "draft" {
		slog.Debug("skipping draft", "path", path)
		return nil, nil
	}
	if item.Status == "" {
		item.Status = "published"
	}

	item.Title = metaString(meta, "title")
	if item.Title == "" && body != nil {
		item.Title = firstHeading(body)
	}
	if item.Title == "" {
		item.Title = titleFromFilename(path)
	}

	item.Slug = metaString(meta, "slug")
	if item.Slug == "" {
		item.Slug = Slugify(item.Title)
	}
	if item.Slug == "" {
		return nil, fmt.Errorf("%s: cannot derive a slug from title %q", path, item.Title)
	}

	item.Lang = metaString(meta, "lang")
	if item.Lang == "" {
		item.Lang = d.settings.DefaultLang
	}
	item.Author = metaString(meta, "author")
	if item.Author == "" {
		if authors := metaList(meta, "authors"); len(authors) > 0 {
			item.Author = authors[0]
		} else {
			item.Author = d.settings.Author
		}
	}

	if kind == model.KindArticle {
		item.Category = metaString(meta, "category")
		if item.Category == "" {
			item.Category = folderCategory(base, path)
		}
		item.Tags = metaList(meta, "tags")
	}

	if raw, ok := meta["date"]; ok && raw != nil {
		date, err := parseDate(raw, d.loc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		item.Date = date
	} else if kind == model.KindArticle {
		return nil, fmt.Errorf("%s: article has no date", path)
	}

	return item, nil
}

// folderCategory names the category after the first directory below the
// article path, falling back to DefaultCategory.
func folderCategory(base, path string) string {
	rel, err := filepath.Rel(base, filepath.Dir(path))
	if err != nil || rel == "." {
		return DefaultCategory
	}
	return strings.Split(rel, string(filepath.Separator))[0]
}

func sortItems(items []*model.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Kind != b.Kind {
			return a.Kind == model.KindArticle
		}
		if a.Kind == model.KindArticle && !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Title < b.Title
	})
}
