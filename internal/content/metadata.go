package content

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	reHeaderLine = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*):\s*(.*)$`)
	reRSTField   = regexp.MustCompile(`^:([A-Za-z][A-Za-z0-9_-]*):\s*(.*)$`)
	reRSTUnder   = regexp.MustCompile(`^[=\-~^"'#*+]{2,}$`)
)

var dateFormats = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// readMarkdownMeta extracts metadata from a Markdown source. YAML, TOML or
// JSON front matter is tried first, then a "Key: value" header block ending
// at the first blank line.
func readMarkdownMeta(src []byte) (map[string]interface{}, []byte, error) {
	meta := make(map[string]interface{})
	rest, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing front matter: %w", err)
	}
	if len(meta) > 0 {
		return lowerKeys(meta), rest, nil
	}

	header, body := splitHeader(src, reHeaderLine)
	return header, body, nil
}

// readRSTMeta extracts the document title and ":key: value" field list.
func readRSTMeta(src []byte) (map[string]interface{}, error) {
	meta := make(map[string]interface{})
	sc := bufio.NewScanner(bytes.NewReader(src))
	var prev string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t")
		if _, ok := meta["title"]; !ok && prev != "" && isRSTUnderline(line) && len(line) >= len(prev) {
			meta["title"] = prev
		}
		if m := reRSTField.FindStringSubmatch(line); m != nil {
			meta[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
		}
		if !isRSTUnderline(line) {
			prev = strings.TrimSpace(line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return meta, nil
}

// isRSTUnderline reports whether line is a section adornment: two or more
// repetitions of one punctuation character.
func isRSTUnderline(line string) bool {
	l := strings.TrimSpace(line)
	return reRSTUnder.MatchString(l) && strings.Count(l, l[:1]) == len(l)
}

func splitHeader(src []byte, re *regexp.Regexp) (map[string]interface{}, []byte) {
	meta := make(map[string]interface{})
	lines := bytes.SplitAfter(src, []byte("\n"))
	consumed := 0
	for _, raw := range lines {
		line := strings.TrimRight(string(raw), "\r\n")
		if strings.TrimSpace(line) == "" {
			if len(meta) > 0 {
				consumed += len(raw)
			}
			break
		}
		m := re.FindStringSubmatch(line)
		if m == nil {
			break
		}
		meta[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
		consumed += len(raw)
	}
	if len(meta) == 0 {
		return meta, src
	}
	return meta, src[consumed:]
}

func lowerKeys(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out
}

// firstHeading returns the text of the first level-one heading in a
// Markdown body, or "".
func firstHeading(body []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(body))
	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		_ = ast.Walk(h, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
			if t, ok := c.(*ast.Text); ok && entering {
				b.Write(t.Segment.Value(body))
				if t.SoftLineBreak() {
					b.WriteByte(' ')
				}
			}
			return ast.WalkContinue, nil
		})
		title = strings.TrimSpace(b.String())
		return ast.WalkStop, nil
	})
	return title
}

func metaString(meta map[string]interface{}, key string) string {
	switch v := meta[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// metaList reads a list value, accepting either a YAML list or a
// comma-separated string.
func metaList(meta map[string]interface{}, key string) []string {
	var raw []string
	switch v := meta[key].(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(v, ",")
	case []interface{}:
		for _, x := range v {
			raw = append(raw, fmt.Sprint(x))
		}
	case []string:
		raw = v
	default:
		raw = []string{fmt.Sprint(v)}
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseDate(v interface{}, loc *time.Location) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		// YAML decoders hand naive timestamps back as UTC; they are local.
		if d.Location() == time.UTC {
			return time.Date(d.Year(), d.Month(), d.Day(), d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), loc), nil
		}
		return d.In(loc), nil
	case string:
		d = strings.TrimSpace(d)
		for _, layout := range dateFormats {
			if t, err := time.ParseInLocation(layout, d, loc); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q, use YYYY-MM-DD or RFC3339", d)
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v", v)
	}
}
