// Package urlpattern implements the {name:spec} templates used by the
// *_URL and *_SAVE_AS settings.
//
// A template is literal text with replacement fields. A field is either
// {name} or {name:spec}; {{ and }} produce literal braces. Dates take a
// strftime spec ({date:%Y}), integers take a zero-padded width ({number:03d}).
package urlpattern

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

var (
	reName   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reIntDef = regexp.MustCompile(`^(0?)(\d*)d$`)
)

// Field is a single replacement field.
type Field struct {
	Name string
	Spec string
}

func (f Field) String() string {
	if f.Spec == "" {
		return "{" + f.Name + "}"
	}
	return "{" + f.Name + ":" + f.Spec + "}"
}

type segment struct {
	literal string
	field   *Field
}

// Pattern is a compiled template.
type Pattern struct {
	raw      string
	segments []segment
}

// Values maps field names to the value substituted for them.
type Values map[string]interface{}

// Parse compiles s. An empty string is a valid pattern rendering to "".
func Parse(s string) (*Pattern, error) {
	p := &Pattern{raw: s}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			p.segments = append(p.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed '{' at offset %d in %q", i, s)
			}
			body := s[i+1 : i+1+end]
			if strings.ContainsRune(body, '{') {
				return nil, fmt.Errorf("nested '{' at offset %d in %q", i, s)
			}
			name, spec, _ := strings.Cut(body, ":")
			if !reName.MatchString(name) {
				return nil, fmt.Errorf("invalid field name %q in %q", name, s)
			}
			flush()
			p.segments = append(p.segments, segment{field: &Field{Name: name, Spec: spec}})
			i += end + 1
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("single '}' at offset %d in %q", i, s)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return p, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Pattern {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) String() string { return p.raw }

// Empty reports whether the pattern renders nothing. An empty SAVE_AS
// disables the output.
func (p *Pattern) Empty() bool { return len(p.segments) == 0 }

// Fields returns the distinct fields in the pattern, sorted.
func (p *Pattern) Fields() []Field {
	seen := make(map[Field]bool)
	var out []Field
	for _, seg := range p.segments {
		if seg.field != nil && !seen[*seg.field] {
			seen[*seg.field] = true
			out = append(out, *seg.field)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Spec < out[j].Spec
	})
	return out
}

// Names returns the distinct field names, sorted.
func (p *Pattern) Names() []string {
	var names []string
	for _, f := range p.Fields() {
		if len(names) == 0 || names[len(names)-1] != f.Name {
			names = append(names, f.Name)
		}
	}
	return names
}

// Literals returns the literal text of the pattern with every field removed.
func (p *Pattern) Literals() []string {
	var out []string
	for _, seg := range p.segments {
		if seg.field == nil {
			out = append(out, seg.literal)
		}
	}
	return out
}

// SameFields reports whether a and b use exactly the same fields.
func SameFields(a, b *Pattern) bool {
	fa, fb := a.Fields(), b.Fields()
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if fa[i] != fb[i] {
			return false
		}
	}
	return true
}

// Render substitutes values into the pattern.
func (p *Pattern) Render(values Values) (string, error) {
	var b strings.Builder
	for _, seg := range p.segments {
		if seg.field == nil {
			b.WriteString(seg.literal)
			continue
		}
		v, ok := values[seg.field.Name]
		if !ok {
			return "", fmt.Errorf("%s: no value for field %s", p.raw, seg.field)
		}
		s, err := formatValue(v, seg.field.Spec)
		if err != nil {
			return "", fmt.Errorf("%s: field %s: %w", p.raw, seg.field, err)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func formatValue(v interface{}, spec string) (string, error) {
	switch x := v.(type) {
	case time.Time:
		if spec == "" {
			return x.Format("2006-01-02 15:04:05"), nil
		}
		return strftime.Format(spec, x), nil
	case int:
		if spec == "" {
			return strconv.Itoa(x), nil
		}
		m := reIntDef.FindStringSubmatch(spec)
		if m == nil {
			return "", fmt.Errorf("unsupported integer spec %q", spec)
		}
		width := 0
		if m[2] != "" {
			width, _ = strconv.Atoi(m[2])
		}
		if m[1] == "0" {
			return fmt.Sprintf("%0*d", width, x), nil
		}
		return fmt.Sprintf("%*d", width, x), nil
	case string:
		if spec != "" {
			return "", fmt.Errorf("spec %q not supported for text", spec)
		}
		return x, nil
	case fmt.Stringer:
		if spec != "" {
			return "", fmt.Errorf("spec %q not supported for text", spec)
		}
		return x.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
