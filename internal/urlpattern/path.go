package urlpattern

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	ErrAbsolute  = errors.New("must be relative, not start with '/'")
	ErrParentDir = errors.New("must not contain '..' segments")
	ErrBadChar   = errors.New("must not contain backslashes or NUL bytes")
	ErrDirectory = errors.New("must name a file, not end with '/'")
	ErrNotFile   = errors.New("does not name a file")
)

// CheckSaveAs reports whether every rendering of p is a filesystem-safe
// relative file path. A pattern without fields is checked as a path; otherwise
// only the literal parts are inspected and rendered values are checked again
// with SafePath.
func CheckSaveAs(p *Pattern) error {
	if p.Empty() {
		return nil
	}
	if err := checkLiterals(p); err != nil {
		return err
	}
	if len(p.Names()) == 0 {
		fixed, err := p.Render(nil)
		if err != nil {
			return err
		}
		return SafePath(fixed)
	}
	last := p.segments[len(p.segments)-1]
	if last.field != nil {
		return nil
	}
	if strings.HasSuffix(last.literal, "/") {
		return ErrDirectory
	}
	if i := strings.LastIndex(last.literal, "/"); i >= 0 && last.literal[i+1:] == "." {
		return ErrNotFile
	}
	return nil
}

// CheckURL reports whether p is usable as a site-relative URL.
func CheckURL(p *Pattern) error {
	if p.Empty() {
		return nil
	}
	return checkLiterals(p)
}

func checkLiterals(p *Pattern) error {
	if first := p.segments[0]; first.field == nil && strings.HasPrefix(first.literal, "/") {
		return ErrAbsolute
	}
	for _, lit := range p.Literals() {
		if strings.ContainsAny(lit, "\\\x00") {
			return ErrBadChar
		}
		for _, part := range strings.Split(lit, "/") {
			if part == ".." {
				return ErrParentDir
			}
		}
	}
	return nil
}

// SafePath validates a rendered SAVE_AS value.
func SafePath(p string) error {
	switch {
	case p == "":
		return errors.New("empty path")
	case strings.HasPrefix(p, "/"):
		return fmt.Errorf("%q %w", p, ErrAbsolute)
	case strings.ContainsAny(p, "\\\x00"):
		return fmt.Errorf("%q %w", p, ErrBadChar)
	case strings.HasSuffix(p, "/"):
		return fmt.Errorf("%q %w", p, ErrDirectory)
	}
	parts := strings.Split(p, "/")
	for _, part := range parts {
		if part == ".." {
			return fmt.Errorf("%q %w", p, ErrParentDir)
		}
	}
	if parts[len(parts)-1] == "." || path.Clean(p) == "." {
		return fmt.Errorf("%q %w", p, ErrNotFile)
	}
	return nil
}
