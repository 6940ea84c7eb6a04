package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/5uh417/blog/internal/urlpattern"
)

// SettingError is a problem with one named setting.
type SettingError struct {
	Setting string
	Err     error
}

func (e *SettingError) Error() string { return e.Setting + ": " + e.Err.Error() }

func (e *SettingError) Unwrap() error { return e.Err }

func settingErr(name, format string, args ...interface{}) *SettingError {
	return &SettingError{Setting: name, Err: fmt.Errorf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("mapstructure")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every setting and returns all problems at once. Each
// problem is a *SettingError naming the offending setting.
func (s *Settings) Validate() error {
	var result *multierror.Error

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating settings: %w", err)
		}
		for _, fe := range verrs {
			result = multierror.Append(result, fieldError(fe))
		}
	}

	for _, pair := range s.URLTemplates() {
		for _, err := range checkPair(pair) {
			result = multierror.Append(result, err)
		}
	}
	for _, feed := range s.Feeds() {
		if err := checkFeed(feed); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, p := range s.PagePaths {
		if p == "" {
			result = multierror.Append(result, settingErr("PAGE_PATHS", "empty entry would treat every file as a page"))
		}
	}

	if result == nil {
		return nil
	}
	result.ErrorFormat = formatErrors
	return result.ErrorOrNil()
}

func formatErrors(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = "  * " + err.Error()
	}
	return fmt.Sprintf("%d invalid setting(s):\n%s", len(errs), strings.Join(lines, "\n"))
}

func fieldError(fe validator.FieldError) *SettingError {
	name := strings.TrimPrefix(fe.Namespace(), "Settings.")
	switch fe.Tag() {
	case "required":
		return settingErr(name, "is required")
	case "gte":
		return settingErr(name, "must be at least %s, got %v", fe.Param(), fe.Value())
	case "timezone":
		return settingErr(name, "%q is not a known IANA time zone", fe.Value())
	case "bcp47_language_tag":
		return settingErr(name, "%q is not a valid language tag", fe.Value())
	case "http_url":
		return settingErr(name, "%q must be empty or an absolute http(s) URL", fe.Value())
	default:
		return settingErr(name, "failed %q check", fe.Tag())
	}
}

func checkPair(pair TemplatePair) []error {
	var errs []error
	url, err := urlpattern.Parse(pair.URL)
	if err != nil {
		errs = append(errs, &SettingError{Setting: pair.URLSetting(), Err: err})
	}
	saveAs, err := urlpattern.Parse(pair.SaveAs)
	if err != nil {
		errs = append(errs, &SettingError{Setting: pair.SaveAsSetting(), Err: err})
	}
	if len(errs) > 0 || saveAs.Empty() {
		return errs
	}

	if err := urlpattern.CheckURL(url); err != nil {
		errs = append(errs, &SettingError{Setting: pair.URLSetting(), Err: err})
	}
	if err := urlpattern.CheckSaveAs(saveAs); err != nil {
		errs = append(errs, &SettingError{Setting: pair.SaveAsSetting(), Err: err})
	}
	for _, name := range saveAs.Names() {
		if !slices.Contains(pair.Fields, name) {
			errs = append(errs, settingErr(pair.SaveAsSetting(), "unknown placeholder {%s}", name))
		}
	}
	if !urlpattern.SameFields(url, saveAs) {
		errs = append(errs, settingErr(pair.SaveAsSetting(),
			"placeholders %s do not match %s placeholders %s",
			fieldList(saveAs), pair.URLSetting(), fieldList(url)))
	}
	if pair.Name == "PAGINATED" && !slices.Contains(saveAs.Names(), "number") {
		errs = append(errs, settingErr(pair.SaveAsSetting(), "must contain {number}"))
	}
	return errs
}

func checkFeed(feed Feed) error {
	if feed.SaveAs == "" {
		return nil
	}
	p, err := urlpattern.Parse(feed.SaveAs)
	if err != nil {
		return &SettingError{Setting: feed.Name, Err: err}
	}
	if err := urlpattern.CheckSaveAs(p); err != nil {
		return &SettingError{Setting: feed.Name, Err: err}
	}
	names := p.Names()
	for _, name := range names {
		if !slices.Contains(feed.Fields, name) {
			return settingErr(feed.Name, "unknown placeholder {%s}", name)
		}
	}
	for _, name := range feed.Fields {
		if !slices.Contains(names, name) {
			return settingErr(feed.Name, "must contain {%s}", name)
		}
	}
	return nil
}

func fieldList(p *urlpattern.Pattern) string {
	fields := p.Fields()
	if len(fields) == 0 {
		return "(none)"
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, " ")
}

// Lint returns non-fatal observations about the settings.
func (s *Settings) Lint() []string {
	var warnings []string
	for _, pair := range s.URLTemplates() {
		if pair.SaveAs == "" {
			continue
		}
		want := pair.URL
		if want == "" || strings.HasSuffix(want, "/") {
			want += "index.html"
		}
		if want != pair.SaveAs {
			warnings = append(warnings, fmt.Sprintf("%s %q does not point at %s %q",
				pair.URLSetting(), pair.URL, pair.SaveAsSetting(), pair.SaveAs))
		}
	}
	if s.SiteURL == "" && !s.RelativeURLs {
		warnings = append(warnings, "SITEURL is empty; generated links are root-relative")
	}
	for _, item := range s.MenuItems {
		if item.URL == "#" {
			warnings = append(warnings, fmt.Sprintf("MENUITEMS entry %q has a placeholder URL", item.Label))
		}
	}
	return warnings
}

// CheckPaths verifies that PATH and THEME exist. Relative paths are resolved
// against root.
func (s *Settings) CheckPaths(root string) error {
	var result *multierror.Error
	for _, p := range []struct{ name, path string }{
		{"PATH", s.Path},
		{"THEME", s.Theme},
	} {
		full := p.path
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, full)
		}
		info, err := os.Stat(full)
		switch {
		case err != nil:
			result = multierror.Append(result, &SettingError{Setting: p.name, Err: err})
		case !info.IsDir():
			result = multierror.Append(result, settingErr(p.name, "%s is not a directory", full))
		}
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = formatErrors
	return result.ErrorOrNil()
}
