package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. BLOG_SITEURL.
const EnvPrefix = "BLOG"

// LoadOptions selects the sources Load reads on top of Defaults.
type LoadOptions struct {
	// ConfigFile is an explicit config file (YAML, TOML or JSON).
	// When empty, SearchPaths are searched for ConfigName.
	ConfigFile  string
	ConfigName  string
	SearchPaths []string
	// PublishFile is merged over the config file, the way a publish
	// configuration overrides SITEURL and feeds for deployment.
	PublishFile string
	// EnvFile is a dotenv file read on every Load if present. Its BLOG_*
	// entries rank below the process environment.
	EnvFile string
}

// Load builds Settings from defaults, the config file, the publish overlay
// and BLOG_* environment variables, in increasing precedence.
func Load(opts LoadOptions) (*Settings, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case opts.ConfigFile != "":
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
		slog.Debug("using config file", "path", v.ConfigFileUsed())
	case len(opts.SearchPaths) > 0:
		name := opts.ConfigName
		if name == "" {
			name = "blogconf"
		}
		v.SetConfigName(name)
		for _, p := range opts.SearchPaths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			slog.Debug("no config file found, using defaults", "name", name)
		} else {
			slog.Debug("using config file", "path", v.ConfigFileUsed())
		}
	}

	if opts.PublishFile != "" {
		v.SetConfigFile(opts.PublishFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to merge publish file %s: %w", opts.PublishFile, err)
		}
		slog.Debug("merged publish file", "path", opts.PublishFile)
	}

	if opts.EnvFile != "" {
		if err := applyEnvFile(v, opts.EnvFile); err != nil {
			return nil, err
		}
	}

	var s Settings
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.DecodeHookFuncType(linkHook),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.UnmarshalExact(&s, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	return &s, nil
}

// applyEnvFile overrides settings with the BLOG_* entries of a dotenv file.
// The file is read afresh each call, and variables already present in the
// process environment keep precedence.
func applyEnvFile(v *viper.Viper, file string) error {
	vals, err := godotenv.Read(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", file, err)
	}
	known := make(map[string]bool)
	for _, k := range v.AllKeys() {
		known[k] = true
	}
	for name, val := range vals {
		key, ok := strings.CutPrefix(name, EnvPrefix+"_")
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if !known[strings.ToLower(key)] {
			slog.Warn("ignoring unknown setting in env file", "path", file, "name", name)
			continue
		}
		v.Set(key, val)
	}
	slog.Debug("applied env file", "path", file)
	return nil
}

// setDefaults registers every field of d under its setting name so that
// environment overrides and unknown-key detection see the full key set.
func setDefaults(v *viper.Viper, d Settings) {
	rv := reflect.ValueOf(d)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := rt.Field(i).Tag.Get("mapstructure")
		if name == "" || name == "-" {
			continue
		}
		v.SetDefault(name, rv.Field(i).Interface())
	}
}

var linkType = reflect.TypeOf(Link{})

// linkHook decodes a two-element list into a Link.
func linkHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != linkType {
		return data, nil
	}
	if from.Kind() != reflect.Slice && from.Kind() != reflect.Array {
		return data, nil
	}
	rv := reflect.ValueOf(data)
	if rv.Len() != 2 {
		return nil, fmt.Errorf("expected a (label, URL) pair, got %d elements", rv.Len())
	}
	return map[string]interface{}{
		"label": rv.Index(0).Interface(),
		"url":   rv.Index(1).Interface(),
	}, nil
}
