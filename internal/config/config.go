// Package config resolves the packaged defaults and an optional user
// document into a merged tree, and projects it into a yt-dlp options bag.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Error reports a config document that could not be read or understood.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config is the merged configuration tree.
type Config struct {
	Raw map[string]any

	subdirs  Subdirs
	advanced Advanced
	profiles map[string]Profile
}

// Subdirs holds the directory templates resolved by yt-dlp per video.
type Subdirs struct {
	PerItem     string `mapstructure:"per_item" yaml:"per_item"`
	PerPlaylist string `mapstructure:"per_playlist" yaml:"per_playlist"`
}

// Advanced is the decoded "advanced" section.
type Advanced struct {
	OuttmplNAPlaceholder string        `mapstructure:"outtmpl_na_placeholder"`
	ItemInterval         time.Duration `mapstructure:"item_interval"`
	History              *bool         `mapstructure:"history"`
}

// HistoryEnabled defaults to true when the key is absent.
func (a Advanced) HistoryEnabled() bool {
	return a.History == nil || *a.History
}

// Profile is one entry of the "profiles" section. Nil fields were not set.
type Profile struct {
	Format            *string `mapstructure:"format"`
	MergeOutputFormat *string `mapstructure:"merge_output_format"`
	RemuxVideo        *string `mapstructure:"remuxvideo"`
}

const (
	DefaultPerItem     = "%(title).80s [%(id)s]"
	DefaultPerPlaylist = "%(playlist_title).80s [%(playlist_id)s]"
	DefaultFilename    = "%(upload_date>%Y-%m-%d)s%(release_timestamp>_%H-%M-%S|)s - {idx} - %(title).100s.%(ext)s"
)

// LoadDefaults parses the embedded default document.
func LoadDefaults() (map[string]any, error) {
	m, err := parseDocument(defaultsYAML)
	if err != nil {
		return nil, &Error{Path: "<defaults>", Err: err}
	}
	return m, nil
}

// Load deep-merges the document at overridePath (if any) over the defaults.
func Load(overridePath string) (*Config, error) {
	defaults, err := LoadDefaults()
	if err != nil {
		return nil, err
	}

	user := map[string]any{}
	if overridePath != "" {
		data, rerr := os.ReadFile(overridePath)
		if rerr != nil {
			return nil, &Error{Path: overridePath, Err: rerr}
		}
		user, err = parseDocument(data)
		if err != nil {
			return nil, &Error{Path: overridePath, Err: err}
		}
	}

	c := &Config{Raw: DeepMerge(defaults, user)}
	if err := c.decode(); err != nil {
		return nil, &Error{Path: overridePath, Err: err}
	}
	return c, nil
}

// DeepMerge overlays b onto a: mappings present on both sides merge
// recursively, anything else in b replaces a's value. Neither input is modified.
func DeepMerge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		bm, bIsMap := v.(map[string]any)
		am, aIsMap := out[k].(map[string]any)
		if bIsMap && aIsMap {
			out[k] = DeepMerge(am, bm)
			continue
		}
		out[k] = v
	}
	return out
}

func parseDocument(data []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	m, ok := normalize(doc).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level must be a mapping, got %T", doc)
	}
	return m, nil
}

// normalize rewrites non-string-keyed mappings so every mapping in the tree
// is a map[string]any.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, vv := range t {
			t[k] = normalize(vv)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[fmt.Sprint(k)] = normalize(vv)
		}
		return m
	case []any:
		for i, vv := range t {
			t[i] = normalize(vv)
		}
		return t
	default:
		return v
	}
}

func (c *Config) decode() error {
	c.subdirs = Subdirs{}
	if err := decodeSection(c.Raw["subdirs"], &c.subdirs); err != nil {
		return fmt.Errorf("subdirs: %w", err)
	}

	c.advanced = Advanced{}
	if err := decodeSection(c.Raw["advanced"], &c.advanced); err != nil {
		return fmt.Errorf("advanced: %w", err)
	}

	c.profiles = map[string]Profile{}
	raw, err := section(c.Raw["profiles"])
	if err != nil {
		return fmt.Errorf("profiles: %w", err)
	}
	for name, v := range raw {
		var p Profile
		if err := decodeSection(v, &p); err != nil {
			return fmt.Errorf("profiles.%s: %w", name, err)
		}
		c.profiles[name] = p
	}

	for _, name := range []string{"behavior", "network", "media"} {
		if _, err := section(c.Raw[name]); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func decodeSection(in any, out any) error {
	if in == nil {
		return nil
	}
	if _, ok := in.(map[string]any); !ok {
		return fmt.Errorf("expected mapping, got %T", in)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// section returns v as a mapping; nil is an empty section.
func section(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
	return m, nil
}
