// Package options holds the flat yt-dlp options bag handed to the engine
// for every work item.
package options

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known option names shared by the config projection, the CLI overlays
// and the engine's argument translation.
const (
	KeyPaths              = "paths"
	KeyOuttmpl            = "outtmpl"
	KeyNoPlaylist         = "noplaylist"
	KeyDownloadArchive    = "download_archive"
	KeyCookieFile         = "cookiefile"
	KeyCookiesFromBrowser = "cookiesfrombrowser"
	KeyImpersonate        = "impersonate"
	KeyExtractorArgs      = "extractor_args"
	KeyQuiet              = "quiet"
	KeyNoWarnings         = "no_warnings"
	KeyVerbose            = "verbose"
)

// Options maps yt-dlp option names to values.
type Options map[string]any

// Clone returns a deep copy, so per-item mutations never leak into the
// shared bag.
func (o Options) Clone() Options {
	if o == nil {
		return Options{}
	}
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Options:
		return t.Clone()
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case map[string]string:
		m := make(map[string]string, len(t))
		for k, vv := range t {
			m[k] = vv
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	case ExtractorArgs:
		return t.Clone()
	default:
		return v
	}
}

// String returns the value at key as a string, or "" when absent or not a string.
func (o Options) String(key string) string {
	s, _ := o[key].(string)
	return s
}

// Bool reports whether key holds boolean true.
func (o Options) Bool(key string) bool {
	b, _ := o[key].(bool)
	return b
}

// BaseDir returns paths.home, or "." when unset.
func (o Options) BaseDir() string {
	switch p := o[KeyPaths].(type) {
	case map[string]string:
		if h := p["home"]; h != "" {
			return h
		}
	case map[string]any:
		if h, ok := p["home"].(string); ok && h != "" {
			return h
		}
	}
	return "."
}

// Keys returns the option names in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// YAML renders the bag for dry-run output.
func (o Options) YAML() ([]byte, error) {
	return yaml.Marshal(map[string]any(o))
}

// BrowserCookies is the parsed form of BROWSER[:PROFILE].
type BrowserCookies struct {
	Browser string
	Profile string
}

// ParseBrowserCookies splits "chrome:Profile 1" on the first colon.
func ParseBrowserCookies(spec string) BrowserCookies {
	b, p, _ := strings.Cut(spec, ":")
	return BrowserCookies{Browser: b, Profile: p}
}

// String renders the value the way yt-dlp's --cookies-from-browser expects it.
func (c BrowserCookies) String() string {
	if c.Profile == "" {
		return c.Browser
	}
	return c.Browser + ":" + c.Profile
}

// MarshalYAML keeps dry-run output on one line.
func (c BrowserCookies) MarshalYAML() (any, error) {
	return c.String(), nil
}

// ExtractorArgs maps extractor name -> argument key -> values.
type ExtractorArgs map[string]map[string][]string

// Clone returns a deep copy.
func (e ExtractorArgs) Clone() ExtractorArgs {
	out := make(ExtractorArgs, len(e))
	for extr, args := range e {
		m := make(map[string][]string, len(args))
		for k, vals := range args {
			m[k] = append([]string(nil), vals...)
		}
		out[extr] = m
	}
	return out
}

// MergeExtractorArgs copies dst (as found in the bag, possibly a raw config
// mapping) and appends every value from src not already present.
func MergeExtractorArgs(dst any, src ExtractorArgs) (ExtractorArgs, error) {
	out, err := ToExtractorArgs(dst)
	if err != nil {
		return nil, err
	}
	for extr, args := range src {
		cur, ok := out[extr]
		if !ok {
			cur = map[string][]string{}
			out[extr] = cur
		}
		for key, vals := range args {
			for _, v := range vals {
				if !contains(cur[key], v) {
					cur[key] = append(cur[key], v)
				}
			}
		}
	}
	return out, nil
}

// ToExtractorArgs normalizes a bag value into ExtractorArgs. Config documents
// may spell values as a scalar or a list.
func ToExtractorArgs(v any) (ExtractorArgs, error) {
	switch t := v.(type) {
	case nil:
		return ExtractorArgs{}, nil
	case ExtractorArgs:
		return t.Clone(), nil
	case map[string]any:
		out := make(ExtractorArgs, len(t))
		for extr, raw := range t {
			args, ok := raw.(map[string]any)
			if !ok {
				if raw == nil {
					out[extr] = map[string][]string{}
					continue
				}
				return nil, fmt.Errorf("extractor_args.%s: expected mapping, got %T", extr, raw)
			}
			m := make(map[string][]string, len(args))
			for key, vals := range args {
				m[key] = stringList(vals)
			}
			out[extr] = m
		}
		return out, nil
	default:
		return nil, fmt.Errorf("extractor_args: expected mapping, got %T", v)
	}
}

func stringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			out = append(out, fmt.Sprint(x))
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}

func contains(ss []string, q string) bool {
	for _, s := range ss {
		if s == q {
			return true
		}
	}
	return false
}
