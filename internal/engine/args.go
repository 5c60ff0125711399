package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ytsave/internal/options"
)

type flagKind int

const (
	kindValue  flagKind = iota // --flag VALUE
	kindSwitch                 // --flag when true, off flag (if any) when false
	kindList                   // --flag a,b,c
)

type flagSpec struct {
	kind flagKind
	on   string
	off  string
}

// flagTable maps options-bag keys (yt-dlp's embedding API names) to CLI flags.
var flagTable = map[string]flagSpec{
	"format":                 {kind: kindValue, on: "--format"},
	"merge_output_format":    {kind: kindValue, on: "--merge-output-format"},
	"remuxvideo":             {kind: kindValue, on: "--remux-video"},
	options.KeyOuttmpl:       {kind: kindValue, on: "--output"},
	"outtmpl_na_placeholder": {kind: kindValue, on: "--output-na-placeholder"},

	options.KeyDownloadArchive: {kind: kindValue, on: "--download-archive"},
	options.KeyNoPlaylist:      {kind: kindSwitch, on: "--no-playlist", off: "--yes-playlist"},
	"ignoreerrors":             {kind: kindSwitch, on: "--ignore-errors"},
	"continuedl":               {kind: kindSwitch, on: "--continue", off: "--no-continue"},
	"overwrites":               {kind: kindSwitch, on: "--force-overwrites", off: "--no-overwrites"},
	"nopart":                   {kind: kindSwitch, on: "--no-part"},
	"restrictfilenames":        {kind: kindSwitch, on: "--restrict-filenames", off: "--no-restrict-filenames"},
	"windowsfilenames":         {kind: kindSwitch, on: "--windows-filenames", off: "--no-windows-filenames"},
	"skip_download":            {kind: kindSwitch, on: "--skip-download"},
	options.KeyQuiet:           {kind: kindSwitch, on: "--quiet"},
	options.KeyNoWarnings:      {kind: kindSwitch, on: "--no-warnings"},
	options.KeyVerbose:         {kind: kindSwitch, on: "--verbose"},
	"noprogress":               {kind: kindSwitch, on: "--no-progress"},

	"retries":                       {kind: kindValue, on: "--retries"},
	"fragment_retries":              {kind: kindValue, on: "--fragment-retries"},
	"extractor_retries":             {kind: kindValue, on: "--extractor-retries"},
	"socket_timeout":                {kind: kindValue, on: "--socket-timeout"},
	"sleep_interval":                {kind: kindValue, on: "--sleep-interval"},
	"max_sleep_interval":            {kind: kindValue, on: "--max-sleep-interval"},
	"sleep_interval_requests":       {kind: kindValue, on: "--sleep-requests"},
	"sleep_interval_subtitles":      {kind: kindValue, on: "--sleep-subtitles"},
	"ratelimit":                     {kind: kindValue, on: "--limit-rate"},
	"throttledratelimit":            {kind: kindValue, on: "--throttled-rate"},
	"proxy":                         {kind: kindValue, on: "--proxy"},
	"source_address":                {kind: kindValue, on: "--source-address"},
	"concurrent_fragment_downloads": {kind: kindValue, on: "--concurrent-fragments"},
	"geo_bypass":                    {kind: kindSwitch, on: "--geo-bypass", off: "--no-geo-bypass"},

	"writesubtitles":    {kind: kindSwitch, on: "--write-subs", off: "--no-write-subs"},
	"writeautomaticsub": {kind: kindSwitch, on: "--write-auto-subs", off: "--no-write-auto-subs"},
	"subtitleslangs":    {kind: kindList, on: "--sub-langs"},
	"subtitlesformat":   {kind: kindValue, on: "--sub-format"},
	"embedsubtitles":    {kind: kindSwitch, on: "--embed-subs", off: "--no-embed-subs"},
	"writethumbnail":    {kind: kindSwitch, on: "--write-thumbnail", off: "--no-write-thumbnail"},
	"embedthumbnail":    {kind: kindSwitch, on: "--embed-thumbnail", off: "--no-embed-thumbnail"},
	"addmetadata":       {kind: kindSwitch, on: "--embed-metadata", off: "--no-embed-metadata"},
	"embedchapters":     {kind: kindSwitch, on: "--embed-chapters", off: "--no-embed-chapters"},
	"writeinfojson":     {kind: kindSwitch, on: "--write-info-json", off: "--no-write-info-json"},
	"writedescription":  {kind: kindSwitch, on: "--write-description", off: "--no-write-description"},

	options.KeyCookieFile:  {kind: kindValue, on: "--cookies"},
	options.KeyImpersonate: {kind: kindValue, on: "--impersonate"},
}

// probeKeys are the only options forwarded to a metadata probe: network,
// auth and playlist handling. Anything that writes files stays out.
var probeKeys = map[string]bool{
	options.KeyNoPlaylist:         true,
	options.KeyCookieFile:         true,
	options.KeyCookiesFromBrowser: true,
	options.KeyImpersonate:        true,
	options.KeyExtractorArgs:      true,
	"proxy":                       true,
	"source_address":              true,
	"socket_timeout":              true,
	"retries":                     true,
	"extractor_retries":           true,
	"sleep_interval_requests":     true,
	"geo_bypass":                  true,
	"http_headers":                true,
}

// Args translates the options bag into yt-dlp arguments. Keys are visited in
// sorted order so the result is deterministic. Keys with no known flag are
// returned in unknown and skipped.
func Args(opts options.Options) (args []string, unknown []string, err error) {
	for _, key := range opts.Keys() {
		v := opts[key]
		if v == nil {
			continue
		}

		switch key {
		case options.KeyPaths:
			a, perr := pathArgs(v)
			if perr != nil {
				return nil, nil, perr
			}
			args = append(args, a...)
			continue
		case options.KeyCookiesFromBrowser:
			args = append(args, "--cookies-from-browser", browserCookies(v))
			continue
		case options.KeyExtractorArgs:
			ea, eerr := options.ToExtractorArgs(v)
			if eerr != nil {
				return nil, nil, eerr
			}
			for _, s := range extractorArgStrings(ea) {
				args = append(args, "--extractor-args", s)
			}
			continue
		case "http_headers":
			h, herr := headerArgs(v)
			if herr != nil {
				return nil, nil, herr
			}
			args = append(args, h...)
			continue
		}

		spec, ok := flagTable[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		switch spec.kind {
		case kindSwitch:
			on, isBool := v.(bool)
			if !isBool {
				return nil, nil, fmt.Errorf("option %s: expected boolean, got %T", key, v)
			}
			if on {
				args = append(args, spec.on)
			} else if spec.off != "" {
				args = append(args, spec.off)
			}
		case kindList:
			args = append(args, spec.on, joinList(v))
		default:
			args = append(args, spec.on, formatValue(v))
		}
	}
	return args, unknown, nil
}

// ProbeArgs keeps only probeKeys and asks for a quiet, flat, single JSON dump.
func ProbeArgs(opts options.Options) ([]string, error) {
	sub := options.Options{}
	for k, v := range opts {
		if probeKeys[k] {
			sub[k] = v
		}
	}
	sub[options.KeyQuiet] = true
	sub[options.KeyNoWarnings] = true
	args, _, err := Args(sub)
	if err != nil {
		return nil, err
	}
	return append(args, "--skip-download", "--dump-single-json", "--flat-playlist"), nil
}

func pathArgs(v any) ([]string, error) {
	var m map[string]string
	switch t := v.(type) {
	case map[string]string:
		m = t
	case map[string]any:
		m = make(map[string]string, len(t))
		for k, vv := range t {
			m[k] = fmt.Sprint(vv)
		}
	default:
		return nil, fmt.Errorf("option paths: expected mapping, got %T", v)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var args []string
	for _, k := range keys {
		if m[k] == "" {
			continue
		}
		args = append(args, "--paths", k+":"+m[k])
	}
	return args, nil
}

func headerArgs(v any) ([]string, error) {
	m, ok := v.(map[string]any)
	if !ok {
		if ms, ok2 := v.(map[string]string); ok2 {
			m = make(map[string]any, len(ms))
			for k, vv := range ms {
				m[k] = vv
			}
		} else {
			return nil, fmt.Errorf("option http_headers: expected mapping, got %T", v)
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var args []string
	for _, k := range keys {
		args = append(args, "--add-headers", k+":"+fmt.Sprint(m[k]))
	}
	return args, nil
}

func browserCookies(v any) string {
	switch t := v.(type) {
	case options.BrowserCookies:
		return t.String()
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}

// extractorArgStrings renders "extractor:key=v1,v2;key2=v3", one per extractor.
func extractorArgStrings(ea options.ExtractorArgs) []string {
	extrs := make([]string, 0, len(ea))
	for e := range ea {
		extrs = append(extrs, e)
	}
	sort.Strings(extrs)

	out := make([]string, 0, len(extrs))
	for _, e := range extrs {
		keys := make([]string, 0, len(ea[e]))
		for k := range ea[e] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+strings.Join(ea[e][k], ","))
		}
		out = append(out, e+":"+strings.Join(parts, ";"))
	}
	return out
}

func joinList(v any) string {
	switch t := v.(type) {
	case []string:
		return strings.Join(t, ",")
	case []any:
		s := make([]string, 0, len(t))
		for _, x := range t {
			s = append(s, formatValue(x))
		}
		return strings.Join(s, ",")
	default:
		return formatValue(v)
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(v)
	}
}
