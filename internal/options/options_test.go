package options

import (
	"reflect"
	"strings"
	"testing"
)

func TestClone_IsDeep(t *testing.T) {
	orig := Options{
		"paths":          map[string]string{"home": "/out"},
		"subtitleslangs": []any{"en", "ru"},
		"extractor_args": ExtractorArgs{"youtube": {"player_client": {"web"}}},
		"retries":        10,
	}

	cp := orig.Clone()
	cp["paths"].(map[string]string)["home"] = "/elsewhere"
	cp["subtitleslangs"].([]any)[0] = "de"
	cp["extractor_args"].(ExtractorArgs)["youtube"]["player_client"][0] = "ios"
	cp["noplaylist"] = false

	if got := orig.BaseDir(); got != "/out" {
		t.Errorf("orig paths.home = %q, want /out", got)
	}
	if got := orig["subtitleslangs"].([]any)[0]; got != "en" {
		t.Errorf("orig subtitleslangs[0] = %v, want en", got)
	}
	if got := orig["extractor_args"].(ExtractorArgs)["youtube"]["player_client"][0]; got != "web" {
		t.Errorf("orig extractor arg = %v, want web", got)
	}
	if _, ok := orig["noplaylist"]; ok {
		t.Errorf("orig gained key noplaylist")
	}
}

func TestBaseDir(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "unset", opts: Options{}, want: "."},
		{name: "string map", opts: Options{"paths": map[string]string{"home": "/a"}}, want: "/a"},
		{name: "any map", opts: Options{"paths": map[string]any{"home": "/b"}}, want: "/b"},
		{name: "empty home", opts: Options{"paths": map[string]string{"home": ""}}, want: "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.BaseDir(); got != tt.want {
				t.Errorf("BaseDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseBrowserCookies(t *testing.T) {
	tests := []struct {
		spec string
		want BrowserCookies
		str  string
	}{
		{spec: "chrome", want: BrowserCookies{Browser: "chrome"}, str: "chrome"},
		{spec: "chrome:Profile 1", want: BrowserCookies{Browser: "chrome", Profile: "Profile 1"}, str: "chrome:Profile 1"},
		{spec: "firefox:a:b", want: BrowserCookies{Browser: "firefox", Profile: "a:b"}, str: "firefox:a:b"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got := ParseBrowserCookies(tt.spec)
			if got != tt.want {
				t.Errorf("ParseBrowserCookies(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String() = %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestMergeExtractorArgs(t *testing.T) {
	skip := ExtractorArgs{"youtubetab": {"skip": {"authcheck"}}}

	t.Run("into nil", func(t *testing.T) {
		got, err := MergeExtractorArgs(nil, skip)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, skip) {
			t.Errorf("got %v, want %v", got, skip)
		}
	})

	t.Run("no duplicates", func(t *testing.T) {
		first, _ := MergeExtractorArgs(nil, skip)
		got, err := MergeExtractorArgs(first, skip)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if vals := got["youtubetab"]["skip"]; len(vals) != 1 {
			t.Errorf("skip values = %v, want exactly one authcheck", vals)
		}
	})

	t.Run("keeps config values", func(t *testing.T) {
		fromConfig := map[string]any{
			"youtube":    map[string]any{"player_client": []any{"web", "android"}},
			"youtubetab": map[string]any{"skip": "webpage"},
		}
		got, err := MergeExtractorArgs(fromConfig, skip)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := ExtractorArgs{
			"youtube":    {"player_client": {"web", "android"}},
			"youtubetab": {"skip": {"webpage", "authcheck"}},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("rejects scalar", func(t *testing.T) {
		if _, err := MergeExtractorArgs("youtube:x=y", skip); err == nil {
			t.Errorf("expected error for scalar extractor_args")
		}
	})
}

func TestYAML_RendersCookiesInline(t *testing.T) {
	o := Options{KeyCookiesFromBrowser: ParseBrowserCookies("chrome:Default")}
	out, err := o.YAML()
	if err != nil {
		t.Fatalf("YAML() error: %v", err)
	}
	if !strings.Contains(string(out), "chrome:Default") || strings.Contains(string(out), "profile:") {
		t.Errorf("YAML() = %q, want inline cookies value", out)
	}
}
