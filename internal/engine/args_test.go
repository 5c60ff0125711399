package engine

import (
	"reflect"
	"strings"
	"testing"

	"ytsave/internal/options"
)

func TestArgsDeterministic(t *testing.T) {
	opts := options.Options{
		"format":            "bv*+ba/b",
		"retries":           10,
		"noplaylist":        true,
		"continuedl":        false,
		"subtitleslangs":    []any{"en.*", "ja"},
		"outtmpl":           "/out/%(title)s.%(ext)s",
		"paths":             map[string]string{"home": "/out"},
		"socket_timeout":    30.5,
		"embedthumbnail":    true,
		"restrictfilenames": false,
	}

	first, unknown, err := Args(opts)
	if err != nil {
		t.Fatalf("Args() error = %v", err)
	}
	if len(unknown) != 0 {
		t.Fatalf("Args() unknown = %v, want none", unknown)
	}
	for i := 0; i < 5; i++ {
		again, _, _ := Args(opts)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Args() not deterministic:\n%v\n%v", first, again)
		}
	}

	want := []string{
		"--no-continue",
		"--embed-thumbnail",
		"--format", "bv*+ba/b",
		"--no-playlist",
		"--output", "/out/%(title)s.%(ext)s",
		"--paths", "home:/out",
		"--no-restrict-filenames",
		"--retries", "10",
		"--socket-timeout", "30.5",
		"--sub-langs", "en.*,ja",
	}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("Args() =\n%v\nwant\n%v", first, want)
	}
}

func TestArgsSwitchWithoutOffFlag(t *testing.T) {
	args, _, err := Args(options.Options{"ignoreerrors": false, "quiet": true})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(args, []string{"--quiet"}) {
		t.Errorf("Args() = %v, want [--quiet]", args)
	}
}

func TestArgsRejectsNonBoolSwitch(t *testing.T) {
	if _, _, err := Args(options.Options{"noplaylist": "yes"}); err == nil {
		t.Fatal("expected error for non-boolean switch")
	}
}

func TestArgsUnknownKeys(t *testing.T) {
	args, unknown, err := Args(options.Options{"format": "b", "postprocessors": []any{}, "zz_custom": 1})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(unknown, []string{"postprocessors", "zz_custom"}) {
		t.Errorf("unknown = %v", unknown)
	}
	if !reflect.DeepEqual(args, []string{"--format", "b"}) {
		t.Errorf("args = %v", args)
	}
}

func TestArgsSpecialKeys(t *testing.T) {
	opts := options.Options{
		"cookiesfrombrowser": options.BrowserCookies{Browser: "firefox", Profile: "work"},
		"extractor_args": options.ExtractorArgs{
			"youtube":    {"player_client": {"web", "ios"}, "formats": {"missing_pot"}},
			"youtubetab": {"skip": {"authcheck"}},
		},
		"http_headers": map[string]any{"Referer": "https://example.com", "Accept": "*/*"},
	}
	args, _, err := Args(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"--cookies-from-browser", "firefox:work",
		"--extractor-args", "youtube:formats=missing_pot;player_client=web,ios",
		"--extractor-args", "youtubetab:skip=authcheck",
		"--add-headers", "Accept:*/*",
		"--add-headers", "Referer:https://example.com",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("Args() =\n%v\nwant\n%v", args, want)
	}
}

func TestArgsPathsSkipsEmpty(t *testing.T) {
	args, _, err := Args(options.Options{"paths": map[string]any{"home": "/a", "temp": ""}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(args, []string{"--paths", "home:/a"}) {
		t.Errorf("Args() = %v", args)
	}
	if _, _, err := Args(options.Options{"paths": "/a"}); err == nil {
		t.Error("expected error for non-mapping paths")
	}
}

func TestProbeArgsFiltersWriters(t *testing.T) {
	opts := options.Options{
		"format":           "b",
		"outtmpl":          "/out/x.%(ext)s",
		"download_archive": "/out/.archive",
		"writesubtitles":   true,
		"noplaylist":       true,
		"impersonate":      "chrome",
		"cookiefile":       "/c.txt",
		"proxy":            "socks5://127.0.0.1:1080",
	}
	args, err := ProbeArgs(opts)
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(args, " ")

	for _, banned := range []string{"--format", "--output", "--download-archive", "--write-subs"} {
		if strings.Contains(joined, banned) {
			t.Errorf("ProbeArgs() contains %s: %s", banned, joined)
		}
	}
	for _, want := range []string{
		"--no-playlist", "--impersonate chrome", "--cookies /c.txt", "--proxy socks5://127.0.0.1:1080",
		"--quiet", "--no-warnings", "--skip-download", "--dump-single-json", "--flat-playlist",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("ProbeArgs() missing %q: %s", want, joined)
		}
	}
	if _, ok := opts["quiet"]; ok {
		t.Error("ProbeArgs() mutated caller options")
	}
}
