package batch

import (
	"testing"

	"ytsave/internal/config"
	"ytsave/internal/options"
)

func baseOpts() options.Options {
	return options.Options{
		options.KeyPaths:      map[string]string{"home": "/out"},
		options.KeyOuttmpl:    "/out/ignored.%(ext)s",
		options.KeyNoPlaylist: true,
	}
}

func TestComposeTemplate(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{name: "simple", parts: []string{"/out", "a", "b.mp4"}, want: "/out/a/b.mp4"},
		{name: "skips empty", parts: []string{"/out", "", "b"}, want: "/out/b"},
		{name: "backslashes", parts: []string{`C:\videos`, "x"}, want: "C:/videos/x"},
		{name: "backslash inside filename", parts: []string{`D:\media\I`, `1\clip.%(ext)s`}, want: "D:/media/I/1/clip.%(ext)s"},
		{name: "trailing slash", parts: []string{"/out/", "x"}, want: "/out/x"},
		{name: "segments kept verbatim", parts: []string{"/out", "./a//b", "../c"}, want: "/out/./a//b/../c"},
		{name: "absolute part resets", parts: []string{"/out", "/abs/x"}, want: "/abs/x"},
		{name: "nothing", parts: []string{"", ""}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComposeTemplate(tt.parts...); got != tt.want {
				t.Errorf("ComposeTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveItemSingle(t *testing.T) {
	base := baseOpts()
	opts := ResolveItem(base, WorkItem{Index: 3, URL: "u"}, KindSingle, "{idx}-video", config.DefaultSubdirs())

	want := "/out/" + config.DefaultPerItem + "/3-video"
	if got := opts.String(options.KeyOuttmpl); got != want {
		t.Errorf("outtmpl = %q, want %q", got, want)
	}
	if !opts.Bool(options.KeyNoPlaylist) {
		t.Error("single item must keep noplaylist")
	}
	if base.String(options.KeyOuttmpl) != "/out/ignored.%(ext)s" {
		t.Error("ResolveItem mutated base options")
	}
}

func TestResolveItemCollection(t *testing.T) {
	base := baseOpts()
	subdirs := config.Subdirs{PerItem: "%(title)s", PerPlaylist: "%(playlist_title)s"}
	opts := ResolveItem(base, WorkItem{Index: 3, URL: "u"}, KindCollection, "{idx} - %(title)s.%(ext)s", subdirs)

	want := "/out/%(playlist_title)s/%(title)s/%(playlist_index)03d - %(title)s.%(ext)s"
	if got := opts.String(options.KeyOuttmpl); got != want {
		t.Errorf("outtmpl = %q, want %q", got, want)
	}
	if v, ok := opts[options.KeyNoPlaylist].(bool); !ok || v {
		t.Errorf("noplaylist = %v, want false", opts[options.KeyNoPlaylist])
	}
	if !base.Bool(options.KeyNoPlaylist) {
		t.Error("ResolveItem mutated base noplaylist")
	}
}

func TestResolveItemDefaults(t *testing.T) {
	opts := ResolveItem(options.Options{}, WorkItem{Index: 7}, KindSingle, "", config.DefaultSubdirs())
	want := "./" + config.DefaultPerItem + "/" + "%(upload_date>%Y-%m-%d)s%(release_timestamp>_%H-%M-%S|)s - 7 - %(title).100s.%(ext)s"
	if got := opts.String(options.KeyOuttmpl); got != want {
		t.Errorf("outtmpl = %q, want %q", got, want)
	}
}

func TestResolveItemEmptySubdirs(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		subdirs config.Subdirs
		want    string
	}{
		{name: "single flat", kind: KindSingle, subdirs: config.Subdirs{PerPlaylist: "P"}, want: "/out/2.%(ext)s"},
		{name: "collection without item dir", kind: KindCollection, subdirs: config.Subdirs{PerPlaylist: "P"}, want: "/out/P/%(playlist_index)03d.%(ext)s"},
		{name: "collection flat", kind: KindCollection, subdirs: config.Subdirs{}, want: "/out/%(playlist_index)03d.%(ext)s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := ResolveItem(baseOpts(), WorkItem{Index: 2, URL: "u"}, tt.kind, "{idx}.%(ext)s", tt.subdirs)
			if got := opts.String(options.KeyOuttmpl); got != tt.want {
				t.Errorf("outtmpl = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveItemWindowsHome(t *testing.T) {
	base := options.Options{options.KeyPaths: map[string]string{"home": `D:\media`}}
	opts := ResolveItem(base, WorkItem{Index: 1, URL: "u"}, KindSingle, `{idx}\clip.%(ext)s`, config.Subdirs{PerItem: "I"})
	if got, want := opts.String(options.KeyOuttmpl), "D:/media/I/1/clip.%(ext)s"; got != want {
		t.Errorf("outtmpl = %q, want %q", got, want)
	}
}
