package util

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadURLFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "urls.txt")
	content := "https://youtu.be/a\n\n   \n# later\n  https://www.youtube.com/playlist?list=PL1  \r\nhttps://vimeo.com/1"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadURLFile(p)
	if err != nil {
		t.Fatalf("ReadURLFile() error: %v", err)
	}
	want := []string{
		"https://youtu.be/a",
		"https://www.youtube.com/playlist?list=PL1",
		"https://vimeo.com/1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadURLFile() = %v, want %v", got, want)
	}
}

func TestReadURLFile_Missing(t *testing.T) {
	if _, err := ReadURLFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	tests := []struct {
		in   string
		want string
	}{
		{in: "~", want: home},
		{in: "~/Videos", want: filepath.Join(home, "Videos")},
		{in: "/abs/path", want: "/abs/path"},
		{in: "rel/~x", want: "rel/~x"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandHome(tt.in)
			if err != nil {
				t.Fatalf("ExpandHome(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
