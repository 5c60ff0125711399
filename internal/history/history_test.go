package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ytsave/internal/batch"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	results := []batch.ItemResult{
		{Index: 1, URL: "https://a", Kind: batch.KindSingle, Template: "/out/a", Started: started, Duration: 2 * time.Second},
		{Index: 2, URL: "https://b", Kind: batch.KindCollection, Template: "/out/b", Started: started, Duration: time.Second, Err: errors.New("HTTP Error 403")},
	}
	for _, r := range results {
		if err := s.Record(ctx, "run-1", r); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent() len = %d, want 2", len(got))
	}

	// Newest first.
	b, a := got[0], got[1]
	if b.URL != "https://b" || b.Status != StatusFailed || b.Error != "HTTP Error 403" || b.Kind != "collection" {
		t.Errorf("entry b = %+v", b)
	}
	if a.URL != "https://a" || a.Status != StatusDone || a.Error != "" || a.Index != 1 {
		t.Errorf("entry a = %+v", a)
	}
	if a.RunID != "run-1" || a.Template != "/out/a" {
		t.Errorf("entry a = %+v", a)
	}
	if !a.StartedAt.Equal(started) || !a.FinishedAt.Equal(started.Add(2*time.Second)) {
		t.Errorf("timestamps = %v .. %v", a.StartedAt, a.FinishedAt)
	}
}

func TestRecentLimit(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		if err := s.Record(ctx, "r", batch.ItemResult{Index: i, URL: "u", Kind: batch.KindSingle, Started: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Index != 5 {
		t.Errorf("Recent(3) = %+v", got)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(context.Background(), "r", batch.ItemResult{Index: 1, URL: "u", Kind: batch.KindSingle, Started: time.Now()}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Recent(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("entries after reopen = %d, want 1", len(got))
	}
}
