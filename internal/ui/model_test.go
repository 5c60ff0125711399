package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"ytsave/internal/batch"
	"ytsave/internal/progress"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewModel(ctx, cancel, batch.Enumerate([]string{"https://a", "https://b"}, 1))
}

func apply(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTracksStages(t *testing.T) {
	m := newTestModel(t)

	m = apply(m, jobUpdateMsg{U: progress.Update{JobID: "item-1", Stage: progress.StageDownloading, Percent: 42, Message: "Downloading"}})
	if js := m.jobs["item-1"]; js.percent != 42 || js.stage != progress.StageDownloading {
		t.Errorf("job state = %+v", js)
	}

	// An item marker inside a collection keeps the last known percentage.
	m = apply(m, jobUpdateMsg{U: progress.Update{JobID: "item-1", Stage: progress.StageDownloading, Percent: -1, Message: "item 2 of 5"}})
	if js := m.jobs["item-1"]; js.percent != 42 || js.status != "item 2 of 5" {
		t.Errorf("job state after marker = %+v", js)
	}

	m = apply(m, jobResultMsg{R: progress.Result{JobID: "item-1", Template: "/out/a/1.%(ext)s"}})
	m = apply(m, jobResultMsg{R: progress.Result{JobID: "item-2", Err: errors.New("HTTP Error 404")}})

	if js := m.jobs["item-1"]; !js.done || js.stage != progress.StageCompleted || js.percent != 100 {
		t.Errorf("item-1 = %+v", js)
	}
	if js := m.jobs["item-2"]; js.err == nil || js.stage != progress.StageError {
		t.Errorf("item-2 = %+v", js)
	}

	view := m.View()
	if !strings.Contains(view, "ytsave") || !strings.Contains(view, "2/2 done") {
		t.Errorf("header missing from view:\n%s", view)
	}
}

func TestModelSummaryAfterWorkDone(t *testing.T) {
	m := newTestModel(t)
	m = apply(m, jobResultMsg{R: progress.Result{JobID: "item-1", Template: "/out/a/1.%(ext)s"}})
	m = apply(m, jobResultMsg{R: progress.Result{JobID: "item-2", Err: errors.New("boom")}})

	if strings.Contains(m.View(), "Failed:") {
		t.Error("summary shown before work finished")
	}

	next, cmd := m.Update(workDoneMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("workDoneMsg should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("workDoneMsg did not return tea.Quit")
	}

	view := m.View()
	if !strings.Contains(view, "/out/a/1.%(ext)s") || !strings.Contains(view, "#2 https://b: boom") {
		t.Errorf("summary missing:\n%s", view)
	}
}

func TestModelQuitCancels(t *testing.T) {
	m := newTestModel(t)
	apply(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if m.ctx.Err() == nil {
		t.Error("q did not cancel the batch context")
	}
}

func TestLogRing(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < logRingSize+10; i++ {
		m = apply(m, jobLogMsg{L: progress.Log{JobID: "item-1", Line: "line\n"}})
	}
	js := m.jobs["item-1"]
	if len(js.logsRing) != logRingSize {
		t.Errorf("ring size = %d, want %d", len(js.logsRing), logRingSize)
	}
	if js.lastLog() != "line" {
		t.Errorf("lastLog() = %q", js.lastLog())
	}
}

func TestReporterDeliversResultsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rep := teaReporter{ctx: ctx, ch: make(chan tea.Msg)}
	cancel()

	// Unbuffered channel with no reader: must not block once canceled.
	rep.Result(progress.Result{JobID: "item-1"})
	rep.Update(progress.Update{JobID: "item-1", Stage: progress.StageCompleted})
	rep.Log(progress.Log{JobID: "item-1", Line: "x"})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 5, "abcd…"},
		{"ééééé", 3, "éé…"},
		{"x", 0, "x"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
