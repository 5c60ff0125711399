package ui

import (
	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"ytsave/internal/batch"
	"ytsave/internal/progress"
)

const logRingSize = 200

type jobState struct {
	id     string
	index  int
	url    string
	stage  progress.Stage
	status string
	err    error
	done   bool

	template string
	percent  float64 // -1 means unknown

	spinner spinner.Model
	bar     bubblesprogress.Model

	logsRing []string
}

func newJobState(it batch.WorkItem, styles Styles) jobState {
	sp := spinner.New()
	sp.Style = styles.Spinner
	bar := bubblesprogress.New(
		bubblesprogress.WithDefaultGradient(),
		bubblesprogress.WithWidth(40),
	)
	return jobState{
		id:      it.JobID(),
		index:   it.Index,
		url:     it.URL,
		stage:   progress.StageQueued,
		status:  "Queued",
		percent: -1,
		spinner: sp,
		bar:     bar,
	}
}

func (js *jobState) appendLog(line string) {
	if len(js.logsRing) >= logRingSize {
		js.logsRing = js.logsRing[1:]
	}
	js.logsRing = append(js.logsRing, line)
}

func (js *jobState) lastLog() string {
	if len(js.logsRing) == 0 {
		return ""
	}
	return js.logsRing[len(js.logsRing)-1]
}
