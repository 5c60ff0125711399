package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"ytsave/internal/batch"
	"ytsave/internal/progress"
)

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	jobOrder []string
	jobs     map[string]*jobState

	finished bool
	workErr  error

	width, height int
	styles        Styles

	// Fed by teaReporter from the batch goroutine.
	eventCh chan tea.Msg
}

func NewModel(ctx context.Context, cancel context.CancelFunc, items []batch.WorkItem) Model {
	sty := defaultStyles()

	jobs := make(map[string]*jobState, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		js := newJobState(it, sty)
		jobs[js.id] = &js
		order = append(order, js.id)
	}

	return Model{
		ctx:      ctx,
		cancel:   cancel,
		jobs:     jobs,
		jobOrder: order,
		styles:   sty,
		eventCh:  make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.jobOrder)+1)
	for _, id := range m.jobOrder {
		cmds = append(cmds, m.jobs[id].spinner.Tick)
	}
	cmds = append(cmds, m.listenEventsCmd())
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case jobUpdateMsg:
		u := msg.U
		if js, ok := m.jobs[u.JobID]; ok {
			js.stage = u.Stage
			// Item markers inside a collection carry no percentage; keep the bar.
			if u.Percent >= 0 || u.Stage != progress.StageDownloading {
				js.percent = u.Percent
			}
			if u.Message != "" {
				js.status = u.Message
			}
		}
		return m, m.listenEventsCmd()

	case jobLogMsg:
		if js, ok := m.jobs[msg.L.JobID]; ok {
			js.appendLog(strings.TrimRight(msg.L.Line, "\r\n"))
		}
		return m, m.listenEventsCmd()

	case jobResultMsg:
		r := msg.R
		if js, ok := m.jobs[r.JobID]; ok {
			js.done = true
			js.err = r.Err
			js.template = r.Template
			if r.Err == nil {
				js.stage = progress.StageCompleted
				js.percent = 100
				js.status = "Saved"
			} else {
				js.stage = progress.StageError
				js.status = r.Err.Error()
				js.percent = -1
			}
		}
		return m, m.listenEventsCmd()

	case workDoneMsg:
		m.finished = true
		m.workErr = msg.Err
		return m, tea.Quit

	case canceledMsg:
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		var c tea.Cmd
		js.spinner, c = js.spinner.Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	out := m.viewHeader() + "\n\n" + m.viewJobs()
	if summary := m.viewSummary(); summary != "" {
		out += "\n" + summary
	}
	return out
}

// listenEventsCmd waits for exactly one event. Every handler of a channel
// event re-arms it, so there is never more than one listener.
func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return canceledMsg{}
		case msg := <-m.eventCh:
			return msg
		}
	}
}

// reporter returns a progress.Reporter feeding this model.
func (m Model) reporter() teaReporter {
	return teaReporter{ctx: m.ctx, ch: m.eventCh}
}

type teaReporter struct {
	ctx context.Context
	ch  chan tea.Msg
}

// Progress lines may be dropped under load; stage changes and results may not.
func (r teaReporter) Update(u progress.Update) {
	if u.Stage == progress.StageDownloading && u.Percent != 0 {
		select {
		case r.ch <- jobUpdateMsg{U: u}:
		default:
		}
		return
	}
	r.send(jobUpdateMsg{U: u})
}

func (r teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- jobLogMsg{L: l}:
	default:
	}
}

func (r teaReporter) Result(res progress.Result) {
	r.send(jobResultMsg{R: res})
}

func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}
