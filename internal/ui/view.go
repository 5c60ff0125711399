package ui

import (
	"fmt"
	"strings"

	"ytsave/internal/progress"
)

func (m Model) viewHeader() string {
	done, total := 0, len(m.jobOrder)
	for _, id := range m.jobOrder {
		if m.jobs[id].done {
			done++
		}
	}
	title := m.styles.Title.Render("ytsave")
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Items: %d/%d done • q: quit", done, total))
	return title + "\n" + sub
}

func (m Model) viewJobs() string {
	var b strings.Builder
	for _, id := range m.jobOrder {
		b.WriteString(m.viewJob(m.jobs[id]))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewJob(js *jobState) string {
	stageStyle := m.styles.JobInfo
	switch js.stage {
	case progress.StageQueued:
		stageStyle = m.styles.StageQueue
	case progress.StageProbing:
		stageStyle = m.styles.StageProbe
	case progress.StageDownloading:
		stageStyle = m.styles.StageDL
	case progress.StageCompleted:
		stageStyle = m.styles.Success
	case progress.StageError:
		stageStyle = m.styles.Error
	}

	left := m.styles.JobTitle.Render(fmt.Sprintf("#%d %s", js.index, truncate(js.url, 56)))
	stage := stageStyle.Render(string(js.stage))

	var right string
	switch {
	case js.done && js.err == nil:
		right = m.styles.Success.Render("✓ done")
	case js.err != nil:
		right = m.styles.Error.Render("✗ error")
	case js.percent >= 0 && js.percent <= 100:
		right = fmt.Sprintf("%s %5.1f%%", js.bar.ViewAs(js.percent/100.0), js.percent)
	case js.stage == progress.StageQueued:
		right = m.styles.Faint.Render("waiting")
	default:
		right = m.styles.Spinner.Render(js.spinner.View()) + " " + m.styles.Faint.Render("working")
	}

	lines := []string{fmt.Sprintf("%s  %s", left, stage), right, m.styles.JobInfo.Render(js.status)}
	if !js.done && js.stage == progress.StageDownloading {
		if l := js.lastLog(); l != "" {
			lines = append(lines, m.styles.Faint.Render(truncate(l, 80)))
		}
	}
	return m.styles.Box.Render(strings.Join(lines, "\n"))
}

func (m Model) viewSummary() string {
	if !m.finished {
		return ""
	}
	var saved, failed []string
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		switch {
		case js.err != nil:
			failed = append(failed, fmt.Sprintf("#%d %s: %v", js.index, js.url, js.err))
		case js.done:
			saved = append(saved, js.template)
		}
	}

	var b strings.Builder
	if len(saved) > 0 {
		b.WriteString(m.styles.Subtitle.Render("✓ Output templates:"))
		b.WriteString("\n")
		for _, p := range saved {
			b.WriteString(m.styles.Success.Render("  • " + p))
			b.WriteString("\n")
		}
	}
	if len(failed) > 0 {
		b.WriteString(m.styles.Subtitle.Render("✗ Failed:"))
		b.WriteString("\n")
		for _, f := range failed {
			b.WriteString(m.styles.Error.Render("  • " + f))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
