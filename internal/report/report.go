// Package report renders a session snapshot for the terminal.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GopalOmotec/echolearn-updated/internal/adaptive"
	"github.com/GopalOmotec/echolearn-updated/internal/analytics"
	"github.com/GopalOmotec/echolearn-updated/internal/session"
	"github.com/GopalOmotec/echolearn-updated/internal/ui/components"
	"github.com/GopalOmotec/echolearn-updated/internal/ui/theme"
)

const barWidth = 20

// Render formats the snapshot's analytics as a multi-section report.
func Render(snap session.Snapshot) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Session "+snap.SessionID) + "\n")
	field(&b, "Started", snap.StartedAt.Local().Format("2006-01-02 15:04:05"))
	field(&b, "Status", status(snap))
	field(&b, "Difficulty", strconv.Itoa(snap.State.CurrentDifficulty))

	history := snap.PerformanceHistory
	if len(history) == 0 {
		b.WriteString("\n" + theme.Hint.Render("No answers recorded yet.") + "\n")
		return b.String()
	}

	sum := snap.Analytics
	b.WriteString(theme.Section.Render("Summary") + "\n")
	field(&b, "Questions", fmt.Sprintf("%d (%d correct)", sum.TotalQuestions, sum.CorrectAnswers))
	acc := components.NewBar(sum.AccuracyRate, 100, barWidth)
	field(&b, "Accuracy", acc.View()+fmt.Sprintf("  %.1f%%", sum.AccuracyRate))
	field(&b, "Average score", fmt.Sprintf("%.2f / %d", sum.AverageScore, adaptive.MaxScore))
	field(&b, "Trend", string(sum.LearningTrend))
	field(&b, "Trajectory", trajectory(snap.Trajectory))
	if len(sum.Advice) > 0 {
		codes := make([]string, len(sum.Advice))
		for i, a := range sum.Advice {
			codes[i] = string(a)
		}
		field(&b, "Advice", strings.Join(codes, ", "))
	}

	b.WriteString(theme.Section.Render("Progress") + "\n")
	b.WriteString(components.Table(
		[]string{"#", "Score", "", "Target", "Question", "Result"},
		progressRows(history),
	) + "\n")

	b.WriteString(theme.Section.Render("By difficulty") + "\n")
	b.WriteString(components.Table(
		[]string{"Difficulty", "Answered", "Correct", "Avg score", "Accuracy"},
		distributionRows(analytics.Distribution(history)),
	) + "\n")

	return b.String()
}

func field(b *strings.Builder, label, value string) {
	b.WriteString(theme.Label.Render(label) + theme.Body.Render(value) + "\n")
}

func status(snap session.Snapshot) string {
	if snap.Finished {
		return "finished"
	}
	return "in progress"
}

func trajectory(t analytics.Trajectory) string {
	if t.Trend == adaptive.TrendInsufficientData {
		return string(t.Trend)
	}
	return fmt.Sprintf("%s (slope %+.2f, R² %.2f)", t.Trend, t.Slope, t.RSquared)
}

func progressRows(history []adaptive.PerformanceRecord) [][]string {
	chart := analytics.ProgressChart(history)
	rows := make([][]string, len(history))
	for i, r := range history {
		qd := "-"
		if r.QuestionDifficulty > 0 {
			qd = strconv.FormatFloat(r.QuestionDifficulty, 'f', -1, 64)
		}
		result := theme.Incorrect.Render("✗")
		if r.Correct {
			result = theme.Correct.Render("✓")
		}
		rows[i] = []string{
			strconv.Itoa(chart.Questions[i]),
			strconv.Itoa(chart.Scores[i]),
			components.NewBar(float64(chart.Scores[i]), adaptive.MaxScore, barWidth/2).View(),
			strconv.Itoa(chart.Difficulties[i]),
			qd,
			result,
		}
	}
	return rows
}

func distributionRows(buckets []analytics.Bucket) [][]string {
	rows := make([][]string, len(buckets))
	for i, bk := range buckets {
		rows[i] = []string{
			strconv.Itoa(bk.Difficulty),
			strconv.Itoa(bk.Total),
			strconv.Itoa(bk.Correct),
			fmt.Sprintf("%.1f", bk.AverageScore),
			fmt.Sprintf("%.0f%%", bk.Accuracy),
		}
	}
	return rows
}
