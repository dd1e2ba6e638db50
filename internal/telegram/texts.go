package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/Baev1/okto/internal/domain"
)

const startText = "🚀 I track upcoming rocket launches and remind you before liftoff.\n\n" +
	"/nextlaunch — the next launch on the schedule\n" +
	"/remind 1h — remind this chat 1 hour before every launch\n" +
	"/unremind 1h — remove that reminder\n" +
	"/reminders — list reminders for this chat\n" +
	"/filters — list filters; /filters add falcon, /filters remove falcon\n" +
	"/togglescrub — toggle delay/scrub notifications\n" +
	"/toggleoutcome — toggle launch outcome notifications\n" +
	"/mute — silence all notifications for this chat (toggle)\n" +
	"/mentions — manage pinged ids; /mentions add 42, /mentions remove 42\n" +
	"/togglementions — include mentions in scrub/outcome notifications too\n" +
	"/notifychannel — send this chat's launch notifications here"

// formatDueReminder renders one notification instruction.
func formatDueReminder(d domain.DueReminder) string {
	var b strings.Builder

	switch d.Class {
	case domain.ClassLeadTime:
		b.WriteString(fmt.Sprintf("🚀 %s launches in %s!\n", d.Launch.Name, formatLead(d.Minutes)))
	case domain.ClassScrub:
		b.WriteString(fmt.Sprintf("⏳ %s has been delayed or scrubbed.\n", d.Launch.Name))
	case domain.ClassOutcome:
		b.WriteString(fmt.Sprintf("%s %s\n", outcomeEmoji(d.Status), outcomeLine(d)))
	}

	b.WriteString(fmt.Sprintf("Vehicle: %s\nPad: %s\nProvider: %s\n", d.Launch.Vehicle, d.Launch.Location, d.Launch.Provider))
	if d.Launch.Payload != domain.PayloadUnknown {
		b.WriteString("Payload: " + d.Launch.Payload + "\n")
	}
	b.WriteString("NET: " + d.Launch.NET.UTC().Format("2006-01-02 15:04 MST") + "\n")

	if len(d.Launch.VidURLs) > 0 {
		b.WriteString("Watch: " + d.Launch.VidURLs[0].URL + "\n")
	}
	if len(d.Mentions) > 0 {
		parts := make([]string, len(d.Mentions))
		for i, id := range d.Mentions {
			parts[i] = fmt.Sprintf("@%d", id)
		}
		b.WriteString(strings.Join(parts, " "))
	}

	return strings.TrimRight(b.String(), "\n")
}

func outcomeEmoji(status int) string {
	switch status {
	case domain.StatusSuccess:
		return "✅"
	case domain.StatusPartialFailure:
		return "⚠️"
	default:
		return "❌"
	}
}

func outcomeLine(d domain.DueReminder) string {
	switch d.Status {
	case domain.StatusSuccess:
		return d.Launch.Name + " was a success!"
	case domain.StatusPartialFailure:
		return d.Launch.Name + " was a partial failure."
	default:
		return d.Launch.Name + " failed."
	}
}

func formatLead(minutes int64) string {
	dur := time.Duration(minutes) * time.Minute
	switch {
	case dur >= 24*time.Hour && dur%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", dur/(24*time.Hour))
	case dur >= time.Hour && dur%time.Hour == 0:
		return fmt.Sprintf("%dh", dur/time.Hour)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

func formatNextLaunch(l domain.LaunchRecord, now time.Time) string {
	var b strings.Builder
	b.WriteString("🚀 Next launch: " + l.Name + "\n")
	b.WriteString(fmt.Sprintf("Vehicle: %s\nPad: %s\nProvider: %s\n", l.Vehicle, l.Location, l.Provider))
	b.WriteString("Mission: " + l.MissionType + "\n")
	b.WriteString("NET: " + l.NET.UTC().Format("2006-01-02 15:04 MST"))
	if until := l.NET.Sub(now); until > 0 {
		b.WriteString(fmt.Sprintf(" (T-%s)", until.Round(time.Minute)))
	}
	if len(l.VidURLs) > 0 {
		b.WriteString("\nWatch: " + l.VidURLs[0].URL)
	}
	return b.String()
}
