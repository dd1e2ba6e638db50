package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/Baev1/okto/internal/domain"
)

func dueFixture(class domain.NotificationClass) domain.DueReminder {
	return domain.DueReminder{
		Launch: domain.LaunchRecord{
			Name:     "Falcon 9 | Starlink",
			Vehicle:  "Falcon 9 Block 5",
			Location: "SLC-40",
			Provider: "SpaceX",
			Payload:  domain.PayloadUnknown,
			NET:      time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC),
			VidURLs:  []domain.VidURL{{Priority: 1, Title: "Official", URL: "https://example.com/live"}},
		},
		Class:   class,
		Minutes: 60,
	}
}

func TestFormatDueReminder_LeadTime(t *testing.T) {
	text := formatDueReminder(dueFixture(domain.ClassLeadTime))
	for _, want := range []string{"launches in 1h", "Falcon 9 Block 5", "SLC-40", "https://example.com/live"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, domain.PayloadUnknown) {
		t.Error("unknown payload sentinel should not be rendered")
	}
}

func TestFormatDueReminder_Outcome(t *testing.T) {
	d := dueFixture(domain.ClassOutcome)
	d.Status = domain.StatusSuccess
	if text := formatDueReminder(d); !strings.Contains(text, "success") {
		t.Errorf("outcome text = %q", text)
	}
	d.Status = domain.StatusFailure
	if text := formatDueReminder(d); !strings.Contains(text, "failed") {
		t.Errorf("outcome text = %q", text)
	}
}

func TestFormatLead(t *testing.T) {
	cases := map[int64]string{
		30:   "30m",
		60:   "1h",
		90:   "90m",
		1440: "1d",
	}
	for minutes, want := range cases {
		if got := formatLead(minutes); got != want {
			t.Errorf("formatLead(%d) = %q, want %q", minutes, got, want)
		}
	}
}
