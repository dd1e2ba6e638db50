package domain

import (
	"testing"
	"time"
)

func sampleInfo() LaunchInfo {
	var info LaunchInfo
	info.ID = "a1b2c3"
	info.Name = "Falcon 9 Block 5 | Starlink Group 6-1"
	info.Status.ID = StatusGo
	info.NET = time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)
	info.WindowStart = info.NET
	info.WindowEnd = info.NET.Add(2 * time.Hour)
	info.Rocket.Configuration.FullName = "Falcon 9 Block 5"
	info.Pad.Name = "SLC-40"
	info.LaunchServiceProvider.Name = "SpaceX"
	return info
}

func TestToLaunchRecord_MissionPresent(t *testing.T) {
	info := sampleInfo()
	info.Mission = &Mission{Name: "Starlink Group 6-1", MissionType: "Communications", Description: "A batch of satellites"}

	rec := info.ToLaunchRecord()
	if rec.Payload != "Starlink Group 6-1" {
		t.Errorf("payload = %q", rec.Payload)
	}
	if rec.MissionType != "Communications" {
		t.Errorf("mission type = %q", rec.MissionType)
	}
	if rec.LaunchWindow != 2*time.Hour {
		t.Errorf("window = %v, want 2h", rec.LaunchWindow)
	}
	if rec.LLID != "a1b2c3" {
		t.Errorf("ll_id = %q", rec.LLID)
	}
}

func TestToLaunchRecord_MissionAbsentFallsBackToSentinels(t *testing.T) {
	rec := sampleInfo().ToLaunchRecord()

	if rec.Payload != PayloadUnknown {
		t.Errorf("payload = %q, want sentinel", rec.Payload)
	}
	if rec.MissionType != MissionTypeUnknown {
		t.Errorf("mission type = %q, want sentinel", rec.MissionType)
	}
	if rec.MissionDescription != MissionDescriptionUnknown {
		t.Errorf("mission description = %q, want sentinel", rec.MissionDescription)
	}
}

func TestToLaunchRecord_VidURLsSortedAndDeduped(t *testing.T) {
	info := sampleInfo()
	info.VidURLs = []VidURL{
		{Priority: 9, Title: "Official Stream", URL: "https://example.com/low"},
		{Priority: 1, Title: "Official Stream", URL: "https://example.com/high"},
		{Priority: 5, Title: "Backup Stream", URL: "https://example.com/backup"},
		{Priority: 3, Title: "Commentary", URL: "https://example.com/commentary"},
	}

	got := info.ToLaunchRecord().VidURLs
	want := []VidURL{
		{Priority: 1, Title: "Official Stream", URL: "https://example.com/high"},
		{Priority: 3, Title: "Commentary", URL: "https://example.com/commentary"},
		{Priority: 5, Title: "Backup Stream", URL: "https://example.com/backup"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d urls, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("urls[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestToLaunchRecord_NoVidURLs(t *testing.T) {
	rec := sampleInfo().ToLaunchRecord()
	if len(rec.VidURLs) != 0 {
		t.Errorf("expected no urls, got %+v", rec.VidURLs)
	}
}
