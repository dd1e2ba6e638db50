package domain

import (
	"sort"
	"time"
)

// Sentinels used when the provider omits the optional mission object.
const (
	PayloadUnknown            = "payload unknown"
	MissionTypeUnknown        = "mission type unknown"
	MissionDescriptionUnknown = "mission description unknown"
)

// LaunchInfo mirrors the raw Launch Library 2 launch payload. Only the
// fields the bot consumes are mapped; everything else is dropped on decode.
type LaunchInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status struct {
		ID int `json:"id"`
	} `json:"status"`
	NET         time.Time `json:"net"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Mission     *Mission  `json:"mission"`
	Rocket      struct {
		Configuration struct {
			FullName string `json:"full_name"`
		} `json:"configuration"`
	} `json:"rocket"`
	Pad struct {
		Name string `json:"name"`
	} `json:"pad"`
	LaunchServiceProvider struct {
		Name string `json:"name"`
	} `json:"launch_service_provider"`
	VidURLs []VidURL `json:"vidURLs"`
	Image   string   `json:"image"`
}

// Mission is the optional mission sub-object of a launch payload.
type Mission struct {
	Name        string `json:"name"`
	MissionType string `json:"type"`
	Description string `json:"description"`
}

// ToLaunchRecord builds the canonical record from a raw provider payload.
// It is pure: absent optional sub-objects fall back to fixed sentinels
// instead of failing. Video URLs are sorted ascending by priority and
// deduplicated keeping the first occurrence per title.
func (info LaunchInfo) ToLaunchRecord() LaunchRecord {
	rec := LaunchRecord{
		LLID:               info.ID,
		Name:               info.Name,
		Status:             info.Status.ID,
		Payload:            PayloadUnknown,
		Vehicle:            info.Rocket.Configuration.FullName,
		Location:           info.Pad.Name,
		NET:                info.NET,
		LaunchWindow:       info.WindowEnd.Sub(info.WindowStart),
		MissionType:        MissionTypeUnknown,
		MissionDescription: MissionDescriptionUnknown,
		Provider:           info.LaunchServiceProvider.Name,
		VidURLs:            dedupVidURLs(info.VidURLs),
		RocketImg:          info.Image,
	}
	if m := info.Mission; m != nil {
		rec.Payload = m.Name
		rec.MissionType = m.MissionType
		rec.MissionDescription = m.Description
	}
	return rec
}

// dedupVidURLs sorts by ascending priority and keeps the first entry per
// distinct title, so the retained entry is the highest-priority one.
func dedupVidURLs(urls []VidURL) []VidURL {
	if len(urls) == 0 {
		return nil
	}
	sorted := make([]VidURL, len(urls))
	copy(sorted, urls)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	seen := make(map[string]struct{}, len(sorted))
	out := sorted[:0]
	for _, u := range sorted {
		if _, ok := seen[u.Title]; ok {
			continue
		}
		seen[u.Title] = struct{}{}
		out = append(out, u)
	}
	return out
}
