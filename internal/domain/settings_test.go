package domain

import "testing"

func falconLaunch() LaunchRecord {
	return LaunchRecord{
		Vehicle:     "Falcon 9 Block 5",
		Provider:    "SpaceX",
		MissionType: "Communications",
	}
}

func TestFiltered_CaseInsensitiveVehicleMatch(t *testing.T) {
	g := GuildSettings{Guild: 1, Filters: []string{"falcon"}}
	if !Filtered(g, falconLaunch()) {
		t.Error("lowercase filter should match Falcon 9")
	}
	g.Filters = []string{"FALCON"}
	if !Filtered(g, falconLaunch()) {
		t.Error("uppercase filter should match Falcon 9")
	}
}

func TestFiltered_ProviderAndMissionType(t *testing.T) {
	u := UserSettings{User: 2, Filters: []string{"spacex"}}
	if !Filtered(u, falconLaunch()) {
		t.Error("filter should match provider")
	}
	u.Filters = []string{"communications"}
	if !Filtered(u, falconLaunch()) {
		t.Error("filter should match mission type")
	}
}

func TestFiltered_NoMatch(t *testing.T) {
	g := GuildSettings{Guild: 1, Filters: []string{"soyuz", "ariane"}}
	if Filtered(g, falconLaunch()) {
		t.Error("unrelated filters must not match")
	}
	if Filtered(GuildSettings{Guild: 1}, falconLaunch()) {
		t.Error("empty filter list must not match")
	}
}

func TestFiltered_BlankFiltersIgnored(t *testing.T) {
	g := GuildSettings{Guild: 1, Filters: []string{"", "  "}}
	if Filtered(g, falconLaunch()) {
		t.Error("blank filters must not match everything")
	}
}

func TestParseLeadTime(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"30m", 30, false},
		{"2h", 120, false},
		{"1h30m", 90, false},
		{"1d", 1440, false},
		{"90", 90, false},
		{"", 0, true},
		{"soon", 0, true},
		{"1m", 0, true},   // below minimum
		{"400d", 0, true}, // above maximum
	}
	for _, tc := range cases {
		got, err := ParseLeadTime(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseLeadTime(%q) expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLeadTime(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLeadTime(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestDueReminderKey_ClassesAreDisjoint(t *testing.T) {
	l := LaunchRecord{ID: 7}
	lead := DueReminder{Launch: l, Class: ClassLeadTime, Kind: SubscriberGuild, SubscriberID: 42, Minutes: 60}
	scrub := DueReminder{Launch: l, Class: ClassScrub, Kind: SubscriberGuild, SubscriberID: 42, Status: StatusHold}
	outcome := DueReminder{Launch: l, Class: ClassOutcome, Kind: SubscriberGuild, SubscriberID: 42, Status: StatusSuccess}

	keys := map[string]bool{lead.Key(): true, scrub.Key(): true, outcome.Key(): true}
	if len(keys) != 3 {
		t.Errorf("expected 3 distinct keys, got %v", keys)
	}
}
