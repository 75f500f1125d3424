package screenplay

import "testing"

func TestParseHeading_Shapes(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Heading
	}{
		{
			name: "number prefixed",
			line: "36A INT. FARMHOUSE - KITCHEN - DAY",
			want: Heading{Number: "36A", Setting: SettingInterior, Location: "FARMHOUSE - KITCHEN", TimeOfDay: "DAY"},
		},
		{
			name: "number suffixed",
			line: "INT. LOCATION - DAY - 12A",
			want: Heading{Number: "12A", Setting: SettingInterior, Location: "LOCATION", TimeOfDay: "DAY"},
		},
		{
			name: "no number",
			line: "EXT. DESERT HIGHWAY - NIGHT",
			want: Heading{Setting: SettingExterior, Location: "DESERT HIGHWAY", TimeOfDay: "NIGHT"},
		},
		{
			name: "int/ext normalized",
			line: "INT./EXT. MOVING CAR - CONTINUOUS",
			want: Heading{Setting: SettingIntExt, Location: "MOVING CAR", TimeOfDay: "CONTINUOUS"},
		},
		{
			name: "i/e shorthand",
			line: "I/E. SQUAD CAR - DUSK",
			want: Heading{Setting: SettingIntExt, Location: "SQUAD CAR", TimeOfDay: "DUSK"},
		},
		{
			name: "moments later beats later",
			line: "INT. VAULT - MOMENTS LATER",
			want: Heading{Setting: SettingInterior, Location: "VAULT", TimeOfDay: "MOMENTS LATER"},
		},
		{
			name: "embedded day marker stripped from location",
			line: "INT. HOSPITAL ROOM (DAY 3) - NIGHT",
			want: Heading{Setting: SettingInterior, Location: "HOSPITAL ROOM", TimeOfDay: "NIGHT", StoryDay: 3},
		},
		{
			name: "trailing day marker after DAY token",
			line: "EXT. RANCH - DAY 2",
			want: Heading{Setting: SettingExterior, Location: "RANCH", TimeOfDay: "DAY", StoryDay: 2},
		},
		{
			name: "story day spelled out",
			line: "INT. BARN - STORY DAY 4 - MORNING",
			want: Heading{Setting: SettingInterior, Location: "BARN", TimeOfDay: "MORNING", StoryDay: 4},
		},
		{
			name: "shorthand D marker",
			line: "14 EXT. PIER - D3 - DAWN",
			want: Heading{Number: "14", Setting: SettingExterior, Location: "PIER", TimeOfDay: "DAWN", StoryDay: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHeading(tt.line)
			if got == nil {
				t.Fatalf("ParseHeading(%q) = nil, want heading", tt.line)
			}
			if got.Number != tt.want.Number {
				t.Errorf("Number = %q, want %q", got.Number, tt.want.Number)
			}
			if got.Setting != tt.want.Setting {
				t.Errorf("Setting = %q, want %q", got.Setting, tt.want.Setting)
			}
			if got.Location != tt.want.Location {
				t.Errorf("Location = %q, want %q", got.Location, tt.want.Location)
			}
			if got.TimeOfDay != tt.want.TimeOfDay {
				t.Errorf("TimeOfDay = %q, want %q", got.TimeOfDay, tt.want.TimeOfDay)
			}
			if got.StoryDay != tt.want.StoryDay {
				t.Errorf("StoryDay = %d, want %d", got.StoryDay, tt.want.StoryDay)
			}
		})
	}
}

func TestParseHeading_Omitted(t *testing.T) {
	got := ParseHeading("12B OMITTED")
	if got == nil {
		t.Fatal("ParseHeading(\"12B OMITTED\") = nil, want heading")
	}
	if !got.IsOmitted {
		t.Error("IsOmitted = false, want true")
	}
	if got.Number != "12B" {
		t.Errorf("Number = %q, want %q", got.Number, "12B")
	}
	if got.Location != "" {
		t.Errorf("Location = %q, want empty", got.Location)
	}
}

func TestParseHeading_NotAHeading(t *testing.T) {
	lines := []string{
		"",
		"Sarah pours coffee and stares out the window.",
		"SARAH",
		"CUT TO:",
		"He walks into the interior of the barn.",
		"INT. NO TIME OF DAY HERE",
	}
	for _, line := range lines {
		if got := ParseHeading(line); got != nil {
			t.Errorf("ParseHeading(%q) = %+v, want nil", line, got)
		}
	}
}

func TestParseHeading_FormatRoundTrip(t *testing.T) {
	lines := []string{
		"36A INT. FARMHOUSE - KITCHEN - DAY",
		"INT. LOCATION - DAY - 12A",
		"EXT. DESERT HIGHWAY - NIGHT",
		"INT./EXT. MOVING CAR - CONTINUOUS",
	}
	for _, line := range lines {
		first := ParseHeading(line)
		if first == nil {
			t.Fatalf("ParseHeading(%q) = nil", line)
		}
		second := ParseHeading(first.Format())
		if second == nil {
			t.Fatalf("ParseHeading(Format(%q)) = nil, formatted %q", line, first.Format())
		}
		if second.Location != first.Location {
			t.Errorf("round-trip Location = %q, want %q", second.Location, first.Location)
		}
		if second.Setting != first.Setting {
			t.Errorf("round-trip Setting = %q, want %q", second.Setting, first.Setting)
		}
		if second.TimeOfDay != first.TimeOfDay {
			t.Errorf("round-trip TimeOfDay = %q, want %q", second.TimeOfDay, first.TimeOfDay)
		}
	}
}
