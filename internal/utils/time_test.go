package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone America/New_York", timezone: "America/New_York", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestTodayInTimezone(t *testing.T) {
	today, err := TodayInTimezone("UTC")
	if err != nil {
		t.Fatalf("TodayInTimezone() error = %v", err)
	}
	if !ValidateDate(today) {
		t.Errorf("TodayInTimezone() = %q, not a YYYY-MM-DD date", today)
	}

	if _, err := TodayInTimezone("Nowhere/Special"); err == nil {
		t.Error("TodayInTimezone() with invalid timezone should fail")
	}
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		day  string
		want bool
	}{
		{"2024-03-10", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-3-10", false},
		{"2024-03-10T00:00:00Z", false},
		{"", false},
		{"yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			if got := ValidateDate(tt.day); got != tt.want {
				t.Errorf("ValidateDate(%q) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// 2024-03-10 is the spring-forward day in New York
	late := time.Date(2024, 3, 11, 0, 30, 0, 0, ny)

	if got := FormatDate(AddDays(late, -1)); got != "2024-03-10" {
		t.Errorf("AddDays(-1) = %s, want 2024-03-10", got)
	}
	if got := FormatDate(AddDays(late, -2)); got != "2024-03-09" {
		t.Errorf("AddDays(-2) = %s, want 2024-03-09", got)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := []struct {
		in   string
		want string
	}{
		{"~/.config/habitlog/habitlog.db", "/home/tester/.config/habitlog/habitlog.db"},
		{"/var/lib/habitlog.db", "/var/lib/habitlog.db"},
		{"relative.db", "relative.db"},
		{"~other/file", "~other/file"},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsPostgresURL(t *testing.T) {
	if !IsPostgresURL("postgres://me@localhost/habitlog") {
		t.Error("postgres:// should be detected")
	}
	if !IsPostgresURL("postgresql://me@localhost/habitlog") {
		t.Error("postgresql:// should be detected")
	}
	if IsPostgresURL("~/.config/habitlog/habitlog.db") {
		t.Error("file path detected as postgres")
	}
}
