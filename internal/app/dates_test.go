package app_test

import (
	"testing"

	"review_insights/internal/app"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-01T12:00:00Z", "2024-03-01", true},
		{"2024-03-01T23:30:00.123456", "2024-03-01", true},
		{"2024-03-01T23:30:00-05:00", "2024-03-01", true}, // wall-clock date, no UTC shift
		{"2024-03-01 08:15:00", "2024-03-01", true},
		{"2024-03-01T08:15", "2024-03-01", true},
		{"2024-03-01", "2024-03-01", true},
		{"2024-03-01T12:00:00+0000", "2024-03-01", true},
		{"2024-03-01T23:59:59.5-0800", "2024-03-01", true},
		{"2024-03-01 12:00:00+0530", "2024-03-01", true},
		{"2024-03-01T12:00+0100", "2024-03-01", true},
		{"2024-03-01T12", "2024-03-01", true},
		{"2024-03-01 12", "2024-03-01", true},
		{"20240301", "2024-03-01", true},
		{"20240301T120000", "2024-03-01", true},
		{"20240301T120000Z", "2024-03-01", true},
		{"20240301T120000+0200", "2024-03-01", true},
		{"20240230", "", false},
		{"2024-03-01T25", "", false},
		{" 2024-03-01 ", "2024-03-01", true},
		{"2024-02-30T00:00:00Z", "", false},
		{"03/01/2024", "", false},
		{"garbage", "", false},
		{"", "", false},
		{"Z", "", false},
	}
	for _, tc := range cases {
		got, ok := app.NormalizeDate(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NormalizeDate(%q)=(%q,%v), want (%q,%v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
