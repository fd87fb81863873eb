package main

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{32 * time.Millisecond, "32 ms"},
		{999 * time.Millisecond, "999 ms"},
		{3210 * time.Millisecond, "3.210 s"},
		{59 * time.Second, "59.000 s"},
		{75 * time.Second, "1 m 15 s"},
		{3700 * time.Second, "1 h 1 m"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.in); got != tc.want {
			t.Fatalf("formatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1024, "1.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tc := range cases {
		if got := formatSize(tc.in); got != tc.want {
			t.Fatalf("formatSize(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
