package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

func formatSize(n uint64) string {
	return humanize.IBytes(n)
}

func formatDuration(d time.Duration) string {
	seconds := d.Seconds()
	switch {
	case seconds < 1:
		return fmt.Sprintf("%.0f ms", seconds*1000)
	case seconds < 60:
		return fmt.Sprintf("%.3f s", seconds)
	case seconds < 3600:
		minutes := int(seconds) / 60
		return fmt.Sprintf("%d m %.0f s", minutes, seconds-float64(minutes*60))
	default:
		hours := int(seconds) / 3600
		minutes := (int(seconds) % 3600) / 60
		return fmt.Sprintf("%d h %d m", hours, minutes)
	}
}
