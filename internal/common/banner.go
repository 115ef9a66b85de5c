package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	version := GetVersion()
	build := GetBuild()
	commit := GetGitCommit()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 8888888888 8888888 888b    888  .d8888b.  8888888 .d8888b.  888    888 88888888888`,
		` 888          888   8888b   888 d88P  Y88b   888  d88P  Y88b 888    888     888`,
		` 888          888   88888b  888 Y88b.        888  888    888 888    888     888`,
		` 8888888      888   888Y88b 888  "Y888b.     888  888        8888888888     888`,
		` 888          888   888 Y88b888     "Y88b.   888  888  88888 888    888     888`,
		` 888          888   888  Y88888       "888   888  888    888 888    888     888`,
		` 888          888   888   Y8888 Y88b  d88P   888  Y88b  d88P 888    888     888`,
		` 888        8888888 888    Y888  "Y8888P"  8888888 "Y8888P88 888    888     888`,
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s  Investment Research Briefs%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	kvPad := 16
	kvLines := [][2]string{
		{"Version", version},
		{"Build", build},
		{"Commit", commit},
		{"Environment", config.Environment},
		{"Service URL", serviceURL},
		{"Log Level", config.Logging.Level},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "  %-*s %s\n", kvPad, kv[0]+":", kv[1])
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")
}
