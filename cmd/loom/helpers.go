package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// writeJSON renders v as indented JSON on the command's stdout, for the
// --json output mode shared by the read commands.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var platformCaser = cases.Title(language.English)

// knownPlatformDisplay overrides title casing where the brand spells it
// differently.
var knownPlatformDisplay = map[string]string{
	"x":        "X",
	"linkedin": "LinkedIn",
	"tiktok":   "TikTok",
	"youtube":  "YouTube",
}

func displayPlatform(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return ""
	}
	if display, ok := knownPlatformDisplay[key]; ok {
		return display
	}
	return platformCaser.String(key)
}

// parseDateFlag accepts YYYY-MM-DD or a full RFC3339 timestamp.
func parseDateFlag(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD or RFC3339)", value)
	}
	return &t, nil
}

// truncateContent collapses whitespace and caps the result at max runes so a
// cut mid-text never splits a multibyte character.
func truncateContent(content string, max int) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if max <= 0 || len(runes) <= max {
		return content
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
