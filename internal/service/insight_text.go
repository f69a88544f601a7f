package service

import (
	"regexp"
	"strings"
)

var (
	insightFenceOpen  = regexp.MustCompile("^```[a-zA-Z]*[ \t]*\r?\n?")
	insightFenceClose = regexp.MustCompile("\r?\n?```$")
	insightBlankRuns  = regexp.MustCompile(`\n{3,}`)
)

// cleanInsightText deja el texto de insights listo para mostrar: sin BOM, sin
// fences de markdown alrededor y con a lo sumo una linea en blanco entre parrafos.
func cleanInsightText(raw string) string {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "\uFEFF")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = insightFenceOpen.ReplaceAllString(s, "")
		s = insightFenceClose.ReplaceAllString(s, "")
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = insightBlankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
