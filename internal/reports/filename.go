package reports

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename suggests a download name for a client's report.
func Filename(clientName string) string {
	name := strings.TrimSpace(clientName)
	if name == "" {
		name = "client"
	}
	return whitespaceRun.ReplaceAllString(name, "_") + "_diet_plan.pdf"
}
