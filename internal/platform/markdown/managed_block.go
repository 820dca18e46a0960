package markdown

import "strings"

func blockMarkers(name string) (string, string) {
	return "<!-- " + name + ":start -->", "<!-- " + name + ":end -->"
}

// ReplaceBlock swaps the generated block called name inside body, leaving
// everything around it untouched. Without a block the generated one is
// appended.
func ReplaceBlock(body, name, generated string) string {
	startMarker, endMarker := blockMarkers(name)
	block := startMarker + "\n" + strings.TrimRight(generated, "\n") + "\n" + endMarker

	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	if start >= 0 && end > start {
		return body[:start] + block + body[end+len(endMarker):]
	}

	if strings.TrimSpace(body) == "" {
		return block + "\n"
	}
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return body + "\n" + block + "\n"
}
