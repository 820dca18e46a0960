package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	plannerdto "studyhub/internal/modules/planner/dto"
	"studyhub/internal/platform/markdown"
)

// BlockName marks the generated section inside a report file so text the
// user writes around it survives regeneration.
const BlockName = "studyhub:progress"

// Markdown renders the progress table for the given subjects.
func Markdown(subjects []plannerdto.SubjectOutput, progress plannerdto.ProgressOutput) string {
	var sb strings.Builder
	sb.WriteString("# Study Progress\n\n")
	if len(subjects) == 0 {
		sb.WriteString("_No subjects yet._\n")
		return sb.String()
	}
	sb.WriteString("| Subject | Difficulty | Hours | Open tasks |\n")
	sb.WriteString("|---|---:|---:|---:|\n")
	for _, s := range subjects {
		fmt.Fprintf(&sb, "| %s | %d/10 | %.1f | %d/%d |\n", escapeCell(s.Name), s.Difficulty, s.TotalHours, s.OpenTodos, s.TodoCount)
	}
	fmt.Fprintf(&sb, "\n**Total:** %.1fh across %d subjects\n", progress.TotalHours, len(subjects))
	return sb.String()
}

// Merge writes the report into existing file content. Frontmatter keys the
// report owns are overwritten; other keys and text outside the generated
// block are kept.
func Merge(existing string, subjects []plannerdto.SubjectOutput, progress plannerdto.ProgressOutput, generatedAt time.Time) (string, error) {
	note, err := markdown.Parse(existing)
	if err != nil {
		return "", fmt.Errorf("parse existing report: %w", err)
	}
	note.Meta["generated_at"] = generatedAt.UTC().Format(time.RFC3339)
	note.Meta["total_hours"] = roundHours(progress.TotalHours)
	note.Meta["subjects"] = len(subjects)
	note.Body = markdown.ReplaceBlock(note.Body, BlockName, Markdown(subjects, progress))
	return note.String()
}

// Render formats markdown for the terminal.
func Render(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("new renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func roundHours(h float64) float64 {
	return float64(int64(h*100+0.5)) / 100
}
