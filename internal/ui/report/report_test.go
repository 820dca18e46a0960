package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	plannerdto "studyhub/internal/modules/planner/dto"
	"studyhub/internal/platform/markdown"
)

func sample() ([]plannerdto.SubjectOutput, plannerdto.ProgressOutput) {
	subjects := []plannerdto.SubjectOutput{
		{ID: 1, Name: "Math", Difficulty: 7, TotalHours: 25.0 / 60, TodoCount: 2, OpenTodos: 1},
		{ID: 2, Name: "A|B", Difficulty: 3},
	}
	return subjects, plannerdto.ProgressOutput{
		Rows: []plannerdto.ProgressRow{
			{SubjectID: 1, Name: "Math", TotalHours: 25.0 / 60},
			{SubjectID: 2, Name: "A|B"},
		},
		TotalHours: 25.0 / 60,
	}
}

func TestMarkdownTable(t *testing.T) {
	t.Parallel()
	subjects, progress := sample()
	md := Markdown(subjects, progress)
	require.Contains(t, md, "| Math | 7/10 | 0.4 | 1/2 |")
	require.Contains(t, md, `| A\|B | 3/10 | 0.0 | 0/0 |`)
	require.Contains(t, md, "**Total:** 0.4h across 2 subjects")
}

func TestMergeKeepsUserText(t *testing.T) {
	t.Parallel()
	subjects, progress := sample()
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	first, err := Merge("", subjects, progress, at)
	require.NoError(t, err)
	edited := strings.Replace(first, "---\n\n", "---\n\nMy own notes\n\n", 1)
	edited = strings.Replace(edited, "---\n", "---\nowner: me\n", 1)

	second, err := Merge(edited, subjects[:1], progress, at.Add(time.Hour))
	require.NoError(t, err)

	note, err := markdown.Parse(second)
	require.NoError(t, err)
	require.Equal(t, "me", note.Meta["owner"])
	require.Equal(t, "2026-03-01T10:30:00Z", note.Meta["generated_at"])
	require.Equal(t, 0.42, note.Meta["total_hours"])
	require.Equal(t, 1, note.Meta["subjects"])
	require.Contains(t, note.Body, "My own notes")
	require.Equal(t, 1, strings.Count(note.Body, "<!-- "+BlockName+":start -->"))
	require.NotContains(t, note.Body, "A\\|B")
}

func TestRenderProducesTerminalText(t *testing.T) {
	t.Parallel()
	subjects, progress := sample()
	out, err := Render(Markdown(subjects, progress), 80)
	require.NoError(t, err)
	require.Contains(t, out, "Math")
}
