package timer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	sessiondto "studyhub/internal/modules/session/dto"
	"studyhub/internal/ui/theme"
)

// Render draws the session panel: phase, subject and the m:ss clock, plus
// the actions valid in the current phase.
func Render(snap sessiondto.SnapshotOutput, width, height int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Study Session") + "\n\n")

	switch {
	case !snap.Active:
		sb.WriteString(theme.Muted.Render("No session running.") + "\n\n")
		sb.WriteString(theme.Muted.Render("Select a subject and press s to start a 25 minute study block."))
	case snap.CanComplete:
		sb.WriteString(theme.Studying.Render("STUDYING") + "  " + snap.SubjectName + "\n\n")
		sb.WriteString(clock(snap.Clock, theme.Studying) + "\n\n")
		sb.WriteString(theme.Muted.Render("c: complete session  C: cancel"))
	default:
		sb.WriteString(theme.Break.Render("BREAK") + "  " + snap.SubjectName + "\n\n")
		sb.WriteString(clock(snap.Clock, theme.Break) + "\n\n")
		sb.WriteString(theme.Muted.Render("C: cancel"))
	}

	return theme.PaneActive.
		Width(max(width-2, 10)).
		Height(max(height-2, 3)).
		Render(lipgloss.PlaceHorizontal(max(width-6, 10), lipgloss.Center, sb.String()))
}

func clock(value string, style lipgloss.Style) string {
	return style.Padding(1, 4).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.Surface1).
		Render(value)
}
