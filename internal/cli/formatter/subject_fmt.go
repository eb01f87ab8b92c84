package formatter

import (
	"github.com/whiteindia/selftrack-sub002/internal/domain"
)

// FormatSubjectList renders tasks with their subtasks indented beneath.
func FormatSubjectList(subjects []*domain.Subject) string {
	if len(subjects) == 0 {
		return Dim("No tasks yet. Add one with `selftrack task add --title ...`.") + "\n"
	}

	headers := []string{"ID", "KIND", "TITLE", "STATUS"}
	rows := make([][]string, 0, len(subjects))
	for _, s := range subjects {
		title := Bold(s.Title)
		if s.Kind == domain.SubjectSubtask {
			title = Dim("└ ") + s.Title
		}
		rows = append(rows, []string{
			s.ID,
			string(s.Kind),
			title,
			SubjectStatusPill(s.Status),
		})
	}
	return RenderBox("Tasks", RenderTable(headers, rows))
}
