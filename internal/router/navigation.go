package router

import "github.com/noah-isme/school-portal-api/internal/models"

// NavLink is one sidebar entry with its active highlight state.
type NavLink struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

// NavLinks returns the sidebar for a role, marking the link matching the
// current path as active.
func NavLinks(role models.Role, currentPath string) []NavLink {
	var entries []NavLink
	switch role {
	case models.RoleAdmin:
		entries = []NavLink{
			{Label: "Dashboard", Path: AdminDashboardPath},
			{Label: "Students", Path: "/students"},
			{Label: "Classes", Path: "/classes"},
			{Label: "Exams", Path: "/exams"},
		}
	case models.RoleTeacher:
		entries = []NavLink{
			{Label: "Dashboard", Path: TeacherDashboardPath},
			{Label: "Classes", Path: "/classes"},
			{Label: "Assignments", Path: "/assignments"},
			{Label: "Exams", Path: "/exams"},
		}
	case models.RoleStudent:
		entries = []NavLink{
			{Label: "Dashboard", Path: StudentDashboardPath},
			{Label: "Assignments", Path: "/assignments"},
			{Label: "Attendance", Path: "/attendance"},
			{Label: "Timetable", Path: "/timetable"},
		}
	case models.RoleParent:
		entries = []NavLink{
			{Label: "Dashboard", Path: ParentDashboardPath},
			{Label: "Children", Path: "/students"},
			{Label: "Attendance", Path: "/attendance"},
			{Label: "Exams", Path: "/exams"},
		}
	default:
		return nil
	}

	for i := range entries {
		entries[i].Active = IsActive(currentPath, entries[i].Path)
	}
	return entries
}
