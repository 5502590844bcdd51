package router

// Page is a view token. The set is closed: every page the application can
// show is listed here, and Navigate rejects anything else, so an unhandled
// token can never select a blank view.
type Page string

const (
	PageRoleSelection Page = "role-selection"
	PageLogin         Page = "login"
	PageDashboard     Page = "dashboard"
	PageCourses       Page = "courses"
	PageCreateCourse  Page = "create-course"
	PageProfile       Page = "profile"

	// Placeholder pages: navigable, rendered as "coming soon".
	PageAnalytics    Page = "analytics"
	PageStudents     Page = "students"
	PageLiveSession  Page = "live-session"
	PageStudyGroups  Page = "study-groups"
	PageCertificates Page = "certificates"
)

// Valid reports whether p is a known page token.
func (p Page) Valid() bool {
	switch p {
	case PageRoleSelection, PageLogin, PageDashboard, PageCourses,
		PageCreateCourse, PageProfile, PageAnalytics, PageStudents,
		PageLiveSession, PageStudyGroups, PageCertificates:
		return true
	}
	return false
}

// RequiresUser reports whether p may only be shown with an active session.
// Role selection and login are the only pages reachable signed out.
func (p Page) RequiresUser() bool {
	switch p {
	case PageRoleSelection, PageLogin:
		return false
	}
	return true
}

// Placeholder reports whether p is a not-yet-implemented page.
func (p Page) Placeholder() bool {
	switch p {
	case PageAnalytics, PageStudents, PageLiveSession, PageStudyGroups, PageCertificates:
		return true
	}
	return false
}
