package console

// Section identifies one of the page's mutually exclusive sections
type Section string

const (
	SectionLeagues   Section = "leaguesSection"
	SectionTeams     Section = "teamsSection"
	SectionSchedules Section = "schedulesSection"
	SectionAdmin     Section = "adminSection"

	DefaultSection = SectionLeagues
)

// Sections lists every section in display order
var Sections = []Section{SectionLeagues, SectionTeams, SectionSchedules, SectionAdmin}

// ParseSection returns the section named s, or false when s is unknown.
func ParseSection(s string) (Section, bool) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}

// View is what the page shows: exactly one active section, plus the login
// overlay which sits above whatever section is active.
type View struct {
	Active           Section
	LoginOverlayOpen bool
}

// Show makes sec the only active section.
func (v View) Show(sec Section) View {
	v.Active = sec
	return v
}

// IsActive reports whether sec is the active section
func (v View) IsActive(sec Section) bool {
	return v.Active == sec
}

// InitialView picks the section for a page load. An explicitly requested
// section wins, except the admin section without a session, which opens the
// login overlay over the default section. Otherwise a logged-in user lands on
// the admin section.
func InitialView(requested string, loggedIn bool) View {
	sec, ok := ParseSection(requested)
	switch {
	case ok && sec == SectionAdmin && !loggedIn:
		return View{Active: DefaultSection, LoginOverlayOpen: true}
	case ok:
		return View{Active: sec}
	}
	if loggedIn {
		return View{Active: SectionAdmin}
	}
	return View{Active: DefaultSection}
}

// AdminView is the result of clicking "admin": straight to the admin section
// when logged in, otherwise the login overlay opens over the current section.
func AdminView(current View, loggedIn bool) View {
	if loggedIn {
		return View{Active: SectionAdmin}
	}
	current.LoginOverlayOpen = true
	return current
}
