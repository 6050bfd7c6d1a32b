package components

// RosterPanelID is the element id live updates swap into
const RosterPanelID = "roster-panel"

// RoleCardData describes one entry point on the landing page
type RoleCardData struct {
	Title    string
	Subtitle string
	Bullets  []string
	Href     string
	Primary  bool
	Label    string
}

// LoginModalData is the state of an open login form
type LoginModalData struct {
	Username string
	// Message is the feedback retained by the login form, if any
	Message string
}
