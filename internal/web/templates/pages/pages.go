package pages

import (
	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/web/templates/components"
	"github.com/neu-balayan/pageantscore/internal/web/templates/layout"
)

// Tab is a dashboard section
type Tab string

const (
	TabContestants Tab = "contestants"
	TabJudges      Tab = "judges"
	TabCategories  Tab = "categories"
	TabScoring     Tab = "scoring"
	TabResults     Tab = "results"
)

type tabInfo struct {
	tab   Tab
	label string
	blurb string
}

var tabs = []tabInfo{
	{TabContestants, "Contestants", ""},
	{TabJudges, "Judges", "Manage judges (placeholder)"},
	{TabCategories, "Categories", "Configure scoring categories (placeholder)"},
	{TabScoring, "Scoring", "Scoring interface (placeholder)"},
	{TabResults, "Results", "Official results and export (placeholder)"},
}

// ParseTab maps a query value to a Tab, defaulting to contestants
func ParseTab(s string) Tab {
	for _, t := range tabs {
		if string(t.tab) == s {
			return t.tab
		}
	}
	return TabContestants
}

func (t tabInfo) href() string {
	return "/admin?tab=" + string(t.tab)
}

// HomeData holds data for the landing page
type HomeData struct {
	layout.PageData
	// Login is set while the administrator login form is open
	Login *components.LoginModalData
}

var (
	adminCard = components.RoleCardData{
		Title:    "Administrator",
		Subtitle: "Full system access and management",
		Bullets: []string{
			"Manage contestants and judges",
			"Configure scoring categories",
			"View all scores and rankings",
			"Generate official results",
		},
		Href:    "/admin/login",
		Primary: true,
		Label:   "Access as Administrator",
	}
	judgeCard = components.RoleCardData{
		Title:    "Judge Panel",
		Subtitle: "Scoring and evaluation interface",
		Bullets: []string{
			"Input contestant scores",
			"Category-based evaluation",
			"Real-time score submission",
			"Simplified scoring interface",
		},
		Href:  "/judge",
		Label: "Access as Judge",
	}
)

// AdminData holds data for the administrator dashboard
type AdminData struct {
	layout.PageData
	Tab    Tab
	Counts model.Counts
	Mr     []model.Contestant
	Ms     []model.Contestant
}

// ErrorData describes a failed request
type ErrorData struct {
	layout.PageData
	Message string
}
