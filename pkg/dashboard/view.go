package dashboard

import (
	"errors"
	"fmt"
)

// View names one of the top-level dashboard screens.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewLeads     View = "leads"
	ViewAnalytics View = "analytics"
)

// Views lists the screens in navigation order.
var Views = []View{ViewDashboard, ViewLeads, ViewAnalytics}

// ErrUnknownView is returned for view names outside Views.
var ErrUnknownView = errors.New("unknown view")

// Header is the title/subtitle pair shown above a view.
type Header struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

var headers = map[View]Header{
	ViewDashboard: {Title: "Dashboard Overview", Subtitle: "Real-time lead management system"},
	ViewLeads:     {Title: "All Leads", Subtitle: "Complete list of all leads from Telegram"},
	ViewAnalytics: {Title: "Analytics", Subtitle: "Performance metrics and insights"},
}

// Headers returns the page header for v.
func Headers(v View) Header {
	return headers[v]
}

// ParseView validates a view name.
func ParseView(name string) (View, error) {
	v := View(name)
	if _, ok := headers[v]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return v, nil
}

// Label is the navigation text for v.
func (v View) Label() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewLeads:
		return "Leads"
	case ViewAnalytics:
		return "Analytics"
	}
	return string(v)
}
