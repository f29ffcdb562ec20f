package render

import (
	"net/url"
	"strings"

	"github.com/harveywai/leadflow/pkg/format"
	"github.com/harveywai/leadflow/pkg/leadapi"
)

// Modal texts.
const (
	DetailLoadingText = "Loading lead details..."
	DetailErrorText   = "Failed to load lead details. Please try again."
	NoDescriptionText = "No description provided"
	ExternalLinkText  = "Open in ClickUp →"
)

// Detail is the full view of one lead.
type Detail struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      Badge  `json:"status"`
	Priority    Badge  `json:"priority"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
	Source      string `json:"source,omitempty"`
	Link        string `json:"link,omitempty"`
	LinkText    string `json:"link_text,omitempty"`
}

// Modal is the lead detail overlay in one of three states.
type Modal struct {
	Loading bool    `json:"loading"`
	Error   string  `json:"error,omitempty"`
	Detail  *Detail `json:"detail,omitempty"`
}

// DetailLoading is shown while the lead is being fetched.
func DetailLoading() Modal {
	return Modal{Loading: true}
}

// DetailError replaces the modal content after a failed fetch. The modal
// stays open.
func DetailError() Modal {
	return Modal{Error: DetailErrorText}
}

// LeadDetail renders a fetched lead.
func LeadDetail(lead leadapi.Lead) Modal {
	description := format.StripMarkdown(lead.Description)
	if strings.TrimSpace(description) == "" {
		description = NoDescriptionText
	}

	d := &Detail{
		ID:          lead.ID,
		Name:        lead.Name,
		Description: description,
		Status:      StatusBadge(lead.Status),
		Priority:    PriorityBadge(lead.Priority),
		Created:     format.FormatAbsolute(lead.CreatedAt),
		Updated:     format.FormatAbsolute(lead.UpdatedAt),
		Source:      lead.Source,
	}
	if link := SafeLink(lead.URL); link != "" {
		d.Link = link
		d.LinkText = ExternalLinkText
	}
	return Modal{Detail: d}
}

// SafeLink returns raw normalized when it is an absolute http or https URL,
// and "" otherwise, so lead data can never smuggle a javascript: or data:
// target into a link.
func SafeLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String()
	}
	return ""
}
