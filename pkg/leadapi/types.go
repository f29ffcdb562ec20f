package leadapi

// Lead is a prospective-customer record as served by the lead backend.
// The dashboard never modifies leads.
type Lead struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ConfigStatus reports whether the backend's tracking-system integration is
// configured. Both flags must be set for the integration to be live.
type ConfigStatus struct {
	ClickUpConnected bool `json:"clickup_connected"`
	ListIDSet        bool `json:"list_id_set"`
}

// Live reports whether leads are coming from the live integration rather
// than the backend's local cache.
func (c *ConfigStatus) Live() bool {
	return c != nil && c.ClickUpConnected && c.ListIDSet
}

// Stats is the aggregate served by GET /stats. Missing map keys count as 0.
type Stats struct {
	TotalLeads  int            `json:"total_leads"`
	ByStatus    map[string]int `json:"by_status"`
	ByPriority  map[string]int `json:"by_priority,omitempty"`
	LastUpdated string         `json:"last_updated,omitempty"`
}

// LeadsResponse is the body of GET /leads.
type LeadsResponse struct {
	Leads        []Lead        `json:"leads"`
	ConfigStatus *ConfigStatus `json:"config_status"`
}

type statsResponse struct {
	Stats *Stats `json:"stats"`
}

type leadResponse struct {
	Lead *Lead `json:"lead"`
}

// Overview bundles the two responses one dashboard load needs.
type Overview struct {
	Leads        []Lead
	ConfigStatus *ConfigStatus
	Stats        Stats
}
