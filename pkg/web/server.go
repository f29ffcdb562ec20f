// Package web serves the dashboard as server-rendered HTML over gin.
package web

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harveywai/leadflow/pkg/clock"
	"github.com/harveywai/leadflow/pkg/dashboard"
	"github.com/harveywai/leadflow/pkg/leadapi"
	"github.com/harveywai/leadflow/pkg/middleware"
	"github.com/harveywai/leadflow/pkg/render"
)

// SyncHistoryLimit is how many journal entries the analytics view lists.
const SyncHistoryLimit = 10

// LeadGetter fetches a single lead for the detail modal.
type LeadGetter interface {
	GetLead(ctx context.Context, id string) (*leadapi.Lead, error)
}

// SyncHistory lists recent load cycles, newest first.
type SyncHistory interface {
	Entries(limit int) []render.SyncEntry
}

// Options wires a Server. History and Clock are optional.
type Options struct {
	State   *dashboard.State
	Loader  dashboard.Reloader
	Leads   LeadGetter
	History SyncHistory
	Clock   clock.Clock
}

// Server renders the dashboard state and forwards user actions to it.
type Server struct {
	state   *dashboard.State
	loader  dashboard.Reloader
	leads   LeadGetter
	history SyncHistory
	clock   clock.Clock
}

// NewServer builds a server from opts.
func NewServer(opts Options) *Server {
	c := opts.Clock
	if c == nil {
		c = clock.Real()
	}
	return &Server{
		state:   opts.State,
		loader:  opts.Loader,
		leads:   opts.Leads,
		history: opts.History,
		clock:   c,
	}
}

// Router returns the gin engine with every dashboard route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.New("leadflow").Funcs(funcMap).Parse(templates)))

	r.GET("/healthz", s.handleHealth)

	pages := r.Group("/")
	pages.Use(middleware.NoStore(), middleware.SameOrigin())
	{
		for _, v := range dashboard.Views {
			pages.GET(render.ViewPath(v), s.handleView(v))
		}
		pages.POST("/filters", s.handleFilters)
		pages.POST("/refresh", s.handleRefresh)
		pages.GET("/leads/:id/modal", s.handleLeadModal)
		pages.GET("/api/dashboard", s.handleDashboardJSON)
	}

	return r
}

// page renders the current state.
func (s *Server) page() render.Page {
	var syncs []render.SyncEntry
	if s.history != nil {
		syncs = s.history.Entries(SyncHistoryLimit)
	}
	return render.BuildPage(s.state.Snapshot(), syncs, s.clock.Now())
}

// handleView switches to v and renders it.
func (s *Server) handleView(v dashboard.View) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.state.SwitchView(v); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.HTML(http.StatusOK, "page", s.page())
	}
}

// handleFilters applies the submitted status and priority filters and shows
// the leads view.
func (s *Server) handleFilters(c *gin.Context) {
	s.state.ApplyFilters(dashboard.Filters{
		Status:   c.PostForm("status"),
		Priority: c.PostForm("priority"),
	})
	c.Redirect(http.StatusSeeOther, render.ViewPath(dashboard.ViewLeads))
}

// handleRefresh runs one load cycle and returns to the view the form was
// posted from, falling back to the last view shown. The load is detached
// from the request so a closed tab cannot cancel it halfway.
func (s *Server) handleRefresh(c *gin.Context) {
	out := s.loader.Load(context.WithoutCancel(c.Request.Context()))
	if !out.OK() {
		log.Printf("manual refresh failed: %v", out.Err)
	}

	view, err := dashboard.ParseView(c.PostForm("view"))
	if err != nil {
		view = s.state.View()
	}
	c.Redirect(http.StatusSeeOther, render.ViewPath(view))
}

// handleLeadModal renders the detail modal body for one lead.
func (s *Server) handleLeadModal(c *gin.Context) {
	id := c.Param("id")

	lead, err := s.leads.GetLead(c.Request.Context(), id)
	if err != nil {
		log.Printf("failed to load lead %s: %v", id, err)
		status := http.StatusBadGateway
		if errors.Is(err, leadapi.ErrLeadNotFound) {
			status = http.StatusNotFound
		}
		c.HTML(status, "modal", render.DetailError())
		return
	}

	c.HTML(http.StatusOK, "modal", render.LeadDetail(*lead))
}

// handleDashboardJSON exposes the rendered page as JSON.
func (s *Server) handleDashboardJSON(c *gin.Context) {
	c.JSON(http.StatusOK, s.page())
}

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.state.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"loaded":     snap.Loaded,
		"generation": snap.Generation,
		"live":       snap.Status.Live,
		"error":      snap.LoadError,
	})
}
