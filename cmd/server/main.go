package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/harveywai/leadflow/pkg/clock"
	"github.com/harveywai/leadflow/pkg/config"
	"github.com/harveywai/leadflow/pkg/dashboard"
	"github.com/harveywai/leadflow/pkg/database"
	"github.com/harveywai/leadflow/pkg/leadapi"
	"github.com/harveywai/leadflow/pkg/notify"
	"github.com/harveywai/leadflow/pkg/web"
)

// shutdownTimeout bounds how long in-flight requests may run after a signal.
const shutdownTimeout = 5 * time.Second

func main() {
	flags := config.RegisterFlags(pflag.CommandLine)
	release := pflag.Bool("release", false, "run gin in release mode")
	pflag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *release {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize the sync journal.
	journal, err := database.Open(cfg.JournalDSN)
	if err != nil {
		log.Fatalf("failed to open sync journal: %v", err)
	}
	defer func() {
		if err := journal.Close(); err != nil {
			log.Printf("failed to close sync journal: %v", err)
		}
	}()

	clk := clock.Real()
	client := leadapi.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	state := dashboard.NewState()
	loader := dashboard.NewLoader(client, state, clk)
	loader.OnLoad(func(o dashboard.Outcome) {
		if err := journal.Record(o); err != nil {
			log.Printf("failed to record sync: %v", err)
		}
	})
	loader.OnLoad(printOutcome)
	if cfg.AlertWebhook != "" {
		notifier := notify.New(cfg.AlertWebhook, cfg.AlertSecret, cfg.RequestTimeout)
		loader.OnLoad(notifier.Observe)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The first load runs on the refresher goroutine; pages show the loading
	// row until it lands. Stop joins it before the journal closes.
	refresher := dashboard.NewRefresher(loader, clk)
	refresher.StartImmediate(ctx)
	defer refresher.Stop()

	srv := web.NewServer(web.Options{
		State:   state,
		Loader:  loader,
		Leads:   client,
		History: journal,
		Clock:   clk,
	})
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	color.Cyan("LeadFlow dashboard listening on %s (backend %s)", cfg.ListenAddr, client.BaseURL())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// printOutcome prints one load cycle with a colored result.
func printOutcome(o dashboard.Outcome) {
	var result string
	switch {
	case o.Stale:
		result = color.YellowString("Discarded")
	case !o.OK():
		result = color.RedString("Offline")
	case o.Live:
		result = color.GreenString("ClickUp LIVE")
	default:
		result = color.BlueString("Local Only")
	}

	fmt.Printf("Sync #%d | Status: %s | Leads: %d | Took: %s\n",
		o.Generation,
		result,
		o.LeadCount,
		o.Duration.Round(time.Millisecond),
	)
}
