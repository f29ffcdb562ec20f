package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/harveywai/leadflow/pkg/clock"
	"github.com/harveywai/leadflow/pkg/config"
	"github.com/harveywai/leadflow/pkg/dashboard"
	"github.com/harveywai/leadflow/pkg/database"
	"github.com/harveywai/leadflow/pkg/leadapi"
	"github.com/harveywai/leadflow/pkg/tui"
)

func main() {
	flags := config.RegisterFlags(pflag.CommandLine)
	logPath := pflag.String("log", "", "write logs to this file instead of discarding them")
	pflag.Parse()

	if err := run(flags, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "leadflow-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *config.Flags, logPath string) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The terminal belongs to bubbletea; logs would corrupt the screen.
	log.SetOutput(io.Discard)
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "leadflow")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
	}

	journal, err := database.Open(cfg.JournalDSN)
	if err != nil {
		return fmt.Errorf("failed to open sync journal: %w", err)
	}
	defer journal.Close()

	clk := clock.Real()
	client := leadapi.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	state := dashboard.NewState()
	loader := dashboard.NewLoader(client, state, clk)
	loader.OnLoad(func(o dashboard.Outcome) {
		if err := journal.Record(o); err != nil {
			log.Printf("failed to record sync: %v", err)
		}
	})

	model := tui.NewModel(tui.Options{
		State:   state,
		Loader:  loader,
		Leads:   client,
		History: journal,
		Clock:   clk,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
