package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-qamar/internal/sky"
	"github.com/litescript/ls-qamar/internal/state"
	"github.com/litescript/ls-qamar/internal/ui"
)

// runTUI starts the interactive interface. Without a terminal it prints
// the summary instead.
func runTUI(ctx context.Context, a *app) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		r, err := a.compute(a.clock())
		if err != nil {
			return err
		}
		sky.WriteSummary(os.Stdout, r)
		return nil
	}

	// The screen belongs to the TUI; logs go to a file or nowhere.
	logOut, closeLog, err := openLogFile(a.cfg.Logging.File)
	if err != nil {
		return err
	}
	defer closeLog()
	a.log.SetOutput(logOut)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	refresh, _ := a.cfg.Refresh()
	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = refresh
	stateCfg.Now = a.clock
	stateMgr := state.NewManager(stateCfg)

	model := ui.New(ui.Deps{
		State:    stateMgr,
		Place:    a.place,
		Target:   a.target,
		Store:    b.store,
		Identity: b.identity,
		Log:      a.log,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	go stateMgr.Run(ctx, a.compute, func(s state.Snapshot) {
		if s.LastError != nil {
			a.log.Error("compute failed: %v", s.LastError)
			p.Send(ui.ErrorMsg{Error: s.LastError})
			return
		}
		a.log.Debug("sky computed in %s", s.ComputeElapsed)
		p.Send(ui.DataUpdateMsg{Snapshot: s})
	})

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
