package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/helvetius/vanaclock/internal/config"
	"github.com/helvetius/vanaclock/internal/engine"
	"github.com/helvetius/vanaclock/internal/notify"
	"github.com/helvetius/vanaclock/internal/store"
)

// Run loads persisted state, boots the TUI, and blocks until it exits.
func Run(ctx context.Context, db *store.DB, cfg config.Config, log *zap.Logger) error {
	st := engine.NewState()
	st.CatchupMs = cfg.Poll.MaxCatchupMs
	st.GuardMs = cfg.Poll.RefireGuardMs

	if timers, err := db.LoadTimers(ctx); err != nil {
		log.Warn("load timers", zap.Error(err))
	} else if timers != nil {
		st.Timers = timers
	}
	if cal, err := db.LoadCalibration(ctx); err != nil {
		log.Warn("load calibration", zap.Error(err))
	} else {
		st.Cal = cal
	}

	showPresets, err := db.LoadShowPresets(ctx)
	if err != nil {
		log.Warn("load show_presets", zap.Error(err))
	}
	offsetHours, err := db.LoadPresetOffsetHours(ctx)
	if err != nil {
		log.Warn("load preset offset", zap.Error(err))
	}

	notifier := notify.New(log, cfg.RepeatInterval())
	defer notifier.StopAll()

	m := initialModel(ctx, db, st, notifier, notify.NewLogKeepAwake(log), cfg, log, showPresets, offsetHours)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
