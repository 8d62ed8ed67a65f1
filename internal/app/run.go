package app

import (
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/data/binding"

	"yashubustudio/questioncategorizer/categorizer"
)

const (
	fyneAppID       = "studio.yashubu.questioncategorizer"
	defaultLogLines = 300
)

// Run loads configuration, wires the categorization service and starts the desktop UI.
func Run(configPath string) error {
	cfg, err := categorizer.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logBind := binding.NewString()
	logger := categorizer.NewLogger(cfg.LogLevel, os.Stdout, newLogCapture(logBind, defaultLogLines))

	client := categorizer.NewClient(cfg, logger)
	svc, err := categorizer.NewService(client, cfg, logger)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	logger.Info().Str("endpoint", client.Endpoint()).Bool("reconcile", cfg.ReconcileByText).Msg("categorizer ready")

	defer func() {
		if err := categorizer.SaveConfig(configPath, svc.Config()); err != nil {
			logger.Error().Err(err).Msg("save config")
		}
	}()

	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, svc, configPath, logBind, logger)
	u.w.SetMaster()
	u.w.ShowAndRun()
	return nil
}
