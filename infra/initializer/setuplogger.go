package initializer

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/innofund/escrow/pkg/config"
)

func levelStyle(label, color string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(label).
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color(color))
}

// setupLogger builds the process-wide slog.Logger on top of charm's
// handler and installs it as the slog default.
func setupLogger(cfg *config.Log) *slog.Logger {
	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = levelStyle("DEBUG", "#6C7086")
	styles.Levels[log.InfoLevel] = levelStyle("INFO", "#2ECC71")
	styles.Levels[log.WarnLevel] = levelStyle("WARN", "#F1C40F")
	styles.Levels[log.ErrorLevel] = levelStyle("ERROR", "#E74C3C")

	formatter := log.TextFormatter
	if cfg.Format == "json" {
		formatter = log.JSONFormatter
	}

	handler := log.NewWithOptions(os.Stdout, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	handler.SetStyles(styles)

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
