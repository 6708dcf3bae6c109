package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"vela/internal/diagfmt"
	"vela/internal/driver"
	"vela/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return diagfmt.ColorAuto(os.Stderr) && diagfmt.ColorAuto(os.Stdout)
}

// withProgress runs work while a progress view on stderr consumes its events.
func withProgress(cmd *cobra.Command, title string, work func(driver.ProgressSink) error) error {
	events := make(chan driver.Event, 256)
	errCh := make(chan error, 1)
	go func() {
		errCh <- work(driver.ChannelSink{Ch: events})
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, nil, events),
		tea.WithOutput(cmd.ErrOrStderr()), tea.WithInput(nil))
	_, uiErr := program.Run()
	for range events {
		// drain so work never blocks on a dead view
	}
	err := <-errCh
	if uiErr != nil {
		return uiErr
	}
	return err
}
