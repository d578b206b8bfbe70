package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/daybook-app/daybook/internal/buildinfo"
	"github.com/daybook-app/daybook/internal/camera"
	"github.com/daybook-app/daybook/internal/config"
	"github.com/daybook-app/daybook/internal/journal"
	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/speech"
	"github.com/daybook-app/daybook/internal/storage"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.Load()
	if err := run(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(cfg *config.Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	logger, closer := logging.NewFileLogger(cfg.LogFile, cfg.Debug)
	defer closer.Close()

	ctx := context.Background()

	var (
		store        storage.Storage
		speechSource speech.Source
		cameraSource camera.Source
	)
	if cfg.Demo {
		store, speechSource, cameraSource = demoCollaborators(ctx)
	} else {
		var passphrase []byte
		if cfg.Encrypt {
			var err error
			passphrase, err = readPassphrase()
			if err != nil {
				return err
			}
		}
		db, err := storage.Open(ctx, cfg.DatabasePath(), passphrase)
		if errors.Is(err, storage.ErrWrongPassphrase) {
			return fmt.Errorf("wrong passphrase for %s", cfg.DatabasePath())
		}
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		store = db
		speechSource = speech.NewRecognizer(cfg, logger)
		cameraSource = camera.NewExec(cfg, logger)
	}

	controller := journal.NewController(store, speechSource, cameraSource, cfg, logger)
	program := tea.NewProgram(controller, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func readPassphrase() ([]byte, error) {
	fmt.Fprint(os.Stderr, "Passphrase: ")
	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	if len(passphrase) == 0 {
		return nil, errors.New("empty passphrase")
	}
	return passphrase, nil
}
