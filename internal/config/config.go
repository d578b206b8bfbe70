// Package config loads runtime settings for the daybook app. Sources are
// layered: defaults, then a JSON file (path from -c/-config), then
// command-line flags. Later sources win.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Consent records the user's decision for a capture capability. An empty
// value means the user has not been asked yet.
type Consent string

const (
	ConsentUndetermined Consent = ""
	ConsentGranted      Consent = "granted"
	ConsentDenied       Consent = "denied"
)

// Config holds runtime settings for daybook.
type Config struct {
	// DataDir is where the sqlite database and log file live.
	DataDir string

	// LogFile is the rotating structured log destination.
	LogFile string

	// Debug enables debug-level logging.
	Debug bool

	// Demo runs with in-memory storage and scripted capture sources.
	Demo bool

	// Encrypt prompts for a passphrase and seals journal content at rest.
	Encrypt bool

	// StorageTimeout bounds every storage and authorization effect.
	StorageTimeout time.Duration

	// RecorderCommand is the external PCM recorder. Empty means autodetect
	// (arecord, rec, sox).
	RecorderCommand string

	// TranscribeEndpoint is a Whisper-compatible HTTP transcription URL.
	TranscribeEndpoint string

	// CaptureCommand produces a still image on stdout or into a file.
	CaptureCommand string

	// ScannerCommand drives the document scanner. Empty means scanimage.
	ScannerCommand string

	// MicConsent and CameraConsent persist the user's capture decisions.
	MicConsent    Consent
	CameraConsent Consent
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	c.DataDir = filepath.Join(home, ".daybook")
	c.LogFile = filepath.Join(c.DataDir, "daybook.log")
	c.StorageTimeout = 5 * time.Second
	c.TranscribeEndpoint = "http://127.0.0.1:8771/v1/audio/transcriptions"
}

// DatabasePath is the sqlite file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "daybook.db")
}

// Load constructs a Config from defaults, JSON file and flags, in that order.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
