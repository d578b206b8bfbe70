package config

import (
	"encoding/json"
	"os"

	"github.com/daybook-app/daybook/internal/flagx"
	"github.com/daybook-app/daybook/internal/timex"
)

// jsonConfig is the DTO for the JSON config file. timex.Duration lets the
// file spell intervals as "5s" rather than nanoseconds.
type jsonConfig struct {
	DataDir            string         `json:"data_dir"`
	LogFile            string         `json:"log_file"`
	Debug              *bool          `json:"debug"`
	Encrypt            *bool          `json:"encrypt"`
	StorageTimeout     timex.Duration `json:"storage_timeout"`
	RecorderCommand    string         `json:"recorder_command"`
	TranscribeEndpoint string         `json:"transcribe_endpoint"`
	CaptureCommand     string         `json:"capture_command"`
	ScannerCommand     string         `json:"scanner_command"`
	MicConsent         string         `json:"mic_consent"`
	CameraConsent      string         `json:"camera_consent"`
}

// parseJSON overlays cfg with values from the JSON file named by -c/-config.
// Missing file path means no JSON layer. Unset fields keep their defaults.
func parseJSON(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.LogFile != "" {
		cfg.LogFile = jc.LogFile
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
	if jc.Encrypt != nil {
		cfg.Encrypt = *jc.Encrypt
	}
	if jc.StorageTimeout.Duration != 0 {
		cfg.StorageTimeout = jc.StorageTimeout.Duration
	}
	if jc.RecorderCommand != "" {
		cfg.RecorderCommand = jc.RecorderCommand
	}
	if jc.TranscribeEndpoint != "" {
		cfg.TranscribeEndpoint = jc.TranscribeEndpoint
	}
	if jc.CaptureCommand != "" {
		cfg.CaptureCommand = jc.CaptureCommand
	}
	if jc.ScannerCommand != "" {
		cfg.ScannerCommand = jc.ScannerCommand
	}
	if jc.MicConsent != "" {
		cfg.MicConsent = Consent(jc.MicConsent)
	}
	if jc.CameraConsent != "" {
		cfg.CameraConsent = Consent(jc.CameraConsent)
	}
}
