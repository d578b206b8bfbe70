package camera

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"

	"github.com/daybook-app/daybook/internal/config"
	"github.com/daybook-app/daybook/internal/logging"
)

// capture candidates tried in order when no capture command is configured.
// Each writes one still image to the file named by its last argument.
var captureCandidates = []struct {
	name string
	args []string
}{
	{"imagesnap", []string{"-q"}},
	{"fswebcam", []string{"-q", "--no-banner"}},
}

const defaultScannerCommand = "scanimage"

// Exec is the production camera source. Stills come from an external capture
// command, documents from SANE scanimage in batch mode.
type Exec struct {
	captureCmd string
	scannerCmd string
	log        logging.Logger

	mu      sync.Mutex
	consent config.Consent
}

// NewExec builds an Exec source from config.
func NewExec(cfg *config.Config, log logging.Logger) *Exec {
	scanner := cfg.ScannerCommand
	if scanner == "" {
		scanner = defaultScannerCommand
	}
	return &Exec{
		captureCmd: cfg.CaptureCommand,
		scannerCmd: scanner,
		log:        log.With("component", "camera"),
		consent:    cfg.CameraConsent,
	}
}

func (e *Exec) captureCommand() (string, []string, error) {
	if e.captureCmd != "" {
		path, err := exec.LookPath(e.captureCmd)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s not found", ErrUnavailable, e.captureCmd)
		}
		for _, c := range captureCandidates {
			if c.name == e.captureCmd {
				return path, c.args, nil
			}
		}
		return path, nil, nil
	}
	for _, c := range captureCandidates {
		if path, err := exec.LookPath(c.name); err == nil {
			return path, c.args, nil
		}
	}
	return "", nil, ErrUnavailable
}

func (e *Exec) Available() bool {
	_, _, err := e.captureCommand()
	return err == nil
}

func (e *Exec) DocumentScannerAvailable() bool {
	_, err := exec.LookPath(e.scannerCmd)
	return err == nil
}

func (e *Exec) AuthorizationStatus() AuthorizationStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.consent {
	case config.ConsentDenied:
		return AuthorizationDenied
	case config.ConsentGranted:
		if !e.Available() {
			return AuthorizationRestricted
		}
		return AuthorizationGranted
	default:
		return AuthorizationUndetermined
	}
}

func (e *Exec) RequestAuthorization(ctx context.Context) (AuthorizationStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.consent == config.ConsentDenied {
		return AuthorizationDenied, nil
	}
	if !e.Available() {
		return AuthorizationRestricted, nil
	}
	e.consent = config.ConsentGranted
	return AuthorizationGranted, nil
}

func (e *Exec) CapturePhoto(ctx context.Context) ([]byte, error) {
	if e.AuthorizationStatus() != AuthorizationGranted {
		return nil, ErrNotAuthorized
	}
	path, args, err := e.captureCommand()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "daybook-capture-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "still.jpg")
	cmd := exec.CommandContext(ctx, path, append(args, out)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("capture command failed: %w (%s)", err, output)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read captured image: %w", err)
	}
	e.log.Debug(ctx, "captured still", "bytes", len(data))
	return data, nil
}

func (e *Exec) ScanDocument(ctx context.Context) ([][]byte, error) {
	if e.AuthorizationStatus() != AuthorizationGranted {
		return nil, ErrNotAuthorized
	}
	scanner, err := exec.LookPath(e.scannerCmd)
	if err != nil {
		return nil, ErrScannerUnavailable
	}

	dir, err := os.MkdirTemp("", "daybook-scan-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	pattern := filepath.Join(dir, "page-%d.png")
	cmd := exec.CommandContext(ctx, scanner, "--format=png", "--batch="+pattern)
	// scanimage exits non-zero when the feeder runs empty; pages may still
	// have been produced, so the error alone is not fatal.
	output, runErr := cmd.CombinedOutput()

	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	if len(matches) == 0 && runErr != nil && ctx.Err() == nil {
		e.log.Warn(ctx, "scan produced no pages", "error", runErr, "output", string(output))
	}

	pages := make([][]byte, 0, len(matches))
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("failed to read scanned page: %w", err)
		}
		pages = append(pages, data)
	}
	e.log.Debug(ctx, "scanned document", "pages", len(pages))
	return pages, nil
}
