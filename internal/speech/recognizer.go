package speech

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/daybook-app/daybook/internal/config"
	"github.com/daybook-app/daybook/internal/logging"
)

const (
	sampleRate = 16000

	// chunkBytes is 100ms of 16-bit mono PCM at sampleRate.
	chunkBytes = sampleRate / 10 * 2

	// transcribeEvery is how often the accumulated audio is re-transcribed
	// while recording, producing a fresh partial transcript event.
	transcribeEvery = 2 * time.Second

	// minTranscribeBytes skips transcription until at least half a second of
	// audio has accumulated.
	minTranscribeBytes = sampleRate
)

// recorder candidates tried in order when no recorder command is configured.
// Each produces little-endian signed 16-bit mono PCM on stdout.
var recorderCandidates = []struct {
	name string
	args []string
}{
	{"arecord", []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "raw"}},
	{"rec", []string{"-q", "-t", "raw", "-b", "16", "-e", "signed-integer", "-c", "1", "-r", "16000", "-"}},
	{"sox", []string{"-q", "-d", "-t", "raw", "-b", "16", "-e", "signed-integer", "-c", "1", "-r", "16000", "-"}},
}

// Recognizer is the production speech source: an external recorder command
// supplies PCM, a Whisper-compatible endpoint turns accumulated audio into
// partial transcripts, and the live RMS of the PCM stream is exposed as the
// audio level.
type Recognizer struct {
	consent     config.Consent
	recorderCmd string
	log         logging.Logger
	transcriber *transcriber

	level atomic.Uint64 // math.Float64bits of the current RMS level

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRecognizer builds a Recognizer from config.
func NewRecognizer(cfg *config.Config, log logging.Logger) *Recognizer {
	return &Recognizer{
		consent:     cfg.MicConsent,
		recorderCmd: cfg.RecorderCommand,
		log:         log.With("component", "speech"),
		transcriber: newTranscriber(cfg.TranscribeEndpoint),
	}
}

// recorderCommand resolves the recorder binary and its argument list.
func (r *Recognizer) recorderCommand() (string, []string, error) {
	if r.recorderCmd != "" {
		path, err := exec.LookPath(r.recorderCmd)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s not found", ErrUnavailable, r.recorderCmd)
		}
		for _, c := range recorderCandidates {
			if c.name == r.recorderCmd {
				return path, c.args, nil
			}
		}
		return path, nil, nil
	}
	for _, c := range recorderCandidates {
		if path, err := exec.LookPath(c.name); err == nil {
			return path, c.args, nil
		}
	}
	return "", nil, ErrUnavailable
}

func (r *Recognizer) Available() bool {
	_, _, err := r.recorderCommand()
	return err == nil
}

func (r *Recognizer) RequestAuthorization(ctx context.Context) (AuthorizationStatus, error) {
	if r.consent == config.ConsentDenied {
		return AuthorizationDenied, nil
	}
	if !r.Available() {
		return AuthorizationRestricted, nil
	}
	return AuthorizationGranted, nil
}

func (r *Recognizer) AudioLevel() float64 {
	return math.Float64frombits(r.level.Load())
}

// StartTranscription tears down any previous session, starts the recorder
// and the periodic transcription loop, and returns the event stream.
func (r *Recognizer) StartTranscription(ctx context.Context) (<-chan TranscriptEvent, error) {
	if r.consent == config.ConsentDenied {
		return nil, ErrNotAuthorized
	}
	path, args, err := r.recorderCommand()
	if err != nil {
		return nil, err
	}

	r.StopTranscription()

	sessionCtx, cancel := context.WithCancel(ctx)
	events := make(chan TranscriptEvent, 8)
	done := make(chan struct{})

	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(sessionCtx)

	var pcmMu sync.Mutex
	var pcm []byte

	cmd := exec.CommandContext(gctx, path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		close(done)
		return nil, fmt.Errorf("failed to open recorder pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		close(done)
		return nil, fmt.Errorf("failed to start recorder: %w", err)
	}

	// PCM reader: keeps the level fresh and accumulates session audio.
	g.Go(func() error {
		defer func() { _ = cmd.Wait() }()
		buf := make([]byte, chunkBytes)
		for {
			n, err := stdout.Read(buf)
			if n > 0 {
				r.level.Store(math.Float64bits(rmsLevel(buf[:n])))
				pcmMu.Lock()
				pcm = append(pcm, buf[:n]...)
				pcmMu.Unlock()
			}
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("recorder stream ended: %w", err)
			}
		}
	})

	// Transcription loop: re-transcribes the accumulated audio and emits a
	// replacing partial transcript each round.
	g.Go(func() error {
		ticker := time.NewTicker(transcribeEvery)
		defer ticker.Stop()
		lastLen := 0
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}

			pcmMu.Lock()
			snapshot := make([]byte, len(pcm))
			copy(snapshot, pcm)
			pcmMu.Unlock()

			if len(snapshot) < minTranscribeBytes || len(snapshot) == lastLen {
				continue
			}
			lastLen = len(snapshot)

			text, err := r.transcriber.Transcribe(gctx, wavFromPCM(snapshot, sampleRate))
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return err
			}
			select {
			case events <- TranscriptEvent{Text: text}:
			case <-gctx.Done():
				return nil
			}
		}
	})

	go func() {
		err := g.Wait()
		r.level.Store(0)
		if err != nil && !errors.Is(err, context.Canceled) {
			r.log.Error(context.Background(), "transcription session failed", "error", err)
			select {
			case events <- TranscriptEvent{Err: err}:
			default:
			}
		}
		close(events)
		close(done)
	}()

	return events, nil
}

// StopTranscription cancels the active session and waits for its goroutines
// to finish, so a following StartTranscription never overlaps.
func (r *Recognizer) StopTranscription() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
