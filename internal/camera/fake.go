package camera

import (
	"context"
	"sync"
)

var (
	_ Source = (*Exec)(nil)
	_ Source = (*Fake)(nil)
)

// Fake is a deterministic camera source for tests and demo mode.
type Fake struct {
	// Status is returned by AuthorizationStatus; RequestAuthorization
	// upgrades Undetermined to RequestResult.
	Status        AuthorizationStatus
	RequestResult AuthorizationStatus

	// Photo is returned by CapturePhoto; Pages by ScanDocument.
	Photo []byte
	Pages [][]byte

	// CaptureErr / ScanErr force capture failures.
	CaptureErr error
	ScanErr    error

	// HasCamera / HasScanner drive the availability probes.
	HasCamera  bool
	HasScanner bool

	mu       sync.Mutex
	captures int
	scans    int
}

func (f *Fake) RequestAuthorization(ctx context.Context) (AuthorizationStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Status == AuthorizationUndetermined {
		f.Status = f.RequestResult
	}
	return f.Status, nil
}

func (f *Fake) AuthorizationStatus() AuthorizationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Status
}

func (f *Fake) Available() bool {
	return f.HasCamera
}

func (f *Fake) DocumentScannerAvailable() bool {
	return f.HasScanner
}

func (f *Fake) CapturePhoto(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CaptureErr != nil {
		return nil, f.CaptureErr
	}
	f.captures++
	return f.Photo, nil
}

func (f *Fake) ScanDocument(ctx context.Context) ([][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ScanErr != nil {
		return nil, f.ScanErr
	}
	f.scans++
	return f.Pages, nil
}

// Counts reports how many captures and scans were performed.
func (f *Fake) Counts() (captures, scans int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.captures, f.scans
}
