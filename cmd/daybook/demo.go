package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"time"

	"github.com/daybook-app/daybook/internal/camera"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/speech"
	"github.com/daybook-app/daybook/internal/storage"
)

// demoCollaborators wires the in-memory storage and scripted capture
// sources used by -demo, pre-seeded so every surface has something to
// show without touching real hardware or disk.
func demoCollaborators(ctx context.Context) (storage.Storage, speech.Source, camera.Source) {
	store := storage.NewMemory()

	seedDemoEntries(ctx, store)

	speechSource := &speech.Scripted{
		Auth: speech.AuthorizationGranted,
		Events: []speech.TranscriptEvent{
			{Text: "today I"},
			{Text: "today I finally finished"},
			{Text: "today I finally finished the garden fence", Final: true},
		},
		Levels: []float64{0.2, 0.5, 0.8, 0.6, 0.3, 0.7, 0.4},
	}

	photo := demoImage(640, 480, color.RGBA{R: 120, G: 160, B: 200, A: 255})
	cameraSource := &camera.Fake{
		Status:     camera.AuthorizationGranted,
		HasCamera:  true,
		HasScanner: true,
		Photo:      photo,
		Pages: [][]byte{
			demoImage(600, 800, color.RGBA{R: 235, G: 235, B: 225, A: 255}),
			demoImage(600, 800, color.RGBA{R: 225, G: 225, B: 215, A: 255}),
		},
	}

	return store, speechSource, cameraSource
}

func seedDemoEntries(ctx context.Context, store *storage.Memory) {
	samples := []struct {
		title   string
		content string
		age     time.Duration
	}{
		{"", "Slow morning, long walk by the river before work.", 26 * time.Hour},
		{"Standup notes", "Shipped the importer, picked up the search bug next.", 25 * time.Hour},
		{"", "Coffee with Sam. We talked about the move again.", 3 * time.Hour},
		{"", "Finally fixed the wobbly shelf in the hallway.", time.Hour},
	}
	now := time.Now()
	for _, s := range samples {
		entry := models.NewJournalEntry(s.title, s.content, nil)
		entry.CreatedAt = now.Add(-s.age)
		entry.UpdatedAt = entry.CreatedAt
		store.CreateEntry(ctx, entry)
	}

	store.CreateInboxItem(ctx, models.NewInboxItem("Book the dentist appointment"))
	store.CreateInboxItem(ctx, models.NewInboxItem("Reply to the landlord about the lease"))
}

func demoImage(w, h int, fill color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, nil)
	return buf.Bytes()
}
