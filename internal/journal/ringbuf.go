package journal

import "math"

// levelCapacity is how many waveform samples the compose surface keeps.
// At one sample per tick this covers the last three seconds of audio.
const levelCapacity = 30

// levelRing is a fixed-capacity FIFO of waveform samples. Pushing onto a
// full ring evicts the oldest sample, so the ring always holds the most
// recent levelCapacity values in arrival order.
type levelRing struct {
	max     int
	samples []float64
}

func newLevelRing(max int) *levelRing {
	return &levelRing{max: max}
}

// seededLevelRing returns a ring pre-filled to capacity with low-amplitude
// placeholder samples, so the waveform shows a calm baseline before real
// microphone levels arrive.
func seededLevelRing() *levelRing {
	r := newLevelRing(levelCapacity)
	for i := 0; i < levelCapacity; i++ {
		r.push(0.2 + 0.1*math.Sin(float64(i)*0.7))
	}
	return r
}

func (r *levelRing) push(v float64) {
	r.samples = append(r.samples, v)
	if len(r.samples) > r.max {
		r.samples = r.samples[len(r.samples)-r.max:]
	}
}

func (r *levelRing) len() int {
	return len(r.samples)
}

func (r *levelRing) values() []float64 {
	return r.samples
}
