package speech

import (
	"encoding/binary"
	"math"
)

// rmsLevel computes the root-mean-square amplitude of little-endian signed
// 16-bit mono PCM, normalized to [0, 1]. An odd trailing byte is ignored.
func rmsLevel(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		v := float64(s)
		sum += v * v
	}
	level := math.Sqrt(sum/float64(n)) / 32768.0
	if level > 1 {
		level = 1
	}
	return level
}
