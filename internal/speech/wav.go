package speech

import (
	"bytes"
	"encoding/binary"
)

// wavFromPCM wraps little-endian signed 16-bit mono PCM in a RIFF/WAVE
// header so it can be posted to the transcription endpoint.
func wavFromPCM(pcm []byte, sampleRate int) []byte {
	var buf bytes.Buffer

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))            // chunk size
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))             // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))             // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))    // sample rate
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))  // byte rate
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))             // block align
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))            // bits per sample

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
