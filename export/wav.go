package export

import (
	"bytes"
	"encoding/binary"

	"github.com/vsariola/modtool"
)

// PALSampleRate is the playback rate of a sample played at period 428
// (C-2) on a PAL machine.
const PALSampleRate = 8287

// SampleFormat is the file format of saved samples.
type SampleFormat int

const (
	Raw SampleFormat = iota // headerless signed 8-bit
	WAV                     // 8-bit mono wave, with a loop if the sample repeats
)

func (f SampleFormat) Ext() string {
	if f == WAV {
		return ".wav"
	}
	return ".raw"
}

// Wav encodes a sample as an 8-bit mono wave file at sampleRate. A sample
// with a repeat longer than one word gets a smpl chunk with a forward loop.
func Wav(si *modtool.SampleInfo, sampleRate int) []byte {
	data := make([]byte, len(si.Data))
	for i, b := range si.Data {
		data[i] = b ^ 0x80 // wave 8-bit data is unsigned
	}
	loop := si.RepeatLength > 1
	chunkSize := 4 + 8 + 16 + 8 + len(data) + len(data)%2
	if loop {
		chunkSize += 8 + 60
	}
	buf := new(bytes.Buffer)
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(chunkSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(1))          // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8))          // bits per sample
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)%2 == 1 {
		buf.WriteByte(0)
	}
	if loop {
		start := uint32(si.RepeatStart) * 2
		end := start + uint32(si.RepeatLength)*2 - 1
		buf.Write([]byte("smpl"))
		binary.Write(buf, binary.LittleEndian, uint32(60))
		binary.Write(buf, binary.LittleEndian, [9]uint32{
			0, 0, // manufacturer, product
			uint32(1e9 / sampleRate), // sample period in ns
			60, 0, // unity note, pitch fraction
			0, 0, // SMPTE format, offset
			1, 0, // loop count, sampler data
		})
		binary.Write(buf, binary.LittleEndian, [6]uint32{0, 0, start, end, 0, 0})
	}
	return buf.Bytes()
}
