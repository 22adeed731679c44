package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// wavHeader is the canonical 44-byte RIFF/WAVE header for PCM data.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

const wavHeaderSize = 44

// EncodeWAV wraps the buffer as a 16-bit PCM WAV file.
func EncodeWAV(b *Buffer) ([]byte, error) {
	if b.NumChannels() < 1 {
		return nil, ErrInvalidChannels
	}
	if b.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	pcm := EncodePCM16(b)
	channels := uint16(b.NumChannels())
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(36 + len(pcm)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   channels,
		SampleRate:    uint32(b.SampleRate),
		ByteRate:      uint32(b.SampleRate) * uint32(channels) * 2,
		BlockAlign:    channels * 2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(pcm)),
	}

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(pcm)))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	buf.Write(pcm)
	return buf.Bytes(), nil
}

// DecodeWAV reads a 16-bit PCM WAV file into a buffer.
func DecodeWAV(data []byte) (*Buffer, error) {
	if len(data) < wavHeaderSize {
		return nil, fmt.Errorf("WAV data too short: need at least %d bytes, got %d", wavHeaderSize, len(data))
	}

	var header wavHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read WAV header: %w", err)
	}

	switch {
	case string(header.ChunkID[:]) != "RIFF":
		return nil, errors.New("invalid WAV file: missing RIFF header")
	case string(header.Format[:]) != "WAVE":
		return nil, errors.New("invalid WAV file: missing WAVE format")
	case string(header.Subchunk1ID[:]) != "fmt ":
		return nil, errors.New("invalid WAV file: missing fmt chunk")
	case string(header.Subchunk2ID[:]) != "data":
		return nil, errors.New("invalid WAV file: missing data chunk")
	case header.AudioFormat != 1:
		return nil, fmt.Errorf("unsupported audio format: %d (only PCM is supported)", header.AudioFormat)
	case header.BitsPerSample != 16:
		return nil, fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", header.BitsPerSample)
	}

	pcm := data[wavHeaderSize:]
	if n := int(header.Subchunk2Size); n < len(pcm) {
		pcm = pcm[:n]
	}
	return ToPlayableBuffer(pcm, int(header.SampleRate), int(header.NumChannels))
}
