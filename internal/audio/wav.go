// Package audio probes and validates uploaded field recordings.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotWave       = errors.New("file is not a RIFF/WAVE container")
	ErrNotPCM        = errors.New("audio is not uncompressed PCM")
	ErrNoData        = errors.New("audio contains no samples")
	ErrBadSampleRate = errors.New("sample rate is not supported")
	ErrBadChannels   = errors.New("audio must be mono")
)

// Supported sample rates for archived recordings. 16 kHz is the target
// rate of the ASR pipeline; the others are common field equipment rates
// that the engines resample on their own.
var supportedRates = map[uint32]bool{
	8000:  true,
	16000: true,
	22050: true,
	44100: true,
	48000: true,
}

// Info describes the audio content of a WAV file.
type Info struct {
	SampleRate      int
	Channels        int
	BitsPerSample   int
	DataBytes       int64
	DurationSeconds float64
}

// Probe reads the RIFF/WAVE header from r and returns the audio format.
// It reads only chunk headers and the fmt chunk, never the sample data.
func Probe(r io.ReadSeeker) (Info, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Info{}, ErrNotWave
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return Info{}, ErrNotWave
	}

	var info Info
	var haveFmt, haveData bool
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			break
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			var fmtBuf [16]byte
			if size < 16 {
				return Info{}, ErrNotWave
			}
			if _, err := io.ReadFull(r, fmtBuf[:]); err != nil {
				return Info{}, ErrNotWave
			}
			format := binary.LittleEndian.Uint16(fmtBuf[0:2])
			if format != 1 { // PCM
				return Info{}, ErrNotPCM
			}
			info.Channels = int(binary.LittleEndian.Uint16(fmtBuf[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(fmtBuf[4:8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(fmtBuf[14:16]))
			haveFmt = true
			// Skip any fmt extension bytes
			if size > 16 {
				if _, err := r.Seek(int64(size-16), io.SeekCurrent); err != nil {
					return Info{}, ErrNotWave
				}
			}
		case "data":
			info.DataBytes = int64(size)
			haveData = true
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				// A truncated data chunk still yields usable format info.
				haveData = info.DataBytes > 0
			}
		default:
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				return Info{}, ErrNotWave
			}
		}
		// Chunks are word aligned
		if size%2 == 1 {
			if _, err := r.Seek(1, io.SeekCurrent); err != nil {
				break
			}
		}
		if haveFmt && haveData {
			break
		}
	}

	if !haveFmt {
		return Info{}, ErrNotWave
	}
	if !haveData || info.DataBytes == 0 {
		return Info{}, ErrNoData
	}

	bytesPerSecond := info.SampleRate * info.Channels * info.BitsPerSample / 8
	if bytesPerSecond > 0 {
		info.DurationSeconds = float64(info.DataBytes) / float64(bytesPerSecond)
	}
	return info, nil
}

// Validate checks that a probed recording is acceptable for the archive.
// Field recordings are archived as single-channel audio; the ASR engines
// expect mono input.
func Validate(info Info) error {
	if !supportedRates[uint32(info.SampleRate)] {
		return fmt.Errorf("%w: %d Hz", ErrBadSampleRate, info.SampleRate)
	}
	if info.Channels != 1 {
		return fmt.Errorf("%w: %d channels", ErrBadChannels, info.Channels)
	}
	return nil
}
