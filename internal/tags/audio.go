package tags

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2/flac"
	"github.com/llehouerou/go-m4a"
	"github.com/llehouerou/go-mp3"
)

// ReadAudioInfo reads audio stream properties: duration, format and
// sample rate. Each probe reads headers or metadata blocks rather than
// decoding the stream, except the FLAC fallback which decodes.
func ReadAudioInfo(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtMP3:
		return probeMP3(f)
	case ExtFLAC:
		return probeFLAC(path)
	case ExtOPUS, ExtOGG, ExtOGA:
		return probeOgg(f)
	case ExtM4A, ExtMP4:
		return probeM4A(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// probeMP3 derives duration from the decoder's sample count without
// decoding frames.
func probeMP3(f *os.File) (*AudioInfo, error) {
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}

	rate := decoder.SampleRate()
	if rate == 0 {
		return nil, errors.New("mp3: invalid sample rate")
	}
	samples := max(decoder.SampleCount(), 0)

	return &AudioInfo{
		Duration:   samplesToDuration(int64(samples), rate),
		Format:     "MP3",
		SampleRate: rate,
	}, nil
}

// probeFLAC reads the STREAMINFO metadata block. Files go-flac cannot
// parse (usually a bolted-on ID3v2 header) or without a usable
// STREAMINFO fall back to a full decode through beep.
func probeFLAC(path string) (*AudioInfo, error) {
	flacFile, err := goflac.ParseFile(path)
	if err == nil {
		if info := streamInfoAudio(flacFile); info != nil {
			return info, nil
		}
	}
	return decodeFLAC(path)
}

// streamInfoAudio builds an AudioInfo from the first STREAMINFO block,
// nil when none is usable.
func streamInfoAudio(f *goflac.File) *AudioInfo {
	for _, meta := range f.Meta {
		if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
			continue
		}
		rate, samples := parseStreamInfo(meta.Data)
		info := &AudioInfo{Format: "FLAC", SampleRate: rate}
		if rate > 0 {
			info.Duration = samplesToDuration(samples, rate)
		}
		return info
	}
	return nil
}

// parseStreamInfo extracts the sample rate and total sample count from
// a STREAMINFO block. The sample rate is 20 bits starting at byte 10;
// the total count is 36 bits starting at the low nibble of byte 13.
func parseStreamInfo(data []byte) (sampleRate int, totalSamples int64) {
	sampleRate = int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
	totalSamples = int64(data[13]&0x0F)<<32 |
		int64(data[14])<<24 | int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17])
	return sampleRate, totalSamples
}

// decodeFLAC opens the stream with beep's decoder, skipping any ID3v2
// prefix first.
func decodeFLAC(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := skipID3v2(f); err != nil {
		return nil, err
	}
	streamer, format, err := flac.Decode(f)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	return &AudioInfo{
		Duration:   format.SampleRate.D(streamer.Len()),
		Format:     "FLAC",
		SampleRate: int(format.SampleRate),
	}, nil
}

// Opus always decodes at 48kHz; granule positions count at that rate.
const opusSampleRate = 48000

// probeOgg identifies the codec from the identification header and
// derives duration from the granule position of the last page.
func probeOgg(f *os.File) (*AudioInfo, error) {
	format, sampleRate, err := sniffOggCodec(f)
	if err != nil {
		return nil, err
	}
	granule, err := lastOggGranule(f)
	if err != nil {
		return nil, err
	}

	// Vorbis granules count at the stream rate, Opus granules at 48kHz.
	granuleRate := sampleRate
	if format == "OPUS" {
		granuleRate = opusSampleRate
	}
	return &AudioInfo{
		Duration:   samplesToDuration(granule, granuleRate),
		Format:     format,
		SampleRate: sampleRate,
	}, nil
}

// sniffOggCodec finds the codec identification packet in the first OGG
// page. Opus streams report 48kHz whatever the header says, that is
// the rate they decode at.
func sniffOggCodec(f *os.File) (format string, sampleRate int, err error) {
	buf := make([]byte, 512)
	n, err := f.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", 0, err
	}
	buf = buf[:n]

	if bytes.Contains(buf, []byte("OpusHead")) {
		return "OPUS", opusSampleRate, nil
	}
	if i := bytes.Index(buf, []byte("\x01vorbis")); i >= 0 && i+16 <= len(buf) {
		// The sample rate sits 12 bytes into the identification packet.
		if rate := int(binary.LittleEndian.Uint32(buf[i+12 : i+16])); rate > 0 {
			return "VORBIS", rate, nil
		}
	}
	return "", 0, errors.New("unrecognized OGG codec")
}

// lastOggGranule scans the file tail backwards for the final OggS page
// header and returns its granule position.
func lastOggGranule(f *os.File) (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}

	// The final page lives within the last 64KB.
	start := max(fi.Size()-65536, 0)
	buf := make([]byte, fi.Size()-start)
	if _, err := f.ReadAt(buf, start); err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}

	// A page header is 27 bytes minimum; the granule position is a
	// little-endian int64 at offset 6.
	for i := len(buf) - 27; i >= 0; i-- {
		if string(buf[i:i+4]) != "OggS" {
			continue
		}
		granule := int64(binary.LittleEndian.Uint64(buf[i+6 : i+14])) //nolint:gosec // raw page field
		if granule > 0 {
			return granule, nil
		}
	}
	return 0, errors.New("could not determine OGG duration")
}

// probeM4A reads the container's movie header.
func probeM4A(f *os.File) (*AudioInfo, error) {
	container, err := m4a.Open(f)
	if err != nil {
		return nil, err
	}

	format := "M4A"
	switch container.Codec() {
	case m4a.CodecAAC:
		format = "AAC"
	case m4a.CodecALAC:
		format = "ALAC"
	}

	return &AudioInfo{
		Duration:   container.Duration(),
		Format:     format,
		SampleRate: int(container.SampleRate()),
	}, nil
}

// samplesToDuration converts a sample count at the given rate.
func samplesToDuration(samples int64, rate int) time.Duration {
	return time.Duration(float64(samples) / float64(rate) * float64(time.Second))
}

// skipID3v2 positions the reader past a leading ID3v2 tag, or back at
// the start when there is none.
func skipID3v2(r io.ReadSeeker) error {
	var header [10]byte
	n, err := r.Read(header[:])
	if err != nil {
		return err
	}
	if n < 10 || string(header[:3]) != id3Magic {
		_, err := r.Seek(0, io.SeekStart)
		return err
	}

	_, err = r.Seek(10+syncsafeLen(header[6:10]), io.SeekStart)
	return err
}
