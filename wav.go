package catcodec

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrIO is returned when a file can't be opened, written, flushed or seeked.
	ErrIO = errors.New("i/o failure")
	// ErrUnexpectedEOF is returned when a read can't be satisfied in full.
	ErrUnexpectedEOF = errors.New("unexpected end of file")
	// ErrBadMagic is returned when a RIFF or data chunk tag is missing.
	ErrBadMagic = errors.New("unexpected chunk")
	// ErrBadFormat is returned for a WAVE/fmt tag, fmt size, audio format,
	// byte rate or block align that doesn't describe canonical PCM.
	ErrBadFormat = errors.New("unexpected format")
	// ErrSizeMismatch is returned when the RIFF size disagrees with the size
	// recorded in the cat offset table.
	ErrSizeMismatch = errors.New("unexpected RIFF chunk size")
	// ErrUnsupportedChannels is returned for anything but mono.
	ErrUnsupportedChannels = errors.New("unexpected number of audio channels; expected 1")
	// ErrUnsupportedRate is returned for sample rates other than 11025, 22050 or 44100.
	ErrUnsupportedRate = errors.New("unexpected sample rate; expected 11025, 22050 or 44100")
	// ErrUnsupportedBitDepth is returned for bit depths other than 8 or 16.
	ErrUnsupportedBitDepth = errors.New("unexpected number of bits per sample; expected 8 or 16")
	// ErrBadDataSize is returned when the data chunk doesn't fit in the RIFF chunk.
	ErrBadDataSize = errors.New("unexpected data chunk size")
	// ErrOffsetMismatch is returned when an entry doesn't sit at the offset
	// recorded for it in the offset table.
	ErrOffsetMismatch = errors.New("invalid offset")
	// ErrOffsetAlreadySet is returned when a sample is placed in an archive twice.
	ErrOffsetAlreadySet = errors.New("offset already assigned")
	// ErrStringTooLong is returned for names or filenames over 254 bytes.
	ErrStringTooLong = errors.New("string is too long")
	// ErrCommitFailed is returned when the new file can't be moved into place.
	ErrCommitFailed = errors.New("could not commit")
	// ErrBadIndexLine is returned for an sfo line without a name separator.
	ErrBadIndexLine = errors.New("invalid index line")
	// ErrBadExtension is returned when the archive path doesn't end in ".cat".
	ErrBadExtension = errors.New("unexpected extension; expected \".cat\"")
)

func nullTermStr(b []byte) string {
	return string(b[:clen(b)])
}

func clen(num []byte) int {
	for i := range num {
		if num[i] == 0 {
			return i
		}
	}

	return len(num)
}

func samplesNumFromBytes(n, numChans, bitDepth int) int {
	blockAlign := numChans * bitDepth / 8
	if blockAlign == 0 {
		return 0
	}

	return n / blockAlign
}

func durationFromSamples(samples, sampleRate int) time.Duration {
	if sampleRate == 0 {
		return 0
	}

	return time.Duration(samples) * time.Second / time.Duration(math.Abs(float64(sampleRate)))
}
