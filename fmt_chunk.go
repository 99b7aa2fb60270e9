package catcodec

const (
	wavFormatPCM = 1
	fmtChunkSize = 16
)

// FmtChunk stores the fields of a PCM fmt chunk.
type FmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
}

// newPCMFmtChunk derives a complete fmt chunk from the three fields that
// define a PCM stream.
func newPCMFmtChunk(numChans uint16, sampleRate uint32, bitDepth uint16) *FmtChunk {
	f := &FmtChunk{
		FormatTag:     wavFormatPCM,
		NumChannels:   numChans,
		SampleRate:    sampleRate,
		BitsPerSample: bitDepth,
	}
	f.AvgBytesPerSec = f.expectedByteRate()
	f.BlockAlign = f.expectedBlockAlign()

	return f
}

func (f *FmtChunk) expectedByteRate() uint32 {
	return f.SampleRate * uint32(f.NumChannels) * uint32(f.BitsPerSample) / 8
}

func (f *FmtChunk) expectedBlockAlign() uint16 {
	return f.NumChannels * f.BitsPerSample / 8
}

func supportedSampleRate(rate uint32) bool {
	switch rate {
	case 11025, 22050, 44100:
		return true
	default:
		return false
	}
}

func supportedBitDepth(bitDepth uint16) bool {
	return bitDepth == 8 || bitDepth == 16
}
