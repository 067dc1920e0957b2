package audio

const (
	DefaultSampleRate = 16000
	DefaultEncoding   = EncodingLinear16
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Encoding: DefaultEncoding}
}

type EncodingInfo struct {
	SampleRate int
	Encoding   Encoding
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Encoding == ""
}

// BytesPerSecond is used to size playback buffers and estimate durations.
func (e EncodingInfo) BytesPerSecond() int {
	return e.SampleRate * e.Encoding.ByteSize()
}

type Encoding string

const (
	EncodingMulaw    Encoding = "mulaw"
	EncodingALaw     Encoding = "alaw"
	EncodingLinear16 Encoding = "linear16"
)

func (e Encoding) Name() string { return string(e) }

func (e Encoding) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

func (e Encoding) SilenceValue() byte {
	switch e {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	case EncodingLinear16:
		return 0
	}
	return 0
}
