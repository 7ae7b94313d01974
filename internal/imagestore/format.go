package imagestore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Magic identifies this package's container format, the way
// heisthecat31-evrFileTools/pkg/archive identifies its own zstd containers.
var Magic = [4]byte{'R', 'C', 'U', 'B'}

const formatVersion = 1

// HeaderSize is the binary size of Header.
const HeaderSize = 4 + 4 + 4 + 4 + 4

// Header is the fixed-size prefix of a container file: magic, version,
// then the cube's W×H×K shape. It is always stored uncompressed, even for
// the compressed container variant, so a reader can learn the shape
// without decompressing the body.
type Header struct {
	Magic   [4]byte
	Version uint32
	Width   uint32
	Height  uint32
	Planes  uint32
}

func (h *Header) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("imagestore: marshal header: %w", err)
	}
	return buf.Bytes(), nil
}

func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("imagestore: header too short (%d bytes)", len(data))
	}
	buf := bytes.NewReader(data[:HeaderSize])
	if err := binary.Read(buf, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("imagestore: unmarshal header: %w", err)
	}
	if h.Magic != Magic {
		return fmt.Errorf("imagestore: bad magic %x", h.Magic)
	}
	if h.Version != formatVersion {
		return fmt.Errorf("imagestore: unsupported version %d", h.Version)
	}
	return nil
}

func newHeader(width, height, planes int) *Header {
	return &Header{
		Magic:   Magic,
		Version: formatVersion,
		Width:   uint32(width),
		Height:  uint32(height),
		Planes:  uint32(planes),
	}
}

// planeBytes is the byte length of one W×H float32 plane.
func planeBytes(width, height int) int {
	return width * height * 4
}

func encodePlane(dst []byte, data []float32) {
	for i, v := range data {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

func decodePlane(src []byte, width, height int) []float32 {
	n := width * height
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return out
}
