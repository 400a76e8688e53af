package bytecode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// ImageVersion is the current chunk image format version.
// Increment when making incompatible changes to the format.
const ImageVersion uint16 = 1

// ImageMagic tags every chunk image: "LOXC" (Lox Chunk).
const ImageMagic = "LOXC"

var ErrBadImage = errors.New("bytecode: bad chunk image")

// chunkImage is the CBOR form of a Chunk.
type chunkImage struct {
	Magic     string             `cbor:"1,keyasint"`
	Version   uint16             `cbor:"2,keyasint"`
	Code      []imageInstruction `cbor:"3,keyasint"`
	Constants []float64          `cbor:"4,keyasint,omitempty"`
	Lines     []int              `cbor:"5,keyasint"`
}

// imageInstruction encodes as a two-element array [op, index].
type imageInstruction struct {
	_     struct{} `cbor:",toarray"`
	Op    uint8
	Index int
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalChunk serializes a Chunk to canonical CBOR bytes.
func MarshalChunk(c *Chunk) ([]byte, error) {
	img := chunkImage{
		Magic:     ImageMagic,
		Version:   ImageVersion,
		Code:      make([]imageInstruction, len(c.Code)),
		Constants: make([]float64, len(c.Constants)),
		Lines:     c.Lines,
	}
	for i, ins := range c.Code {
		img.Code[i] = imageInstruction{Op: uint8(ins.Op), Index: ins.Index}
	}
	for i, v := range c.Constants {
		img.Constants[i] = float64(v)
	}
	return cborEncMode.Marshal(&img)
}

// UnmarshalChunk deserializes a Chunk from CBOR bytes. The decoded chunk is
// validated, so it is safe to hand to a VM.
func UnmarshalChunk(data []byte) (*Chunk, error) {
	var img chunkImage
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	if img.Magic != ImageMagic {
		return nil, fmt.Errorf("%w: magic %q, want %q", ErrBadImage, img.Magic, ImageMagic)
	}
	if img.Version > ImageVersion {
		return nil, fmt.Errorf("%w: version %d is newer than supported version %d", ErrBadImage, img.Version, ImageVersion)
	}

	c := &Chunk{
		Code:      make([]Instruction, len(img.Code)),
		Constants: make([]Value, len(img.Constants)),
		Lines:     img.Lines,
	}
	if c.Lines == nil {
		c.Lines = []int{}
	}
	for i, ins := range img.Code {
		c.Code[i] = Instruction{Op: Opcode(ins.Op), Index: ins.Index}
	}
	for i, f := range img.Constants {
		c.Constants[i] = Value(f)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// WriteImage encodes c to w.
func WriteImage(w io.Writer, c *Chunk) error {
	data, err := MarshalChunk(c)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadImage decodes a chunk image from r.
func ReadImage(r io.Reader) (*Chunk, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return UnmarshalChunk(data)
}

// SaveImage writes c to the file at path.
func SaveImage(path string, c *Chunk) error {
	data, err := MarshalChunk(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

// LoadImage reads a chunk image from the file at path.
func LoadImage(path string) (*Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c, err := UnmarshalChunk(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
