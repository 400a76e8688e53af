package bytecode

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

func TestImageRoundTrip(t *testing.T) {
	orig := sampleChunk()
	data, err := MarshalChunk(orig)
	if err != nil {
		t.Fatalf("MarshalChunk failed: %v", err)
	}
	got, err := UnmarshalChunk(data)
	if err != nil {
		t.Fatalf("UnmarshalChunk failed: %v", err)
	}
	if got.Disassemble("x") != orig.Disassemble("x") {
		t.Errorf("round trip changed chunk:\n%s\nwant\n%s", got.Disassemble("x"), orig.Disassemble("x"))
	}

	var out bytes.Buffer
	vm := NewVM(got)
	vm.Out = &out
	if _, err := vm.Interpret(false); err != nil {
		t.Fatalf("Interpret on decoded chunk failed: %v", err)
	}
	a, b, d := 2.2, 3.4, 5.6
	if want := Value(-((a + b) / d)).String() + "\n"; out.String() != want {
		t.Errorf("decoded chunk output = %q, want %q", out.String(), want)
	}
}

func TestImageIsDeterministic(t *testing.T) {
	a, err := MarshalChunk(sampleChunk())
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalChunk(sampleChunk())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding the same chunk twice produced different bytes")
	}
}

func TestImageEmptyChunk(t *testing.T) {
	data, err := MarshalChunk(NewChunk())
	if err != nil {
		t.Fatalf("MarshalChunk failed: %v", err)
	}
	c, err := UnmarshalChunk(data)
	if err != nil {
		t.Fatalf("UnmarshalChunk failed: %v", err)
	}
	if c.Len() != 0 || c.ConstantCount() != 0 {
		t.Errorf("decoded empty chunk has %d instructions, %d constants", c.Len(), c.ConstantCount())
	}
}

func TestImageRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalChunk([]byte("not cbor at all")); !errors.Is(err, ErrBadImage) {
		t.Errorf("UnmarshalChunk(garbage) = %v, want ErrBadImage", err)
	}
}

func TestImageRejectsBadMagic(t *testing.T) {
	data, err := cbor.Marshal(&chunkImage{Magic: "MAGS", Version: ImageVersion, Lines: []int{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalChunk(data); !errors.Is(err, ErrBadImage) {
		t.Errorf("UnmarshalChunk(bad magic) = %v, want ErrBadImage", err)
	}
}

func TestImageRejectsNewerVersion(t *testing.T) {
	data, err := cbor.Marshal(&chunkImage{Magic: ImageMagic, Version: ImageVersion + 1, Lines: []int{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalChunk(data); !errors.Is(err, ErrBadImage) {
		t.Errorf("UnmarshalChunk(newer version) = %v, want ErrBadImage", err)
	}
}

func TestImageRejectsInvalidChunk(t *testing.T) {
	img := chunkImage{
		Magic:   ImageMagic,
		Version: ImageVersion,
		Code:    []imageInstruction{{Op: uint8(OpConstant), Index: 4}},
		Lines:   []int{1},
	}
	data, err := cbor.Marshal(&img)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalChunk(data); !errors.Is(err, ErrInvalidChunk) {
		t.Errorf("UnmarshalChunk(bad index) = %v, want ErrInvalidChunk", err)
	}
}

func TestSaveAndLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.loxc")
	if err := SaveImage(path, sampleChunk()); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	c, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if c.Len() != sampleChunk().Len() {
		t.Errorf("loaded chunk Len() = %d, want %d", c.Len(), sampleChunk().Len())
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.loxc"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadImage(missing) = %v, want os.ErrNotExist", err)
	}
}

func TestReadWriteImage(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteImage(&buf, sampleChunk()); err != nil {
		t.Fatalf("WriteImage failed: %v", err)
	}
	c, err := ReadImage(&buf)
	if err != nil {
		t.Fatalf("ReadImage failed: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("ReadImage chunk Validate() = %v", err)
	}
}
