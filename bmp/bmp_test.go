package bmp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leanxcam/oscar/pic"
)

func TestWriteReadRoundTripBGR(t *testing.T) {
	p := pic.New(5, 3, pic.BGR)
	for i := range p.Data {
		p.Data[i] = byte(i)
	}
	path := filepath.Join(t.TempDir(), "color.bmp")
	if err := Write(path, p); err != nil {
		t.Fatal(err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != p.Width || got.Height != p.Height || got.Type != p.Type {
		t.Fatalf("dimensions/type mismatch: got %+v", got)
	}
	for i := range p.Data {
		if got.Data[i] != p.Data[i] {
			t.Fatalf("byte %d mismatch: got %d want %d", i, got.Data[i], p.Data[i])
		}
	}
}

func TestWriteReadRoundTripGrey(t *testing.T) {
	p := pic.New(7, 4, pic.Grey)
	for i := range p.Data {
		p.Data[i] = byte(i * 3)
	}
	path := filepath.Join(t.TempDir(), "grey.bmp")
	if err := Write(path, p); err != nil {
		t.Fatal(err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := range p.Data {
		if got.Data[i] != p.Data[i] {
			t.Fatalf("byte %d mismatch: got %d want %d", i, got.Data[i], p.Data[i])
		}
	}
}

func TestWriteRejectsEmptyPicture(t *testing.T) {
	if err := Write(filepath.Join(t.TempDir(), "x.bmp"), &pic.Picture{}); err == nil {
		t.Fatal("expected error for empty picture")
	}
}

func TestReadRejectsUnsupportedColorDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bmp")
	hdr := make([]byte, rgbHeaderSize)
	hdr[0], hdr[1] = 'B', 'M'
	hdr[offDataOffset] = byte(rgbHeaderSize)
	hdr[offWidth] = 2
	hdr[offHeight] = 2
	hdr[offBitCount] = 16 // unsupported
	if err := os.WriteFile(path, hdr, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Fatal("expected error for unsupported color depth")
	}
}
