package frd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSequenceReader(t *testing.T) {
	r := &SequenceReader{Prefix: "img", Digits: 4, Suffix: ".bmp"}
	name, err := r.Next(7)
	if err != nil {
		t.Fatal(err)
	}
	if name != "img0007.bmp" {
		t.Fatalf("got %q, want img0007.bmp", name)
	}
}

func TestConstantReader(t *testing.T) {
	r := &ConstantReader{Name: "fixed.bmp"}
	for _, tick := range []uint64{0, 1, 99} {
		name, err := r.Next(tick)
		if err != nil {
			t.Fatal(err)
		}
		if name != "fixed.bmp" {
			t.Fatalf("got %q, want fixed.bmp", name)
		}
	}
}

func TestFilelistReaderAdvances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(path, []byte("a.bmp\nb.bmp\n\nc.bmp\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	r, err := NewFilelistReader(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.bmp", "b.bmp", "c.bmp"}
	for _, w := range want {
		got, err := r.Next(0)
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Fatalf("got %q, want %q", got, w)
		}
	}
	if _, err := r.Next(0); err == nil {
		t.Fatal("expected error once the list is exhausted")
	}
}

func TestLoadSequenceConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frd.cfg")
	content := "READER_TYPE = FRD_SEQUENCE_READER\n" +
		"FILENAME_PREFIX = frame\n" +
		"FILENAME_SEQ_NR_DIGITS = 3\n" +
		"FILENAME_SUFFIX = .bmp\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	name, err := r.Next(2)
	if err != nil {
		t.Fatal(err)
	}
	if name != "frame002.bmp" {
		t.Fatalf("got %q, want frame002.bmp", name)
	}
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frd.cfg")
	if err := os.WriteFile(path, []byte("READER_TYPE = BOGUS\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown reader kind")
	}
}
