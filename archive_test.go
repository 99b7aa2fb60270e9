package catcodec

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestIndexPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"sample.cat", "sample.sfo", nil},
		{"dir/orig.sample.cat", "dir/orig.sample.sfo", nil},
		{"sample.CAT", "", ErrBadExtension},
		{"sample.cats", "", ErrBadExtension},
		{"sample", "", ErrBadExtension},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := IndexPath(tt.in)
			if !errors.Is(err, tt.err) {
				t.Fatalf("err=%v, want %v", err, tt.err)
			}

			if got != tt.want {
				t.Fatalf("IndexPath(%q)=%q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeEncode(t *testing.T) {
	dir := t.TempDir()
	catPath := filepath.Join(dir, "sample.cat")
	sampleDir := filepath.Join(dir, "samples")

	want := []*Sample{
		newTestSample("Explosion", "explosion.wav", 11025, 8, []byte{0x80, 0x90, 0x70}),
		newTestSample("Train whistle", "trains/whistle 1.wav", 22050, 16, []byte{1, 0, 2, 0}),
	}

	w, err := CreateWriter(catPath)
	if err != nil {
		t.Fatal(err)
	}

	if err := WriteCat(w, want); err != nil {
		t.Fatal(err)
	}

	if err := w.Commit(); err != nil {
		t.Fatal(err)
	}

	original, err := os.ReadFile(catPath)
	if err != nil {
		t.Fatal(err)
	}

	var ticks int

	a, err := Decode(catPath, WithBaseDir(sampleDir), WithProgress(func() { ticks++ }))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if ticks != 2*len(want) {
		t.Fatalf("progress called %d times, want %d", ticks, 2*len(want))
	}

	if !reflect.DeepEqual(a.Samples, want) {
		t.Fatalf("decoded samples mismatch")
	}

	for _, s := range want {
		got, err := ReadWAVFile(filepath.Join(sampleDir, s.Filename))
		if err != nil {
			t.Fatalf("extracted %s: %v", s.Filename, err)
		}

		if !reflect.DeepEqual(got.Data, s.Data) {
			t.Fatalf("extracted %s has different data", s.Filename)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "sample.sfo")); err != nil {
		t.Fatalf("expected an index next to the archive: %v", err)
	}

	samples, err := Encode(catPath, WithBaseDir(sampleDir))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if len(samples) != len(want) {
		t.Fatalf("encoded %d samples", len(samples))
	}

	encoded, err := os.ReadFile(catPath)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(encoded, original) {
		t.Fatalf("re-encoded archive differs from the original")
	}

	backup, err := os.ReadFile(catPath + ".bak")
	if err != nil || !reflect.DeepEqual(backup, original) {
		t.Fatalf("expected the previous archive as backup, err=%v", err)
	}
}

func TestEncodeMissingWAVKeepsArchive(t *testing.T) {
	dir := t.TempDir()
	catPath := filepath.Join(dir, "sample.cat")

	if err := os.WriteFile(catPath, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "sample.sfo"), []byte(`"missing.wav" Missing`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Encode(catPath, WithBaseDir(dir))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}

	got, _ := os.ReadFile(catPath)
	if string(got) != "previous" {
		t.Fatalf("archive changed to %q", got)
	}
}

func TestDecodeBadArchiveWritesNoIndex(t *testing.T) {
	dir := t.TempDir()
	catPath := filepath.Join(dir, "sample.cat")

	if err := os.WriteFile(catPath, []byte{16, 0, 0, 0, 54, 0}, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Decode(catPath, WithBaseDir(dir))
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}

	for _, name := range []string{"sample.sfo", "sample.sfo.new"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("%s should not exist, stat err: %v", name, err)
		}
	}
}

func TestDecodeRejectsEscapingFilenames(t *testing.T) {
	tests := []string{"../escape.wav", "/tmp/escape.wav", "sub/../../escape.wav", ""}

	for _, filename := range tests {
		t.Run(filename, func(t *testing.T) {
			dir := t.TempDir()
			catPath := filepath.Join(dir, "sample.cat")
			sampleDir := filepath.Join(dir, "samples")

			w, err := CreateWriter(catPath)
			if err != nil {
				t.Fatal(err)
			}

			samples := []*Sample{
				newTestSample("Fine", "fine.wav", 11025, 8, []byte{1}),
				newTestSample("Escape", filename, 11025, 8, []byte{2}),
			}

			if err := WriteCat(w, samples); err != nil {
				t.Fatal(err)
			}

			if err := w.Commit(); err != nil {
				t.Fatal(err)
			}

			_, err = Decode(catPath, WithBaseDir(sampleDir))
			if !errors.Is(err, ErrIO) {
				t.Fatalf("expected ErrIO, got %v", err)
			}

			for _, path := range []string{
				filepath.Join(dir, "escape.wav"),
				filepath.Join(sampleDir, "fine.wav"),
				filepath.Join(dir, "sample.sfo"),
			} {
				if _, err := os.Stat(path); !os.IsNotExist(err) {
					t.Fatalf("%s should not exist, stat err: %v", path, err)
				}
			}
		})
	}
}
