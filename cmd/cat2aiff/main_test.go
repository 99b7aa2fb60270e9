package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/catcodec"
)

func TestRunRequiresPath(t *testing.T) {
	var out bytes.Buffer

	err := run(nil, &out)
	if !errors.Is(err, errMissingPath) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunConvertsEverySample(t *testing.T) {
	dir := t.TempDir()
	catPath := filepath.Join(dir, "sample.cat")

	samples := []*catcodec.Sample{
		{Size: 46, Name: "Click", Filename: "click.wav", NumChans: 1, SampleRate: 11025, BitDepth: 8, Data: []byte{0x80, 0xff}},
		{Size: 48, Name: "Horn", Filename: "horn.wav", NumChans: 1, SampleRate: 44100, BitDepth: 16, Data: []byte{0, 1, 0, 2}},
	}

	w, err := catcodec.CreateWriter(catPath)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := catcodec.WriteCat(w, samples); err != nil {
		t.Fatal(err)
	}

	if err := w.Commit(); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	if err := run([]string{"-path", catPath}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, name := range []string{"click.aif", "horn.aif"} {
		path := filepath.Join(dir, "sample-aiff", name)
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}

		if !strings.Contains(out.String(), path) {
			t.Fatalf("expected %s in output:\n%s", path, out.String())
		}
	}
}

func TestDefaultOutDir(t *testing.T) {
	if got := defaultOutDir("sounds/sample.cat"); got != "sounds/sample-aiff" {
		t.Fatalf("defaultOutDir=%q", got)
	}
}

func TestExpandHome(t *testing.T) {
	got, err := expandHome("sample.cat")
	if err != nil || got != "sample.cat" {
		t.Fatalf("expandHome(sample.cat)=%q, %v", got, err)
	}

	got, err = expandHome("~/sample.cat")
	if err != nil {
		t.Skipf("no current user: %v", err)
	}

	if strings.HasPrefix(got, "~") {
		t.Fatalf("home not expanded: %q", got)
	}
}
