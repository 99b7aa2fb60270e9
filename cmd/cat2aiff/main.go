// This tool converts every sample of a cat file into an aiff file and stores
// them in a folder next to the source.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/cwbudde/catcodec"
)

var errMissingPath = errors.New("you must set the -path flag")

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("cat2aiff", flag.ContinueOnError)

	catPath := flagSet.String("path", "", "The path to the cat file to convert to aiff")
	outDir := flagSet.String("out", "", "The folder to write the aiff files to (default: <path without extension>-aiff)")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *catPath == "" {
		return errMissingPath
	}

	sourcePath, err := expandHome(*catPath)
	if err != nil {
		return err
	}

	dir := *outDir
	if dir == "" {
		dir = defaultOutDir(sourcePath)
	}

	r, err := catcodec.OpenReader(sourcePath)
	if err != nil {
		return err
	}
	defer r.Close()

	a, err := catcodec.ReadCat(r)
	if err != nil {
		return err
	}

	for _, s := range a.Samples {
		outPath, err := catcodec.ExportAIFFFile(dir, s)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s converted to %s\n", s.Name, outPath)
	}

	return nil
}

func defaultOutDir(sourcePath string) string {
	return sourcePath[:len(sourcePath)-len(filepath.Ext(sourcePath))] + "-aiff"
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	usr, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get the user home directory: %w", err)
	}

	return strings.Replace(path, "~", usr.HomeDir, 1), nil
}
