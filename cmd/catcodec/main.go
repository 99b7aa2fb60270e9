// catcodec decodes the OpenTTD sample catalogue into WAV files plus an sfo
// index, and encodes such a directory back into a cat file.
//
// Usage:
//
//	catcodec -d <sample file>   decode sample.cat into sample.sfo and WAV files
//	catcodec -e <sample file>   encode sample.sfo and its WAV files into sample.cat
//	catcodec list <sample file> list the entries of a cat file
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cwbudde/catcodec"
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatalf("An error occurred: %v", err)
	}
}

func run(args []string, out io.Writer) error {
	cmd := newRootCmd(out)
	// cobra falls back to os.Args when given nil
	cmd.SetArgs(append([]string{}, args...))

	return cmd.Execute()
}

type rootFlags struct {
	config    string
	decode    string
	encode    string
	sampleDir string
	progress  string
}

func newRootCmd(out io.Writer) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "catcodec",
		Short: "Decode and encode the OpenTTD sample catalogue",
		Long: `catcodec converts between a sample catalogue (.cat) and a directory
of WAV files described by a plain-text index (.sfo).

<sample file> denotes the .cat file you want to work on, e.g. sample.cat.
The .sfo index is always the same path with a .sfo extension.`,
		Example: `  catcodec -d sample.cat
  catcodec -e sample.cat`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (flags.decode == "") == (flags.encode == "") {
				return cmd.Help()
			}

			cfg, err := flags.settings(cmd)
			if err != nil {
				return err
			}

			if flags.decode != "" {
				return decode(out, cfg, flags.decode)
			}

			return encode(out, cfg, flags.encode)
		},
	}

	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default ./"+defaultConfigFile+" if present)")
	cmd.PersistentFlags().StringVar(&flags.sampleDir, "sample-dir", "", "directory the WAV files are extracted to and read from")
	cmd.PersistentFlags().StringVar(&flags.progress, "progress", "", "show progress: auto, always or never")
	cmd.Flags().StringVarP(&flags.decode, "decode", "d", "", "decode all samples in the sample file and put them in the sample dir")
	cmd.Flags().StringVarP(&flags.encode, "encode", "e", "", "encode all samples in the sample dir and put them in the sample file")

	cmd.AddCommand(newListCmd(out))

	return cmd
}

// settings merges the config file, environment and flags, in that order.
func (f *rootFlags) settings(cmd *cobra.Command) (*Config, error) {
	cfg, err := loadConfig(f.config)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("sample-dir") {
		cfg.SampleDir = f.sampleDir
	}

	if cmd.Flags().Changed("progress") {
		cfg.Progress = f.progress
	}

	return cfg, cfg.validate()
}

// interactive reports whether progress should be shown on out.
func (c *Config) interactive(out io.Writer) bool {
	switch c.Progress {
	case progressAlways:
		return true
	case progressNever:
		return false
	}

	f, ok := out.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (c *Config) options(out io.Writer) []catcodec.Option {
	opts := []catcodec.Option{catcodec.WithBaseDir(c.SampleDir)}

	if c.interactive(out) {
		opts = append(opts, catcodec.WithProgress(func() {
			fmt.Fprint(out, ".")
		}))
	}

	return opts
}

func decode(out io.Writer, cfg *Config, catPath string) error {
	sfoPath, err := catcodec.IndexPath(catPath)
	if err != nil {
		return err
	}

	interactive := cfg.interactive(out)
	if interactive {
		fmt.Fprintf(out, "Reading %s\nWriting %s\n", catPath, sfoPath)
	}

	if _, err := catcodec.Decode(catPath, cfg.options(out)...); err != nil {
		return err
	}

	if interactive {
		fmt.Fprintln(out, "\nDone")
	}

	return nil
}

func encode(out io.Writer, cfg *Config, catPath string) error {
	sfoPath, err := catcodec.IndexPath(catPath)
	if err != nil {
		return err
	}

	interactive := cfg.interactive(out)
	if interactive {
		fmt.Fprintf(out, "Reading %s\nWriting %s\n", sfoPath, catPath)
	}

	if _, err := catcodec.Encode(catPath, cfg.options(out)...); err != nil {
		return err
	}

	if interactive {
		fmt.Fprintln(out, "\nDone")
	}

	return nil
}
