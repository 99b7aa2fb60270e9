package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cwbudde/catcodec"
)

func newListCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list <sample file>",
		Short: "List the entries of a sample file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return list(out, args[0])
		},
	}
}

func list(out io.Writer, catPath string) error {
	r, err := catcodec.OpenReader(catPath)
	if err != nil {
		return err
	}
	defer r.Close()

	a, err := catcodec.ReadCat(r)
	if err != nil {
		return err
	}

	format := "new"
	if !a.NewFormat {
		format = "old"
	}

	var total uint64
	for _, s := range a.Samples {
		total += uint64(s.Footprint())
	}

	fmt.Fprintf(out, "%s: %d entries, %s format, %s\n", catPath, len(a.Samples), format, humanize.Bytes(total))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tOFFSET\tSIZE\tRATE\tBITS\tDURATION\tFILENAME\tNAME")

	for i, s := range a.Samples {
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%d\t%s\t%s\t%s\n",
			i, s.Offset, humanize.Bytes(uint64(s.Size)), s.SampleRate, s.BitDepth,
			s.Duration().Round(time.Millisecond), s.Filename, s.Name)
	}

	return w.Flush()
}
