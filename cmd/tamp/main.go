// Command tamp compresses and decompresses files using the tamp codec.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tamp-go/tamp"
)

// Grounded on moby-moby's cmd/dockerd entry point for the overall shape
// (flags parsed once, logrus configured from a verbosity flag, errors
// wrapped with github.com/pkg/errors before being logged at the top
// level) and on thebagchi-asn1c-go's cmd/asn1c for a single-binary,
// subcommand-per-operation CLI reading one input file and writing one
// output file. cobra/pflag stand in for moby's raw pflag.FlagSet since
// this CLI has two genuinely distinct subcommands rather than one flat
// flag set.
var (
	windowBits  int
	literalBits int
	lazy        bool
	flush       bool
	verbose     bool
)

func main() {
	root := &cobra.Command{
		Use:   "tamp",
		Short: "compress and decompress files with the tamp codec",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	compressCmd := &cobra.Command{
		Use:   "compress <input> <output>",
		Short: "compress a file",
		Args:  cobra.ExactArgs(2),
		RunE:  runCompress,
	}
	compressCmd.Flags().IntVarP(&windowBits, "window", "w", 10, "window size as a power of two (8-15)")
	compressCmd.Flags().IntVarP(&literalBits, "literal", "l", 8, "bits per literal byte (5-8)")
	compressCmd.Flags().BoolVar(&lazy, "lazy", false, "enable lazy matching")
	compressCmd.Flags().BoolVar(&flush, "flush", true, "ignored: a trailing FLUSH marker is written when --literal is 8 and never otherwise")

	decompressCmd := &cobra.Command{
		Use:   "decompress <input> <output>",
		Short: "decompress a file",
		Args:  cobra.ExactArgs(2),
		RunE:  runDecompress,
	}

	root.AddCommand(compressCmd, decompressCmd)

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if err := root.Execute(); err != nil {
		logrus.WithError(err).Error("tamp failed")
		os.Exit(1)
	}
}

func runCompress(cmd *cobra.Command, args []string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	in, out := args[0], args[1]

	src, err := os.Open(in)
	if err != nil {
		return errors.Wrapf(err, "opening %s", in)
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "creating %s", out)
	}

	cfg := tamp.Config{
		WindowBits:  windowBits,
		LiteralBits: literalBits,
		LazyMatching: lazy,
		OnPoll: func(p tamp.Progress) tamp.PollAction {
			logrus.WithFields(logrus.Fields{
				"bytes_in":  p.BytesIn,
				"bytes_out": p.BytesOut,
			}).Debug("compress progress")
			return tamp.PollContinue
		},
	}

	stream := tamp.NewBorrowedStream(src, dst)
	bytesIn, bytesOut, cerr := stream.Compress(cfg)
	if cerr != nil {
		dst.Close()
		return errors.Wrap(cerr, "compressing")
	}
	if err := dst.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", out)
	}

	logrus.WithFields(logrus.Fields{
		"bytes_in":  bytesIn,
		"bytes_out": bytesOut,
	}).Info("compress complete")
	fmt.Printf("%s: %d -> %d bytes\n", in, bytesIn, bytesOut)
	return nil
}

func runDecompress(cmd *cobra.Command, args []string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	in, out := args[0], args[1]

	src, err := os.Open(in)
	if err != nil {
		return errors.Wrapf(err, "opening %s", in)
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "creating %s", out)
	}

	stream := tamp.NewBorrowedStream(src, dst)
	bytesIn, bytesOut, derr := stream.Decompress()
	if derr != nil {
		dst.Close()

		var oob *tamp.OutOfBoundsError
		if errors.As(derr, &oob) {
			return errors.Wrapf(derr, "corrupted stream: match_index=%d length=%d", oob.MatchIndex, oob.Length)
		}
		return errors.Wrap(derr, "decompressing")
	}
	if err := dst.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", out)
	}

	logrus.WithFields(logrus.Fields{
		"bytes_in":  bytesIn,
		"bytes_out": bytesOut,
	}).Info("decompress complete")
	fmt.Printf("%s: %d -> %d bytes\n", in, bytesIn, bytesOut)
	return nil
}
