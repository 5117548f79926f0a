// Command qoiconv converts images to and from the QOI format.
//
// Usage:
//
//	qoiconv enc [options] <input>       PNG/JPEG/GIF/BMP/TIFF → QOI (use "-" for stdin)
//	qoiconv dec [options] <input.qoi>   QOI → PNG (use "-" for stdin, -o - for stdout)
//	qoiconv info <input.qoi>            Display the QOI header
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	qoi "github.com/clfs/qoicodec"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if err == errUsage {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "qoiconv: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

// cli carries the standard streams so commands can run in tests.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *log.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c := &cli{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    log.New(io.Discard, "qoiconv: ", 0),
	}

	if len(args) < 1 {
		c.printUsage()
		return errUsage
	}

	switch args[0] {
	case "enc":
		return c.runEnc(args[1:])
	case "dec":
		return c.runDec(args[1:])
	case "info":
		return c.runInfo(args[1:])
	case "-h", "-help", "--help", "help":
		c.printUsage()
		return nil
	default:
		fmt.Fprintf(stderr, "qoiconv: unknown command %q\n\n", args[0])
		c.printUsage()
		return errUsage
	}
}

func (c *cli) printUsage() {
	fmt.Fprintf(c.stderr, `Usage:
  qoiconv enc [options] <input>       Encode PNG/JPEG/GIF/BMP/TIFF to QOI
  qoiconv dec [options] <input.qoi>   Decode QOI to PNG
  qoiconv info <input.qoi>            Display the QOI header

Use "-" as input to read from stdin, "-o -" to write to stdout.

Run "qoiconv <command> -h" for command-specific options.
`)
}

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// readInput returns the contents of path, or of stdin if path is "-".
func (c *cli) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes data to path, or to stdout if path is "-". A partially
// written file is removed.
func (c *cli) writeOutput(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(c.stdout)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// outputPath derives an output path from the input path and a new extension.
func outputPath(flagValue, inputPath, ext string) string {
	if flagValue != "" {
		return flagValue
	}
	if inputPath == "-" {
		return "output" + ext
	}
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ext
}

// --- enc ---

func (c *cli) runEnc(args []string) error {
	fs := c.flagSet("enc")
	rgb := fs.Bool("rgb", false, "write three channels, dropping alpha")
	linear := fs.Bool("linear", false, "mark all channels as linear instead of sRGB")
	verbose := fs.Bool("v", false, "log progress to stderr")
	output := fs.String("o", "", `output path (default: <input>.qoi, "-" for stdout)`)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("enc: missing input file\nUsage: qoiconv enc [options] <input>")
	}
	c.setVerbose(*verbose)
	inputPath := fs.Arg(0)

	data, err := c.readInput(inputPath)
	if err != nil {
		return err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("enc: decoding input: %w", err)
	}
	c.log.Printf("read %s image %v from %s", format, img.Bounds(), inputPath)

	enc := qoi.Encoder{Channels: qoi.RGBA}
	if *rgb {
		enc.Channels = qoi.RGB
	}
	if *linear {
		enc.ColorSpace = qoi.Linear
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return fmt.Errorf("enc: %w", err)
	}

	outPath := outputPath(*output, inputPath, ".qoi")
	if err := c.writeOutput(outPath, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	}); err != nil {
		return fmt.Errorf("enc: %w", err)
	}

	c.log.Printf("encoded %s → %s (%d bytes)", inputPath, outPath, buf.Len())
	return nil
}

// --- dec ---

func (c *cli) runDec(args []string) error {
	fs := c.flagSet("dec")
	verbose := fs.Bool("v", false, "log progress to stderr")
	output := fs.String("o", "", `output path (default: <input>.png, "-" for stdout)`)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("dec: missing input file\nUsage: qoiconv dec [options] <input.qoi>")
	}
	c.setVerbose(*verbose)
	inputPath := fs.Arg(0)

	data, err := c.readInput(inputPath)
	if err != nil {
		return err
	}

	img, err := qoi.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	outPath := outputPath(*output, inputPath, ".png")
	if err := c.writeOutput(outPath, func(w io.Writer) error {
		return png.Encode(w, img)
	}); err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	c.log.Printf("decoded %s → %s (%v)", inputPath, outPath, img.Bounds())
	return nil
}

// --- info ---

func (c *cli) runInfo(args []string) error {
	fs := c.flagSet("info")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("info: missing input file\nUsage: qoiconv info <input.qoi>")
	}
	inputPath := fs.Arg(0)

	data, err := c.readInput(inputPath)
	if err != nil {
		return err
	}

	h, pix, err := qoi.DecodePixels(data)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	colorSpace := "sRGB"
	if h.ColorSpace == qoi.Linear {
		colorSpace = "linear"
	} else if h.ColorSpace != qoi.SRGB {
		colorSpace = fmt.Sprintf("unknown (%d)", h.ColorSpace)
	}

	fmt.Fprintf(c.stdout, "File:        %s\n", inputPath)
	fmt.Fprintf(c.stdout, "Size:        %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(c.stdout, "Channels:    %s\n", h.Channels)
	fmt.Fprintf(c.stdout, "Color space: %s\n", colorSpace)
	fmt.Fprintf(c.stdout, "File size:   %d bytes (%d raw)\n", len(data), len(pix))
	return nil
}

func (c *cli) setVerbose(v bool) {
	if v {
		c.log.SetOutput(c.stderr)
	}
}
