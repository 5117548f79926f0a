package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	qoi "github.com/clfs/qoicodec"
)

// createTestPNG writes a small 8x8 PNG with a gradient and translucent
// alpha to dir and returns its path.
func createTestPNG(t *testing.T, dir string) (string, *image.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: uint8(255 - y)})
		}
	}

	path := filepath.Join(dir, "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path, img
}

func runCLI(t *testing.T, stdin []byte, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	err = run(args, bytes.NewReader(stdin), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), err
}

func TestEncDec(t *testing.T) {
	dir := t.TempDir()
	pngPath, want := createTestPNG(t, dir)

	if _, _, err := runCLI(t, nil, "enc", pngPath); err != nil {
		t.Fatalf("enc: %v", err)
	}
	qoiPath := filepath.Join(dir, "test.qoi")

	data, err := os.ReadFile(qoiPath)
	if err != nil {
		t.Fatal(err)
	}
	h, pix, err := qoi.DecodePixels(data)
	if err != nil {
		t.Fatal(err)
	}
	if h.Width != 8 || h.Height != 8 || h.Channels != qoi.RGBA || h.ColorSpace != qoi.SRGB {
		t.Errorf("header = %+v, want 8x8 RGBA sRGB", h)
	}
	if diff := cmp.Diff(want.Pix, pix); diff != "" {
		t.Errorf("pixel mismatch (-want +got):\n%s", diff)
	}

	outPath := filepath.Join(dir, "out.png")
	if _, _, err := runCLI(t, nil, "dec", "-o", outPath, qoiPath); err != nil {
		t.Fatalf("dec: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := color.NRGBAModel.Convert(got.At(x, y)).(color.NRGBA)
			if c != want.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, c, want.NRGBAAt(x, y))
			}
		}
	}
}

func TestEncStdout(t *testing.T) {
	dir := t.TempDir()
	pngPath, _ := createTestPNG(t, dir)
	pngData, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, pngData, "enc", "-rgb", "-linear", "-o", "-", "-")
	if err != nil {
		t.Fatalf("enc: %v", err)
	}

	h, _, err := qoi.DecodePixels([]byte(stdout))
	if err != nil {
		t.Fatal(err)
	}
	if h.Channels != qoi.RGB || h.ColorSpace != qoi.Linear {
		t.Errorf("header = %+v, want RGB linear", h)
	}
}

func TestEncVerbose(t *testing.T) {
	dir := t.TempDir()
	pngPath, _ := createTestPNG(t, dir)

	_, stderr, err := runCLI(t, nil, "enc", "-v", "-o", filepath.Join(dir, "v.qoi"), pngPath)
	if err != nil {
		t.Fatalf("enc: %v", err)
	}
	if !strings.Contains(stderr, "qoiconv: encoded") {
		t.Errorf("stderr = %q, want progress log", stderr)
	}
}

func TestInfo(t *testing.T) {
	data, err := qoi.EncodePixels(qoi.Header{Width: 3, Height: 2, Channels: qoi.RGB, ColorSpace: 7}, make([]byte, 18))
	if err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, data, "info", "-")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"3x2", "RGB", "unknown (7)", "18 raw"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("info output missing %q:\n%s", want, stdout)
		}
	}
}

func TestDecInvalid(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "bad.png")

	_, _, err := runCLI(t, []byte("not a qoi file at all!!"), "dec", "-o", outPath, "-")
	if err == nil {
		t.Fatal("dec of invalid data succeeded")
	}
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Errorf("output file exists after failed decode")
	}
}

func TestUsage(t *testing.T) {
	if _, _, err := runCLI(t, nil); err != errUsage {
		t.Errorf("no args: error = %v, want %v", err, errUsage)
	}
	_, stderr, err := runCLI(t, nil, "bogus")
	if err != errUsage {
		t.Errorf("unknown command: error = %v, want %v", err, errUsage)
	}
	if !strings.Contains(stderr, `unknown command "bogus"`) {
		t.Errorf("stderr = %q, want unknown command message", stderr)
	}
	if _, _, err := runCLI(t, nil, "enc"); err == nil {
		t.Error("enc without input succeeded")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		flag, input, ext, want string
	}{
		{"", "dir/a.png", ".qoi", "dir/a.qoi"},
		{"", "-", ".png", "output.png"},
		{"x.qoi", "a.png", ".qoi", "x.qoi"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.flag, tt.input, tt.ext); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.flag, tt.input, tt.ext, got, tt.want)
		}
	}
}
