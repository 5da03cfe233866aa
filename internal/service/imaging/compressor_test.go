package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fm "spisovka/internal/domain/services/filemanager"
)

func testCompressor(t *testing.T, policy *Policy) *Compressor {
	t.Helper()
	if policy == nil {
		var err error
		policy, err = DefaultPolicy()
		require.NoError(t, err)
	}
	return NewCompressor(policy, DefaultOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// noisyPNG encodes a gradient with mild noise so it neither compresses to
// nothing as PNG nor blows up as JPEG.
func noisyPNG(t *testing.T, width, height int, alpha uint8) []byte {
	t.Helper()
	rng := rand.New(rand.NewPCG(1, 2))
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := uint8(rng.IntN(24))
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x*255/width) + n,
				G: uint8(y*255/height) + n,
				B: 128 + n,
				A: alpha,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPolicy_ShouldCompress(t *testing.T) {
	policy, err := DefaultPolicy()
	require.NoError(t, err)

	tests := []struct {
		name        string
		file        string
		contentType string
		want        bool
	}{
		{"jpeg photo", "photo.jpg", "image/jpeg", true},
		{"upper case extension", "IMG_0001.JPG", "image/jpeg", true},
		{"png", "okno.png", "image/png", true},
		{"webp", "dvere.webp", "image/webp", true},
		{"gif", "anim.gif", "image/gif", true},
		{"bmp", "scan.bmp", "image/bmp", true},
		{"non-standard jpg type", "a.jpg", "image/jpg", true},
		{"content type parameters", "a.png", "image/png; charset=binary", true},
		{"pdf posing as jpeg", "nakres.pdf", "image/jpeg", false},
		{"cad drawing", "rez.dwg", "image/jpeg", false},
		{"tiff", "sken.tiff", "image/tiff", false},
		{"tiff declared as png", "sken.tiff", "image/png", false},
		{"raw photo", "DSC_1.nef", "image/jpeg", false},
		{"svg", "logo.svg", "image/svg+xml", false},
		{"unknown image type", "a.heic", "image/heic", false},
		{"no extension, jpeg", "blob", "image/jpeg", true},
		{"empty content type", "photo.jpg", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.ShouldCompress(tt.file, tt.contentType))
		})
	}
}

func TestScaleDimensions(t *testing.T) {
	tests := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"landscape", 3000, 2000, 1920, 1920, 1920, 1280},
		{"portrait", 2000, 3000, 1920, 1920, 1280, 1920},
		{"square", 4000, 4000, 1920, 1920, 1920, 1920},
		{"already small", 800, 600, 1920, 1920, 800, 600},
		{"exactly at limit", 1920, 1080, 1920, 1920, 1920, 1080},
		{"height bound", 1000, 5000, 1920, 1920, 384, 1920},
		{"unbounded height", 3000, 2000, 1500, 0, 1500, 1000},
		{"extreme strip", 100000, 10, 1920, 1920, 1920, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ScaleDimensions(tt.w, tt.h, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestCompress_SmallFileIsReturnedAsIs(t *testing.T) {
	c := testCompressor(t, nil)
	file := &fm.UploadFile{Name: "small.jpg", ContentType: "image/jpeg", Data: make([]byte, 50<<10)}
	assert.Same(t, file, c.Compress(context.Background(), file))
}

// A heavily quantised noise JPEG grows when re-encoded at the default
// quality, so the upload keeps the original bytes.
func TestCompress_NotSmallerKeepsOriginal(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	img := image.NewRGBA(image.Rect(0, 0, 1500, 1500))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.IntN(256))
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 5}))
	require.Greater(t, buf.Len(), 100<<10)

	c := testCompressor(t, nil)
	file := &fm.UploadFile{Name: "sum.jpg", ContentType: "image/jpeg", Data: buf.Bytes()}
	out := c.Compress(context.Background(), file)

	assert.Same(t, file, out)
	assert.Equal(t, "sum.jpg", out.Name)
}

func TestCompress_ExcludedFileIsReturnedAsIs(t *testing.T) {
	c := testCompressor(t, nil)
	file := &fm.UploadFile{Name: "vykres.pdf", ContentType: "image/jpeg", Data: make([]byte, 500<<10)}
	assert.Same(t, file, c.Compress(context.Background(), file))
}

func TestCompress_CorruptImageFallsBack(t *testing.T) {
	c := testCompressor(t, nil)
	data := bytes.Repeat([]byte("not a jpeg"), 20<<10)
	file := &fm.UploadFile{Name: "broken.jpg", ContentType: "image/jpeg", Data: data}
	assert.Same(t, file, c.Compress(context.Background(), file))
}

func TestCompress_CancelledContextFallsBack(t *testing.T) {
	c := testCompressor(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	file := &fm.UploadFile{Name: "photo.png", ContentType: "image/png", Data: noisyPNG(t, 400, 400, 255)}
	assert.Same(t, file, c.Compress(ctx, file))
}

func TestCompress_DownscalesLargeImage(t *testing.T) {
	c := testCompressor(t, nil)
	data := noisyPNG(t, 3000, 2000, 255)
	require.Greater(t, len(data), 100<<10)

	file := &fm.UploadFile{Name: "fasada.png", ContentType: "image/png", Data: data}
	out := c.Compress(context.Background(), file)

	require.NotSame(t, file, out)
	assert.Equal(t, "fasada.jpg", out.Name)
	assert.Equal(t, "image/jpeg", out.ContentType)
	assert.Less(t, out.Size(), file.Size())

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 1280, cfg.Height)
}

func TestCompress_TransparentPixelsBecomeWhite(t *testing.T) {
	policy, err := ParsePolicy([]byte("min_size: 1\nmime_types: [image/png]\n"))
	require.NoError(t, err)
	c := testCompressor(t, policy)

	file := &fm.UploadFile{Name: "logo.png", ContentType: "image/png", Data: noisyPNG(t, 300, 200, 0)}
	out := c.Compress(context.Background(), file)
	require.NotSame(t, file, out)

	img, err := jpeg.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	r, g, b, _ := img.At(150, 100).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestLoadPolicy(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, 100<<10, p.MinSize)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("excluded_extensions: [png]\nmime_types: [image/png, image/jpeg]\n"), 0o600))

	p, err = LoadPolicy(path)
	require.NoError(t, err)
	assert.False(t, p.ShouldCompress("a.png", "image/png"))
	assert.True(t, p.ShouldCompress("a.jpg", "image/jpeg"))

	_, err = ParsePolicy([]byte("excluded_extensions: [png]\n"))
	assert.Error(t, err, "a policy without mime types is rejected")

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
