// Package imaging shrinks raster image uploads before they reach the blob
// store: downscale to fit a bounding box, re-encode, keep only if smaller.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"spisovka/internal/config"
	fm "spisovka/internal/domain/services/filemanager"
)

// maxDecodePixels guards against decompression bombs.
const maxDecodePixels = 100_000_000

// Options control the output of Compress.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   float64 // 0..1
	Format    string  // "jpeg" or "png"
}

// OptionsFromConfig maps service configuration onto compression options.
func OptionsFromConfig(cfg config.ImageConfig) Options {
	return Options{
		MaxWidth:  cfg.MaxWidth,
		MaxHeight: cfg.MaxHeight,
		Quality:   cfg.Quality,
		Format:    cfg.Format,
	}
}

// DefaultOptions returns 1920x1920 JPEG at quality 0.8.
func DefaultOptions() Options {
	return Options{
		MaxWidth:  config.DefaultImageMaxWidth,
		MaxHeight: config.DefaultImageMaxHeight,
		Quality:   config.DefaultImageQuality,
		Format:    config.DefaultImageFormat,
	}
}

// Compressor implements filemanager.Compressor.
type Compressor struct {
	policy *Policy
	opts   Options
	logger *slog.Logger
}

var _ fm.Compressor = (*Compressor)(nil)

// NewCompressor creates a compressor applying opts to files the policy
// admits.
func NewCompressor(policy *Policy, opts Options, logger *slog.Logger) *Compressor {
	return &Compressor{
		policy: policy,
		opts:   opts,
		logger: logger,
	}
}

// ShouldCompress reports whether file is eligible for compression.
func (c *Compressor) ShouldCompress(file *fm.UploadFile) bool {
	return c.policy.ShouldCompress(file.Name, file.ContentType)
}

// Compress returns a smaller re-encoded copy of file, or file itself when it
// is not an eligible image, is below the size threshold, fails to decode or
// encode, or would not shrink. It never fails.
func (c *Compressor) Compress(ctx context.Context, file *fm.UploadFile) *fm.UploadFile {
	if !c.ShouldCompress(file) || file.Size() < c.minSize() {
		return file
	}
	if ctx.Err() != nil {
		return file
	}

	out, err := c.compress(file)
	if err != nil {
		c.logger.Debug("image compression skipped",
			"name", file.Name,
			"error", err,
		)
		return file
	}
	if out.Size() >= file.Size() {
		c.logger.Debug("compressed image not smaller, keeping original",
			"name", file.Name,
			"original", file.Size(),
			"compressed", out.Size(),
		)
		return file
	}

	c.logger.Debug("image compressed",
		"name", file.Name,
		"original", file.Size(),
		"compressed", out.Size(),
	)
	return out
}

func (c *Compressor) compress(file *fm.UploadFile) (*fm.UploadFile, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(file.Data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Width*cfg.Height > maxDecodePixels {
		return nil, fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	bounds := src.Bounds()
	width, height := ScaleDimensions(bounds.Dx(), bounds.Dy(), c.opts.MaxWidth, c.opts.MaxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	var buf bytes.Buffer
	var ext, contentType string
	switch format := strings.ToLower(c.opts.Format); format {
	case "", "jpeg", "jpg":
		// JPEG has no alpha; transparent regions become white
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality(c.opts.Quality)}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		ext, contentType = ".jpg", "image/jpeg"
	case "png":
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		ext, contentType = ".png", "image/png"
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}

	return &fm.UploadFile{
		Name:        replaceExt(file.Name, ext),
		ContentType: contentType,
		Data:        buf.Bytes(),
	}, nil
}

func (c *Compressor) minSize() int {
	if c.policy.MinSize > 0 {
		return c.policy.MinSize
	}
	return config.MinCompressSize
}

// ScaleDimensions fits width x height inside maxWidth x maxHeight keeping
// the aspect ratio. Images already inside the box are returned unchanged;
// a non-positive maximum leaves that axis unbounded.
func ScaleDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	ratio := 1.0
	if maxWidth > 0 && width > maxWidth {
		ratio = math.Min(ratio, float64(maxWidth)/float64(width))
	}
	if maxHeight > 0 && height > maxHeight {
		ratio = math.Min(ratio, float64(maxHeight)/float64(height))
	}
	if ratio == 1.0 {
		return width, height
	}
	w := max(1, int(math.Round(float64(width)*ratio)))
	h := max(1, int(math.Round(float64(height)*ratio)))
	return w, h
}

func jpegQuality(q float64) int {
	if q <= 0 || q > 1 {
		q = config.DefaultImageQuality
	}
	return max(1, int(math.Round(q*100)))
}

func replaceExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
