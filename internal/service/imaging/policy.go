package imaging

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicy []byte

// Policy decides which uploads are worth re-encoding.
type Policy struct {
	MinSize            int      `yaml:"min_size"`
	ExcludedExtensions []string `yaml:"excluded_extensions"`
	MimeTypes          []string `yaml:"mime_types"`

	excluded map[string]bool
	mimes    map[string]bool
}

// DefaultPolicy returns the embedded policy.
func DefaultPolicy() (*Policy, error) {
	return ParsePolicy(defaultPolicy)
}

// LoadPolicy reads a policy file, or the embedded policy when path is empty.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes a YAML policy.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal compression policy: %w", err)
	}
	if len(p.MimeTypes) == 0 {
		return nil, fmt.Errorf("compression policy lists no mime types")
	}

	p.excluded = make(map[string]bool, len(p.ExcludedExtensions))
	for _, ext := range p.ExcludedExtensions {
		p.excluded[normalizeExt(ext)] = true
	}
	p.mimes = make(map[string]bool, len(p.MimeTypes))
	for _, mt := range p.MimeTypes {
		p.mimes[strings.ToLower(strings.TrimSpace(mt))] = true
	}
	return &p, nil
}

// ShouldCompress reports whether a file is a compressible raster image.
// An excluded extension wins over the declared content type.
func (p *Policy) ShouldCompress(name, contentType string) bool {
	if p.excluded[normalizeExt(filepath.Ext(name))] {
		return false
	}
	mediaType, _, _ := strings.Cut(contentType, ";")
	return p.mimes[strings.ToLower(strings.TrimSpace(mediaType))]
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
