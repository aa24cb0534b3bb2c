package static

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"v5c-properties/internal/catalog/domain/model"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var bundled []byte

// Load returns the static content from path, or the bundled copy when path
// is empty.
func Load(path string) (*model.StaticContent, error) {
	if path == "" {
		return Parse(bundled)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read static content: %w", err)
	}
	return Parse(data)
}

// Parse decodes a content document. Unknown keys are rejected so typos in an
// override file surface at startup.
func Parse(data []byte) (*model.StaticContent, error) {
	content := &model.StaticContent{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(content); err != nil {
		return nil, fmt.Errorf("decode static content: %w", err)
	}

	for _, p := range content.Properties {
		p.Normalize()
	}
	for _, w := range content.WhyDubai {
		w.Normalize()
	}
	return content, nil
}

// Bundled returns the embedded content. It panics if the bundle is malformed,
// which the package tests rule out.
func Bundled() *model.StaticContent {
	content, err := Parse(bundled)
	if err != nil {
		panic(err)
	}
	return content
}
