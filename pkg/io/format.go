package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/pframe/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", perrors.New(perrors.ErrCodeInvalidInput, "unknown format %q (want json or yaml)", s)
}

// FormatFromPath returns the format implied by the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", perrors.New(perrors.ErrCodeInvalidFormat, "cannot infer format of %s: use .json, .yaml or .yml", path)
}

// decode reads a document in format f from r into v.
func decode(r io.Reader, f Format, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if f == FormatYAML {
		if data, err = yamlToJSON(data); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	return nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// encode writes v to w in format f. JSON is indented by two spaces; YAML is
// produced from the JSON encoding so custom JSON forms carry over.
func encode(w io.Writer, f Format, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	switch f {
	case FormatJSON:
		_, err := w.Write(buf.Bytes())
		return err
	case FormatYAML:
		var tree any
		if err := json.Unmarshal(buf.Bytes(), &tree); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		ye := yaml.NewEncoder(w)
		ye.SetIndent(2)
		if err := ye.Encode(tree); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return ye.Close()
	}
	return perrors.New(perrors.ErrCodeUnsupported, "unsupported output format %q", f)
}
