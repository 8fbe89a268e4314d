package graph_asset

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"lukechampine.com/blake3"
)

// Decode reads a YAML (or JSON) graph document and validates it.
// Unknown fields are rejected so a misspelled payload key does not silently vanish.
//
// Parameters:
//   - r: the document source
//
// Returns:
//   - *Graph: the decoded, validated graph
//   - error: a decode error, or an error wrapping ErrMalformedGraph
func Decode(r io.Reader) (*Graph, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var g Graph
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}
	if err := Validate(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Load decodes the graph document at path.
//
// Parameters:
//   - path: the YAML or JSON file
//
// Returns:
//   - *Graph: the decoded, validated graph
//   - error: a read, decode or validation error
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph: %w", err)
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Encode writes g as YAML.
//
// Parameters:
//   - w: the destination
//   - g: the graph to write
//
// Returns:
//   - error: an encode or write error
func Encode(w io.Writer, g *Graph) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	return enc.Close()
}

// Fingerprint returns the hex BLAKE3-256 digest of g's canonical YAML encoding.
// Two graphs with the same fingerprint build identical players.
//
// Parameters:
//   - g: the graph
//
// Returns:
//   - string: 64 hex characters
//   - error: an encode error
func Fingerprint(g *Graph) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		return "", err
	}
	sum := blake3.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}
