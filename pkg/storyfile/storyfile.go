// Package storyfile is the serialization layer for story graphs.
//
// A [Document] is the canonical JSON (and BSON) format for a graph plus its
// branch records: API payloads, files on disk, and stored documents all use
// it. Enumerated model fields travel as canonical string names and are
// validated on the way back in, so a document can never smuggle an invalid
// state into the model.
package storyfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/storyloom/storyloom/pkg/story"
)

// MarshalGraph converts a story graph to pretty-printed JSON bytes.
func MarshalGraph(g *story.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a story graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *story.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a story graph as JSON to an io.Writer.
func WriteGraph(g *story.Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a JSON file and returns the decoded story graph.
// Returns validation errors for malformed documents or graph constraint
// violations.
func ReadGraphFile(path string) (*story.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON document from an io.Reader into a story graph.
func ReadGraph(r io.Reader) (*story.Graph, error) {
	return readGraphFrom(r)
}

// UnmarshalDocument deserializes JSON bytes to a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// MarshalDocument serializes a Document to pretty-printed JSON bytes.
func MarshalDocument(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func writeGraphTo(g *story.Graph, w io.Writer) error {
	doc := FromGraph(g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*story.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(doc)
}
