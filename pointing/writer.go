package pointing

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/surveyfoundry/skycoverage/model"
)

// WriteResult serializes a coverage result as an indented JSON document:
// extent, size, flat coverage vector, edge axes, and the reshaped image.
// This is the persisted-array output handed to downstream tooling.
func WriteResult(w io.Writer, res *model.CoverageResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// SaveResult writes a coverage result to a file.
func SaveResult(path string, res *model.CoverageResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := WriteResult(f, res); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// ReadResult decodes a coverage result previously written by WriteResult.
func ReadResult(r io.Reader) (*model.CoverageResult, error) {
	var res model.CoverageResult
	dec := json.NewDecoder(r)
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &res, nil
}
