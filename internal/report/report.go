// Package report records the outcome of one VM run and serializes it as
// YAML or canonical CBOR.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

var ErrFormat = errors.New("unknown report format")

// Report is the outcome of one run.
type Report struct {
	ID         string        `yaml:"id" cbor:"id"`
	Source     string        `yaml:"source" cbor:"source"`
	Entry      int           `yaml:"entry" cbor:"entry"`
	Status     int           `yaml:"status" cbor:"status"`
	StatusName string        `yaml:"status-name" cbor:"status-name"`
	Result     int32         `yaml:"result" cbor:"result"`
	Errors     []string      `yaml:"errors,omitempty" cbor:"errors,omitempty"`
	Steps      int           `yaml:"steps" cbor:"steps"`
	StartedAt  time.Time     `yaml:"started-at" cbor:"started-at"`
	Duration   time.Duration `yaml:"duration" cbor:"duration"`
}

var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano

	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("report: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// New starts a report for source with a fresh run identifier.
func New(source string) *Report {
	return &Report{
		ID:        uuid.New().String(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
}

// Encode serializes the report in the given format.
func (r *Report) Encode(format string) ([]byte, error) {
	switch format {
	case FormatCBOR:
		data, err := cborEncMode.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("report: marshal cbor: %w", err)
		}
		return data, nil

	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("report: marshal yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("report: encoder close: %w", err)
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("%w %q", ErrFormat, format)
}

// Write encodes the report and writes it to path.
func (r *Report) Write(path, format string) error {
	data, err := r.Encode(format)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("report: resolve %s: %w", path, err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", abs, err)
	}
	return nil
}

// Decode reads a report in either format. A CBOR report starts with a map
// header; anything else is read as YAML.
func Decode(data []byte) (*Report, error) {
	var r Report

	if len(data) > 0 && data[0]>>5 == 5 {
		if err := cbor.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("report: unmarshal cbor: %w", err)
		}
		return &r, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("report: unmarshal yaml: %w", err)
	}
	return &r, nil
}
