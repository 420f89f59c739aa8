// Package manifest describes the files written by a dataset export.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
)

const (
	// FormatVersion is the current version of the manifest format
	FormatVersion = 1
	// MagicBytes identifies a kaggleset manifest
	MagicBytes = "KGLSET\x00\x00"
	// FileName is the name the manifest is written under
	FileName = "manifest.json"
)

// Header identifies the manifest format
type Header struct {
	Magic   [8]byte `json:"magic"`
	Version uint32  `json:"version"`
}

// AuditTrail records who produced an export and when
type AuditTrail struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// Part describes one exported dataset file
type Part struct {
	Name     string `json:"name"`
	File     string `json:"file"`
	Rows     int    `json:"rows"`
	Training bool   `json:"training"`
}

// Manifest is the JSON sidecar written next to exported split files
type Manifest struct {
	Header      Header        `json:"header"`
	Name        string        `json:"name"`
	Target      string        `json:"target,omitempty"`
	Seed        int64         `json:"seed"`
	Schema      *arrow.Schema `json:"-"` // Serialized separately
	SchemaBytes []byte        `json:"schemaBytes"`
	Parts       []Part        `json:"parts"`
	AuditTrail  AuditTrail    `json:"auditTrail"`
}

// New creates a manifest for the dataset name with the given schema
func New(name string, schema *arrow.Schema, createdBy string) *Manifest {
	header := Header{Version: FormatVersion}
	copy(header.Magic[:], MagicBytes)

	return &Manifest{
		Header: header,
		Name:   name,
		Schema: schema,
		Parts:  []Part{},
		AuditTrail: AuditTrail{
			CreatedAt: time.Now().UTC(),
			CreatedBy: createdBy,
		},
	}
}

// AddPart records an exported file
func (m *Manifest) AddPart(name, file string, rows int, training bool) {
	m.Parts = append(m.Parts, Part{
		Name:     name,
		File:     file,
		Rows:     rows,
		Training: training,
	})
}

// Rows returns the total row count over all parts
func (m *Manifest) Rows() int {
	total := 0
	for _, p := range m.Parts {
		total += p.Rows
	}
	return total
}

// Serialize serializes the manifest to JSON
func (m *Manifest) Serialize() ([]byte, error) {
	if m.Schema != nil {
		var buf bytes.Buffer
		writer := ipc.NewWriter(&buf, ipc.WithSchema(m.Schema))
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("failed to serialize schema: %w", err)
		}
		m.SchemaBytes = buf.Bytes()
	}

	return json.MarshalIndent(m, "", "  ")
}

// Deserialize deserializes a manifest from JSON
func Deserialize(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to deserialize manifest: %w", err)
	}
	if string(m.Header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("not a kaggleset manifest")
	}
	if m.Header.Version > FormatVersion {
		return nil, fmt.Errorf("unsupported manifest version %d", m.Header.Version)
	}

	if len(m.SchemaBytes) > 0 {
		reader, err := ipc.NewReader(bytes.NewReader(m.SchemaBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to create schema reader: %w", err)
		}
		m.Schema = reader.Schema()
		reader.Release()
	}

	return &m, nil
}
