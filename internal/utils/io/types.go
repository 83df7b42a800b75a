// Package io provides structured output handling for the CLI: format
// negotiation, a buffered multi-format Writer, and an error envelope that
// renders command failures the same way as the data they failed to produce.
package io

import "io"

// Format represents an output format type.
type Format string

const (
	// FormatJSON outputs as pretty-printed JSON.
	FormatJSON Format = "json"
	// FormatYAML outputs as YAML.
	FormatYAML Format = "yaml"
	// FormatNDJSON outputs as newline-delimited JSON (JSON Lines).
	FormatNDJSON Format = "ndjson"
	// FormatTable outputs as human-readable table (default).
	FormatTable Format = "table"
	// FormatRaw outputs data as-is without marshaling.
	FormatRaw Format = "raw"
	// FormatAuto is accepted by ParseFormat; Writer renders it as JSON.
	FormatAuto Format = "auto"
)

// ParseFormat parses a string into a Format type.
func ParseFormat(s string) Format {
	switch s {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	case "ndjson", "jsonl", "jsonlines":
		return FormatNDJSON
	case "table", "":
		return FormatTable
	case "raw":
		return FormatRaw
	case "auto":
		return FormatAuto
	default:
		return FormatTable
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsStructured returns true if the format is a structured data format (JSON/YAML/NDJSON).
func (f Format) IsStructured() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatNDJSON:
		return true
	default:
		return false
	}
}

// IOConfig holds output configuration for a command.
type IOConfig struct {
	OutputFormat Format    // Format for output data (table, json, yaml, ndjson, raw)
	OutputFile   string    // File to write to (empty = stdout)
	OutputWriter io.Writer // Underlying writer (set by the command)
	Pretty       bool      // Pretty-print JSON/YAML output
}

// NewIOConfig creates a new IOConfig with defaults.
func NewIOConfig() *IOConfig {
	return &IOConfig{
		OutputFormat: FormatTable,
		Pretty:       true,
	}
}
