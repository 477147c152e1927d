// Package encoding provides the structured encoders used to print and read
// tool requests and catalogs in JSON, YAML or TOML.
package encoding

import (
	"github.com/cockroachdb/errors"
	jsonenc "github.com/effective-security/toolagent/encoding/json"
	tomlenc "github.com/effective-security/toolagent/encoding/toml"
	yamlenc "github.com/effective-security/toolagent/encoding/yaml"
)

// Encoder marshals and unmarshals values in one format.
type Encoder interface {
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data, a surrounding code fence is ignored.
	Unmarshal(data []byte, v any) error
	// Validate returns error if v does not satisfy its `validate` tags.
	Validate(v any) error
}

type Mode = string

const (
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
	ModeTOML Mode = "toml"
)

// ErrUnsupportedMode is returned for an unknown encoding mode.
var ErrUnsupportedMode = errors.New("unsupported encoding mode")

// NewEncoder returns the encoder for the mode.
func NewEncoder(mode Mode) (Encoder, error) {
	switch mode {
	case ModeJSON:
		return jsonenc.NewEncoder(), nil
	case ModeYAML:
		return yamlenc.NewEncoder(), nil
	case ModeTOML:
		return tomlenc.NewEncoder(), nil
	}
	return nil, errors.WithMessagef(ErrUnsupportedMode, "%q", mode)
}
