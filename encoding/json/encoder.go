package json

import (
	"encoding/json"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/pkg/llmutils"
	"github.com/go-playground/validator/v10"
)

// Encoder is the JSON encoder, decoding is lenient to the
// number and boolean values that models often return as strings.
type Encoder struct {
	Indent string
}

func NewEncoder() *Encoder {
	return &Encoder{Indent: "\t"}
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	if e.Indent == "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", e.Indent)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.BytesTrimBackticks(bs)
	if err := ljson.Unmarshal(data, ret); err != nil {
		return errors.Wrap(err, "failed to decode JSON")
	}
	return nil
}

func (e *Encoder) Validate(req any) error {
	validate := validator.New()
	return validate.Struct(req)
}
