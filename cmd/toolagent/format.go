package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/encoding"
	"github.com/effective-security/toolagent/toolcall"
	"github.com/effective-security/toolagent/tools"
)

// formatText is the plain text format, for requests it is the wire format.
const formatText = "text"

type requestList struct {
	Requests []toolcall.Request `json:"requests" yaml:"requests" toml:"requests" validate:"dive"`
}

type catalog struct {
	Tools []tools.Descriptor `json:"tools" yaml:"tools" toml:"tools"`
}

// printEncoded writes v to w in the structured format.
func printEncoded(w io.Writer, format string, v any) error {
	enc, err := encoding.NewEncoder(format)
	if err != nil {
		return err
	}
	bs, err := enc.Marshal(v)
	if err != nil {
		return errors.WithMessagef(err, "failed to encode %s", format)
	}
	_, err = fmt.Fprintln(w, string(bs))
	return errors.WithStack(err)
}

// decodeRequests reads the requests in the format from bs,
// the text format is model output in the wire format.
func decodeRequests(format string, bs []byte) ([]toolcall.Request, error) {
	if format == formatText {
		return toolcall.ParseOutput(string(bs)), nil
	}

	enc, err := encoding.NewEncoder(format)
	if err != nil {
		return nil, err
	}
	var list requestList
	if err = enc.Unmarshal(bs, &list); err != nil {
		return nil, err
	}
	if err = enc.Validate(list); err != nil {
		return nil, errors.Wrap(err, "invalid requests")
	}
	return list.Requests, nil
}
