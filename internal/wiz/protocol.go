// Package wiz speaks the WiZ local UDP protocol: JSON requests on port
// 38899, one datagram per request.
package wiz

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/scheerer/wiz-lights/internal/lights"
)

const (
	MethodGetPilot = "getPilot"
	MethodSetPilot = "setPilot"
)

type request struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

type pilotParams struct {
	Red        uint8 `json:"r"`
	Green      uint8 `json:"g"`
	Blue       uint8 `json:"b"`
	Transition int   `json:"transition"`
	Dimming    int   `json:"dimming"`
}

var queryPayload = mustMarshal(request{Method: MethodGetPilot, Params: struct{}{}})

// EncodeQuery returns the getPilot probe.
func EncodeQuery() []byte {
	return bytes.Clone(queryPayload)
}

// EncodeCommand returns a setPilot request for cmd.
func EncodeCommand(cmd lights.Command) []byte {
	cmd = cmd.Clamped()
	return mustMarshal(request{
		Method: MethodSetPilot,
		Params: pilotParams{
			Red:        cmd.Color.Red,
			Green:      cmd.Color.Green,
			Blue:       cmd.Color.Blue,
			Transition: cmd.Transition,
			Dimming:    cmd.Brightness,
		},
	})
}

// DecodeResponse parses a reply leniently. Anything before the first '{' is
// skipped and a reply that does not parse comes back as a raw payload. The
// bool is false only when the datagram carries nothing.
func DecodeResponse(data []byte) (lights.Payload, bool) {
	text := strings.ToValidUTF8(string(data), "")
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	body := text
	if idx := strings.IndexByte(text, '{'); idx >= 0 {
		body = text[idx:]
	}

	var payload lights.Payload
	if err := json.Unmarshal([]byte(body), &payload); err != nil || payload == nil {
		return lights.RawPayload(text), true
	}
	if len(payload) == 0 {
		return nil, false
	}
	return payload, true
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
