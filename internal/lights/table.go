package lights

import (
	"fmt"
	"slices"
)

// RawKey marks a payload that could not be parsed. The value is the
// datagram as text.
const RawKey = "_raw"

// Payload is the decoded getPilot reply of a device.
type Payload map[string]any

func RawPayload(text string) Payload {
	return Payload{RawKey: text}
}

func (p Payload) IsRaw() bool {
	_, ok := p[RawKey]
	return ok && len(p) == 1
}

func (p Payload) Raw() string {
	s, _ := p[RawKey].(string)
	return s
}

// Name finds a human readable device name, or "".
func (p Payload) Name() string {
	if res, ok := p["result"].(map[string]any); ok {
		return firstString(res, "deviceName", "moduleName", "name", "alias")
	}
	return firstString(p, "deviceName", "moduleName")
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// DeviceRecord pairs a responsive address with its discovery payload.
type DeviceRecord struct {
	Address Address
	Payload Payload
}

func (r DeviceRecord) String() string {
	if name := r.Payload.Name(); name != "" {
		return fmt.Sprintf("%s - %s", r.Address, name)
	}
	return r.Address.String()
}

// DeviceTable holds only addresses that answered a probe.
type DeviceTable map[Address]Payload

func (t DeviceTable) Addresses() []Address {
	out := make([]Address, 0, len(t))
	for a := range t {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b Address) int {
		return a.Host.Compare(b.Host)
	})
	return out
}

func (t DeviceTable) Records() []DeviceRecord {
	addrs := t.Addresses()
	out := make([]DeviceRecord, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, DeviceRecord{Address: a, Payload: t[a]})
	}
	return out
}

func (t DeviceTable) Has(a Address) bool {
	_, ok := t[a]
	return ok
}

// Selection is an ordered set of addresses currently under control.
type Selection []Address

// NewSelection keeps the first occurrence of each address.
func NewSelection(addrs ...Address) Selection {
	seen := make(map[Address]struct{}, len(addrs))
	out := make(Selection, 0, len(addrs))
	for _, a := range addrs {
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Intersect keeps the addresses still present in t, preserving order.
func (s Selection) Intersect(t DeviceTable) Selection {
	out := make(Selection, 0, len(s))
	for _, a := range s {
		if t.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s Selection) Clone() Selection {
	return slices.Clone(s)
}

func (s Selection) Empty() bool {
	return len(s) == 0
}
