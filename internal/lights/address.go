package lights

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
)

// DefaultPort is the WiZ local control port.
const DefaultPort uint16 = 38899

var ErrInvalidAddress = errors.New("invalid address")

// Address is an IPv4 host plus the service port it is reached on. The text
// form is the bare host, which is how the device cache keys entries.
type Address struct {
	Host netip.Addr
	Port uint16
}

func ParseAddress(s string) (Address, error) {
	host, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !host.Is4() {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return Address{Host: host, Port: DefaultPort}, nil
}

func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) IsValid() bool {
	return a.Host.Is4()
}

func (a Address) String() string {
	return a.Host.String()
}

func (a Address) AddrPort() netip.AddrPort {
	port := a.Port
	if port == 0 {
		port = DefaultPort
	}
	return netip.AddrPortFrom(a.Host, port)
}

func (a Address) UDPAddr() *net.UDPAddr {
	return net.UDPAddrFromAddrPort(a.AddrPort())
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// AddressRange is an inclusive host range within one /24 prefix such as
// "192.168.1".
type AddressRange struct {
	Prefix string
	Start  int
	End    int
}

func (r AddressRange) Validate() error {
	octets := strings.Split(strings.TrimSuffix(r.Prefix, "."), ".")
	if len(octets) != 3 {
		return fmt.Errorf("%w: prefix %q must have three octets", ErrInvalidAddress, r.Prefix)
	}
	for _, o := range octets {
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 || n > 255 {
			return fmt.Errorf("%w: prefix %q has a bad octet %q", ErrInvalidAddress, r.Prefix, o)
		}
	}
	if r.Start < 0 || r.End > 255 || r.Start > r.End {
		return fmt.Errorf("%w: host range %d-%d", ErrInvalidAddress, r.Start, r.End)
	}
	return nil
}

func (r AddressRange) String() string {
	return fmt.Sprintf("%s.%d-%d", strings.TrimSuffix(r.Prefix, "."), r.Start, r.End)
}

// Addresses expands the range in ascending order.
func (r AddressRange) Addresses(port uint16) ([]Address, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	prefix := strings.TrimSuffix(r.Prefix, ".")
	out := make([]Address, 0, r.End-r.Start+1)
	for i := r.Start; i <= r.End; i++ {
		a, err := ParseAddress(fmt.Sprintf("%s.%d", prefix, i))
		if err != nil {
			return nil, err
		}
		if port != 0 {
			a.Port = port
		}
		out = append(out, a)
	}
	return out, nil
}
