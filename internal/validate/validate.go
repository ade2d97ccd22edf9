// Package validate is the validation kernel (§4.7): pure, side-effect
// free checks applied at every input boundary before a request reaches
// the orchestrator, the interface façade, or a subprocess adapter.
//
// Grounded on the teacher's daemon/libnetwork/internal/netiputil CIDR
// helpers and daemon/libnetwork/netutils name-generation conventions,
// generalized to the full boundary-check surface spec §4.7 names.
package validate

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/netguard/netguardd/internal/errdefs"
)

func invalid(format string, args ...any) error {
	return errdefs.InvalidParameter(&invalidParameterError{msg: fmt.Sprintf(format, args...)})
}

type invalidParameterError struct{ msg string }

func (e *invalidParameterError) Error() string { return e.msg }

// InterfaceID checks a kernel interface name: 1..=15 bytes, ASCII
// alnum/-/_, not starting with '-'.
func InterfaceID(name string) error {
	if len(name) < 1 || len(name) > 15 {
		return invalid("interface name %q must be 1..15 bytes", name)
	}
	if name[0] == '-' {
		return invalid("interface name %q must not start with '-'", name)
	}
	for _, b := range []byte(name) {
		if !isAlnum(b) && b != '-' && b != '_' {
			return invalid("interface name %q contains an invalid character", name)
		}
	}
	return nil
}

// IP checks that s parses as a valid IPv4 or IPv6 address.
func IP(s string) error {
	if _, err := netip.ParseAddr(s); err != nil {
		return invalid("%q is not a valid IP address", s)
	}
	return nil
}

// CIDR checks that s is of the form ip/prefix with a prefix length
// valid for the address family (<=32 v4, <=128 v6).
func CIDR(s string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, invalid("%q is not a valid CIDR", s)
	}
	max := 32
	if p.Addr().Is6() && !p.Addr().Is4In6() {
		max = 128
	}
	if p.Bits() < 0 || p.Bits() > max {
		return netip.Prefix{}, invalid("%q has an invalid prefix length", s)
	}
	return p, nil
}

// MAC checks the canonical 17-char colon-separated hex form.
func MAC(s string) error {
	if len(s) != 17 {
		return invalid("%q is not a valid MAC address", s)
	}
	if _, err := net.ParseMAC(s); err != nil {
		return invalid("%q is not a valid MAC address", s)
	}
	groups := strings.Split(s, ":")
	if len(groups) != 6 {
		return invalid("%q is not six colon-separated groups", s)
	}
	return nil
}

// MTU checks 68 <= mtu <= 9000.
func MTU(mtu int) error {
	if mtu < 68 || mtu > 9000 {
		return invalid("mtu %d out of range 68..9000", mtu)
	}
	return nil
}

// SSID checks 1..=32 bytes, no control characters.
func SSID(s string) error {
	if len(s) < 1 || len(s) > 32 {
		return invalid("ssid must be 1..32 bytes")
	}
	if hasControl(s) {
		return invalid("ssid must not contain control characters")
	}
	return nil
}

// WiFiPassword checks a WPA/WPA2 pre-shared key: 8..=63 ASCII bytes, no
// control characters.
func WiFiPassword(s string) error {
	if len(s) < 8 || len(s) > 63 {
		return invalid("wifi password must be 8..63 bytes")
	}
	if !isASCII(s) {
		return invalid("wifi password must be ASCII")
	}
	if hasControl(s) {
		return invalid("wifi password must not contain control characters")
	}
	return nil
}

// countryCodes is the fixed allow-list for CountryCode. It covers the
// regulatory domains hostapd/wpa_supplicant commonly ship with; adding a
// new one is a config change, not a code change, in a full deployment.
var countryCodes = map[string]bool{
	"US": true, "GB": true, "DE": true, "FR": true, "JP": true, "CA": true,
	"AU": true, "NL": true, "SE": true, "CH": true, "ES": true, "IT": true,
	"BR": true, "IN": true, "CN": true, "KR": true, "MX": true, "ZA": true,
	"00": true, // "world" / no-country-set domain
}

// CountryCode checks a 2-letter country code against the fixed allow-list.
// "00" (the ISO "world" regulatory domain) is the sole non-letter entry.
func CountryCode(s string) error {
	if len(s) != 2 {
		return invalid("country code %q must be exactly 2 characters", s)
	}
	upper := strings.ToUpper(s)
	if upper != "00" && (upper[0] < 'A' || upper[0] > 'Z' || upper[1] < 'A' || upper[1] > 'Z') {
		return invalid("country code %q must be ASCII letters", s)
	}
	if !countryCodes[upper] {
		return invalid("country code %q is not in the allow-list", s)
	}
	return nil
}

var fiveGHzChannels = map[int]bool{
	36: true, 40: true, 44: true, 48: true, // non-DFS UNII-1
	52: true, 56: true, 60: true, 64: true, // DFS UNII-2
	100: true, 104: true, 108: true, 112: true, 116: true, 120: true,
	124: true, 128: true, 132: true, 136: true, 140: true, 144: true, // DFS UNII-2e
	149: true, 153: true, 157: true, 161: true, 165: true, // non-DFS UNII-3
}

// channel1213RestrictedCountries lists the regulatory domains whose
// 2.4GHz allocation stops at channel 11: channels 12 and 13, though
// within the band's raw 1..13 range, are not legal to transmit on
// there. Every other entry in countryCodes (including "00", the
// no-country-set world domain) permits the full 1..13 range.
var channel1213RestrictedCountries = map[string]bool{
	"US": true, "CA": true, "MX": true,
}

// WiFiChannel checks channel against the allowed-channel set for the
// stated band ("2.4GHz" or "5GHz") and, on 2.4GHz, against country's
// regulatory domain: channels 12 and 13 are only valid where country
// permits them. country is expected to already have passed CountryCode;
// WiFiChannel itself only uppercases it for the restriction lookup.
func WiFiChannel(band, country string, channel int) error {
	switch band {
	case "2.4GHz":
		if channel < 1 || channel > 13 {
			return invalid("channel %d is not valid on 2.4GHz", channel)
		}
		if channel >= 12 && channel1213RestrictedCountries[strings.ToUpper(country)] {
			return invalid("channel %d is not permitted in country %q", channel, country)
		}
	case "5GHz":
		if !fiveGHzChannels[channel] {
			return invalid("channel %d is not valid on 5GHz", channel)
		}
	default:
		return invalid("unknown band %q", band)
	}
	return nil
}

// Hostname checks <=253 bytes; either a valid IP or alnum/-/. with no
// leading/trailing '-' or '.'.
func Hostname(s string) error {
	if len(s) > 253 {
		return invalid("hostname %q exceeds 253 bytes", s)
	}
	if _, err := netip.ParseAddr(s); err == nil {
		return nil
	}
	if s == "" {
		return invalid("hostname must not be empty")
	}
	if s[0] == '-' || s[0] == '.' || s[len(s)-1] == '-' || s[len(s)-1] == '.' {
		return invalid("hostname %q must not start or end with '-' or '.'", s)
	}
	for _, b := range []byte(s) {
		if !isAlnum(b) && b != '-' && b != '.' {
			return invalid("hostname %q contains an invalid character", s)
		}
	}
	return nil
}

// DurationMinutes checks a privilege-token grant duration (§4.4):
// 1..=1440.
func DurationMinutes(d int) error {
	if d < 1 || d > 1440 {
		return invalid("duration_minutes %d out of range 1..1440", d)
	}
	return nil
}

// TruncateSubprocessError truncates subprocess stderr to 500 bytes and
// strips control characters, per §4.7.
func TruncateSubprocessError(stderr []byte) string {
	const maxLen = 500
	cleaned := make([]byte, 0, len(stderr))
	for _, b := range stderr {
		if b == '\n' || b == '\t' || (b >= 0x20 && b < 0x7f) {
			cleaned = append(cleaned, b)
		}
	}
	if len(cleaned) > maxLen {
		cleaned = cleaned[:maxLen]
	}
	return string(cleaned)
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}
