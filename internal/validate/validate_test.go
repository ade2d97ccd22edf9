package validate

import (
	"strings"
	"testing"

	"github.com/netguard/netguardd/internal/errdefs"
	"gotest.tools/v3/assert"
)

func TestInterfaceID(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"eth0", true},
		{"wlan0", true},
		{"eth0; rm -rf /", false},
		{"-eth", false},
		{"sixteen-char-nam", false}, // 16 chars
		{"", false},
		{"a-_.", false},
	}
	for _, tc := range tests {
		err := InterfaceID(tc.name)
		if tc.ok {
			assert.NilError(t, err, tc.name)
		} else {
			assert.Check(t, err != nil, "expected error for %q", tc.name)
			assert.Check(t, errdefs.IsInvalidParameter(err))
		}
	}
}

func TestCIDR(t *testing.T) {
	_, err := CIDR("192.168.1.50/24")
	assert.NilError(t, err)

	_, err = CIDR("192.168.1.50/33")
	assert.Check(t, err != nil)

	_, err = CIDR("fd00::1/129")
	assert.Check(t, err != nil)

	_, err = CIDR("fd00::1/64")
	assert.NilError(t, err)

	_, err = CIDR("not-a-cidr")
	assert.Check(t, err != nil)
}

func TestMAC(t *testing.T) {
	assert.NilError(t, MAC("aa:bb:cc:dd:ee:ff"))
	assert.Check(t, MAC("aa:bb:cc:dd:ee") != nil)
	assert.Check(t, MAC("aabbccddeeff") != nil)
}

func TestMTU(t *testing.T) {
	assert.Check(t, MTU(67) != nil)
	assert.NilError(t, MTU(68))
	assert.NilError(t, MTU(9000))
	assert.Check(t, MTU(9001) != nil)
}

func TestWiFiPasswordBoundaries(t *testing.T) {
	tests := []struct {
		length int
		ok     bool
	}{
		{7, false},
		{8, true},
		{63, true},
		{64, false},
	}
	for _, tc := range tests {
		pw := strings.Repeat("a", tc.length)
		err := WiFiPassword(pw)
		if tc.ok {
			assert.NilError(t, err, "length %d", tc.length)
		} else {
			assert.Check(t, err != nil, "expected rejection at length %d", tc.length)
		}
	}
}

func TestWiFiChannel(t *testing.T) {
	assert.NilError(t, WiFiChannel("2.4GHz", "00", 11))
	assert.Check(t, WiFiChannel("2.4GHz", "00", 14) != nil)
	assert.Check(t, WiFiChannel("2.4GHz", "00", 36) != nil)
	assert.NilError(t, WiFiChannel("5GHz", "00", 36))
	assert.Check(t, WiFiChannel("5GHz", "00", 37) != nil)
}

func TestWiFiChannel1213RestrictedByCountry(t *testing.T) {
	// "00" (no country set / world domain) and most listed countries
	// permit the full 2.4GHz range.
	assert.NilError(t, WiFiChannel("2.4GHz", "00", 12))
	assert.NilError(t, WiFiChannel("2.4GHz", "00", 13))
	assert.NilError(t, WiFiChannel("2.4GHz", "GB", 13))

	// US/CA/MX restrict 2.4GHz to channels 1..11.
	assert.Check(t, WiFiChannel("2.4GHz", "US", 12) != nil)
	assert.Check(t, WiFiChannel("2.4GHz", "US", 13) != nil)
	assert.Check(t, WiFiChannel("2.4GHz", "CA", 12) != nil)
	assert.NilError(t, WiFiChannel("2.4GHz", "US", 11))

	// Lowercase input is normalized the same as CountryCode does.
	assert.Check(t, WiFiChannel("2.4GHz", "us", 12) != nil)
}

func TestDurationMinutes(t *testing.T) {
	assert.Check(t, DurationMinutes(0) != nil)
	assert.NilError(t, DurationMinutes(1))
	assert.NilError(t, DurationMinutes(1440))
	assert.Check(t, DurationMinutes(1441) != nil)
}

func TestHostname(t *testing.T) {
	assert.NilError(t, Hostname("my-host.example.com"))
	assert.NilError(t, Hostname("192.168.1.1"))
	assert.Check(t, Hostname("-bad") != nil)
	assert.Check(t, Hostname("bad-") != nil)
	assert.Check(t, Hostname(strings.Repeat("a", 254)) != nil)
}

func TestTruncateSubprocessError(t *testing.T) {
	long := strings.Repeat("x", 600)
	got := TruncateSubprocessError([]byte(long))
	assert.Check(t, len(got) == 500)

	withControl := []byte("hello\x00world\x1b[31m")
	got = TruncateSubprocessError(withControl)
	assert.Check(t, !strings.ContainsAny(got, "\x00\x1b"))
}

func TestSSID(t *testing.T) {
	assert.NilError(t, SSID("Home"))
	assert.Check(t, SSID("") != nil)
	assert.Check(t, SSID(strings.Repeat("a", 33)) != nil)
	assert.Check(t, SSID("bad\x00ssid") != nil)
}

func TestCountryCode(t *testing.T) {
	assert.NilError(t, CountryCode("US"))
	assert.NilError(t, CountryCode("us"))
	assert.Check(t, CountryCode("USA") != nil)
	assert.Check(t, CountryCode("12") != nil)
	assert.Check(t, CountryCode("ZZ") != nil)
}
