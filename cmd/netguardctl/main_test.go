package main

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestRootCommandRegistersEverySubcommand(t *testing.T) {
	cmd := newRootCommand()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{
		"version", "networking", "connectivity", "devices",
		"device", "wifi", "vpn", "connection", "dhcp-server",
		"dns", "routing", "privilege", "events",
	} {
		assert.Check(t, contains(names, want), "missing subcommand %q", want)
	}
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

func TestParseBoolArg(t *testing.T) {
	cases := map[string]bool{
		"true": true, "yes": true, "on": true, "1": true,
		"false": false, "no": false, "off": false, "0": false,
	}
	for in, want := range cases {
		got, err := parseBoolArg(in)
		assert.NilError(t, err)
		assert.Equal(t, got, want)
	}
}

func TestParseBoolArgRejectsGarbage(t *testing.T) {
	_, err := parseBoolArg("maybe")
	assert.ErrorContains(t, err, "expected true or false")
}
