package core

import (
	"strings"
	"testing"
)

const ubuntuRelease = `PRETTY_NAME="Ubuntu 24.04.1 LTS"
NAME="Ubuntu"
VERSION_ID="24.04"
ID=ubuntu
ID_LIKE=debian

# trailing comment
VERSION_CODENAME=noble
`

func TestParseOSRelease(t *testing.T) {
	fields := parseOSRelease(strings.NewReader(ubuntuRelease))

	tests := map[string]string{
		"PRETTY_NAME":      "Ubuntu 24.04.1 LTS",
		"ID":               "ubuntu",
		"ID_LIKE":          "debian",
		"VERSION_CODENAME": "noble",
	}
	for key, want := range tests {
		if got := fields[key]; got != want {
			t.Errorf("fields[%q] = %q, want %q", key, got, want)
		}
	}
	if _, ok := fields["# trailing comment"]; ok {
		t.Error("comment line parsed as a field")
	}
}

func TestParseOSReleaseEmpty(t *testing.T) {
	fields := parseOSRelease(strings.NewReader(""))
	if len(fields) != 0 {
		t.Errorf("fields = %v, want empty", fields)
	}
}
