package core

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const osReleasePath = "/etc/os-release"

// OSVersionString returns a human-readable description of the host image,
// e.g. "Ubuntu 24.04.1 LTS". Falls back to "Linux" when /etc/os-release
// is unreadable.
func OSVersionString() string {
	fields := readOSRelease()
	if pretty := fields["PRETTY_NAME"]; pretty != "" {
		return pretty
	}
	return "Linux"
}

// IsUbuntu reports whether the host identifies as Ubuntu. The tool only
// warns on other distributions — the builtin catalog assumes the Ubuntu
// runner image layout.
func IsUbuntu() bool {
	fields := readOSRelease()
	if fields["ID"] == "ubuntu" {
		return true
	}
	return strings.Contains(fields["ID_LIKE"], "ubuntu")
}

// readOSRelease parses the KEY=value pairs from /etc/os-release.
func readOSRelease() map[string]string {
	f, err := os.Open(osReleasePath)
	if err != nil {
		return map[string]string{}
	}
	defer f.Close()
	return parseOSRelease(f)
}

func parseOSRelease(r io.Reader) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"`)
	}
	return fields
}
