package hosts

import (
	"regexp"
	"strings"
)

// Entry represents one IP-to-hostnames mapping line in the managed block.
type Entry struct {
	Enabled bool
	IP      string
	Hosts   string // one or more hostnames, space-joined
}

// IsEmpty reports whether the entry carries no data. The enabled flag is
// ignored: a row with no address and no hostnames is blank either way.
func (e Entry) IsEmpty() bool {
	return strings.TrimSpace(e.IP) == "" && strings.TrimSpace(e.Hosts) == ""
}

// ipShape matches a dotted-quad IPv4 or a loose IPv6 shape (hex digits and
// colons). No semantic range or validity checking is performed.
var ipShape = regexp.MustCompile(`^(\d{1,3}(?:\.\d{1,3}){3}|[0-9a-fA-F:]+)$`)

// parseEntryLine parses one managed-block line into an Entry.
//
// Supported forms:
//   - "1.2.3.4 host1 host2"
//   - "#1.2.3.4 host1 host2" or "# 1.2.3.4 host1 host2" (disabled)
//
// An inline "#..." after the entry is a comment and is discarded. Empty,
// comment-only, and malformed lines report ok=false.
func parseEntryLine(raw string) (Entry, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Entry{}, false
	}

	enabled := true
	if strings.HasPrefix(s, "#") {
		enabled = false
		s = strings.TrimLeft(s[1:], " \t")
		if s == "" {
			return Entry{}, false
		}
	}

	s = strings.TrimSpace(stripInlineComment(s))
	if s == "" {
		return Entry{}, false
	}

	parts := strings.Fields(s)
	if len(parts) < 2 {
		return Entry{}, false
	}

	ip := parts[0]
	if !ipShape.MatchString(ip) {
		return Entry{}, false
	}

	return Entry{
		Enabled: enabled,
		IP:      ip,
		Hosts:   strings.Join(parts[1:], " "),
	}, true
}

// stripInlineComment drops everything from the first '#' onward,
// right-trimming what remains.
func stripInlineComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return strings.TrimRight(s[:i], " \t")
	}
	return s
}

// renderEntryLine formats an Entry as a managed-block line without a
// terminator. Disabled entries are prefixed with '#'.
func renderEntryLine(e Entry) string {
	line := strings.TrimRight(e.IP+"\t"+e.Hosts, " \t")
	if !e.Enabled {
		line = "#" + line
	}
	return line
}
