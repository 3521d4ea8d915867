// Package hosts parses and renders the managed block of a hosts file.
//
// The block is delimited by two fixed marker lines. Everything outside the
// block belongs to the user and must round-trip byte for byte; the only
// normalization ever applied is a single blank separator line before the
// block when the preceding text does not end with one.
package hosts

import "strings"

// Markers delimiting the managed block. A line matches after its trailing
// newline is stripped; the match is case-sensitive and covers the full line.
const (
	BeginMarker = "# === BEGIN MANAGED BY LHM ==="
	EndMarker   = "# === END MANAGED BY LHM ==="
)

// Snapshot holds the verbatim file content outside the managed block,
// captured at load time so a later render can reconstruct the file around
// the rewritten block exactly.
type Snapshot struct {
	Pre  []string // lines before the begin marker, terminators preserved
	Post []string // lines after the end marker, terminators preserved
}

// Parse splits file text into managed entries and the surrounding snapshot.
//
// Only the first begin marker and the first end marker after it are
// recognized. If either is missing the whole file becomes Pre and no
// entries exist yet. Managed lines that fail entry parsing are silently
// dropped; their order is otherwise preserved.
func Parse(text string) ([]Entry, Snapshot) {
	lines := splitLines(text)

	begin := -1
	for i, ln := range lines {
		if strings.TrimRight(ln, "\n") == BeginMarker {
			begin = i
			break
		}
	}

	end := -1
	if begin != -1 {
		for j := begin + 1; j < len(lines); j++ {
			if strings.TrimRight(lines[j], "\n") == EndMarker {
				end = j
				break
			}
		}
	}

	if begin == -1 || end == -1 || end < begin {
		return nil, Snapshot{Pre: lines}
	}

	var entries []Entry
	for _, ln := range lines[begin+1 : end] {
		if e, ok := parseEntryLine(ln); ok {
			entries = append(entries, e)
		}
	}

	return entries, Snapshot{Pre: lines[:begin], Post: lines[end+1:]}
}

// Render rebuilds the full file text: the pre lines, the managed block with
// one line per entry, then the post lines. Before the block, the last pre
// line gains a newline if it lacked one, and a blank separator line is
// inserted when the last pre line is non-blank.
func Render(snap Snapshot, entries []Entry) string {
	var b strings.Builder

	pre := snap.Pre
	for i, ln := range pre {
		if i == len(pre)-1 && !strings.HasSuffix(ln, "\n") {
			ln += "\n"
		}
		b.WriteString(ln)
	}
	if len(pre) > 0 && strings.TrimSpace(pre[len(pre)-1]) != "" {
		b.WriteString("\n")
	}

	b.WriteString(BeginMarker + "\n")
	for _, e := range entries {
		b.WriteString(renderEntryLine(e) + "\n")
	}
	b.WriteString(EndMarker + "\n")

	for _, ln := range snap.Post {
		b.WriteString(ln)
	}

	return b.String()
}

// splitLines splits text into lines with their trailing newline kept, so
// joining the result reproduces the input exactly.
func splitLines(text string) []string {
	var lines []string
	for text != "" {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}
