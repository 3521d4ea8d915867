package hosts

import (
	"strings"
	"testing"
)

// exampleFile is a hosts file with one enabled and one disabled managed entry.
const exampleFile = "127.0.0.1 localhost\n" +
	"\n" +
	BeginMarker + "\n" +
	"10.0.0.5\tsvc-a svc-b\n" +
	"#10.0.0.6\tsvc-c\n" +
	EndMarker + "\n"

// --- Parse ---

func TestParse_ManagedBlock(t *testing.T) {
	entries, snap := Parse(exampleFile)

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].Enabled || entries[0].IP != "10.0.0.5" || entries[0].Hosts != "svc-a svc-b" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Enabled || entries[1].IP != "10.0.0.6" || entries[1].Hosts != "svc-c" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}

	if len(snap.Pre) != 2 || snap.Pre[0] != "127.0.0.1 localhost\n" {
		t.Errorf("unexpected pre lines: %q", snap.Pre)
	}
	if len(snap.Post) != 0 {
		t.Errorf("expected empty post, got %q", snap.Post)
	}
}

func TestParse_NoMarkers(t *testing.T) {
	text := "127.0.0.1 localhost\n::1 localhost6\n"
	entries, snap := Parse(text)

	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
	if strings.Join(snap.Pre, "") != text {
		t.Errorf("expected whole file in pre, got %q", snap.Pre)
	}
	if len(snap.Post) != 0 {
		t.Errorf("expected empty post, got %q", snap.Post)
	}
}

func TestParse_MissingEndMarker(t *testing.T) {
	text := "127.0.0.1 localhost\n" + BeginMarker + "\n10.0.0.5\tsvc-a\n"
	entries, snap := Parse(text)

	if len(entries) != 0 {
		t.Fatalf("expected no entries without end marker, got %d", len(entries))
	}
	if strings.Join(snap.Pre, "") != text {
		t.Errorf("expected whole file in pre, got %q", snap.Pre)
	}
}

func TestParse_EndMarkerBeforeBegin(t *testing.T) {
	text := EndMarker + "\n" + BeginMarker + "\n10.0.0.5\tsvc-a\n"
	entries, snap := Parse(text)

	// The end marker before the block start cannot close it.
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
	if strings.Join(snap.Pre, "") != text {
		t.Errorf("expected whole file in pre, got %q", snap.Pre)
	}
}

func TestParse_FirstBlockWins(t *testing.T) {
	text := BeginMarker + "\n1.1.1.1\ta\n" + EndMarker + "\n" +
		BeginMarker + "\n2.2.2.2\tb\n" + EndMarker + "\n"
	entries, snap := Parse(text)

	if len(entries) != 1 || entries[0].IP != "1.1.1.1" {
		t.Fatalf("expected only the first block's entry, got %+v", entries)
	}
	if strings.Join(snap.Post, "") != BeginMarker+"\n2.2.2.2\tb\n"+EndMarker+"\n" {
		t.Errorf("expected second block preserved in post, got %q", snap.Post)
	}
}

func TestParse_SkipsMalformedManagedLines(t *testing.T) {
	text := BeginMarker + "\n" +
		"\n" +
		"# note to self\n" +
		"bogus\n" +
		"10.0.0.5\tsvc-a\n" +
		EndMarker + "\n"
	entries, _ := Parse(text)

	if len(entries) != 1 || entries[0].IP != "10.0.0.5" {
		t.Fatalf("expected only the well-formed entry, got %+v", entries)
	}
}

func TestParse_EmptyFile(t *testing.T) {
	entries, snap := Parse("")
	if len(entries) != 0 || len(snap.Pre) != 0 || len(snap.Post) != 0 {
		t.Errorf("expected empty result, got entries=%v snap=%+v", entries, snap)
	}
}

// --- Render ---

func TestRender_RoundTripNoMarkers(t *testing.T) {
	// A file with no markers must pass through byte for byte outside the
	// newly appended block.
	text := "127.0.0.1 localhost\n\n# user comment\n\n"
	entries, snap := Parse(text)

	got := Render(snap, entries)
	want := text + BeginMarker + "\n" + EndMarker + "\n"
	if got != want {
		t.Errorf("unexpected render:\n got: %q\nwant: %q", got, want)
	}
}

func TestRender_Idempotent(t *testing.T) {
	entries, snap := Parse(exampleFile)
	got := Render(snap, entries)
	if got != exampleFile {
		t.Errorf("expected byte-identical render:\n got: %q\nwant: %q", got, exampleFile)
	}

	// A second parse/render cycle must be stable.
	entries2, snap2 := Parse(got)
	if again := Render(snap2, entries2); again != got {
		t.Errorf("render not idempotent:\n got: %q\nwant: %q", again, got)
	}
}

func TestRender_InsertsBlankSeparator(t *testing.T) {
	text := "127.0.0.1 localhost\n" + BeginMarker + "\n" + EndMarker + "\n"
	entries, snap := Parse(text)

	got := Render(snap, entries)
	want := "127.0.0.1 localhost\n\n" + BeginMarker + "\n" + EndMarker + "\n"
	if got != want {
		t.Errorf("expected blank separator inserted:\n got: %q\nwant: %q", got, want)
	}

	// The normalization is applied once: rendering again is stable.
	entries2, snap2 := Parse(got)
	if again := Render(snap2, entries2); again != got {
		t.Errorf("normalization not stable:\n got: %q\nwant: %q", again, got)
	}
}

func TestRender_TerminatesLastPreLine(t *testing.T) {
	entries, snap := Parse("127.0.0.1 localhost")

	got := Render(snap, entries)
	want := "127.0.0.1 localhost\n\n" + BeginMarker + "\n" + EndMarker + "\n"
	if got != want {
		t.Errorf("expected terminator appended to pre:\n got: %q\nwant: %q", got, want)
	}
}

func TestRender_PostPreservedVerbatim(t *testing.T) {
	text := BeginMarker + "\n" + EndMarker + "\n# trailing user content\nno newline at eof"
	entries, snap := Parse(text)

	if got := Render(snap, entries); got != text {
		t.Errorf("expected post preserved:\n got: %q\nwant: %q", got, text)
	}
}

func TestRender_EditedEntryDisabled(t *testing.T) {
	entries, snap := Parse(exampleFile)
	entries[0].Enabled = false

	got := Render(snap, entries)
	want := strings.Replace(exampleFile, "10.0.0.5\t", "#10.0.0.5\t", 1)
	if got != want {
		t.Errorf("unexpected render after disabling:\n got: %q\nwant: %q", got, want)
	}
}
