package job

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"mp3-192", FormatMP3Low, false},
		{"MP3_320", FormatMP3High, false},
		{"mp4@720", FormatMP4720, false},
		{" mp4-1080 ", FormatMP41080, false},
		{"mp4-best", FormatMP4Best, false},
		{"flac", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatKind(t *testing.T) {
	if FormatMP3High.Kind() != KindAudio {
		t.Errorf("Expected mp3-320 to be audio")
	}
	if FormatMP4Best.Kind() != KindVideo {
		t.Errorf("Expected mp4-best to be video")
	}
}

func TestDestKey(t *testing.T) {
	a := NewDescriptor("https://example.com/a", FormatMP4720, "/tmp/out")
	b := NewDescriptor("https://example.com/a", FormatMP3Low, "/tmp/out")
	c := NewDescriptor("https://example.com/a", FormatMP4720, "/tmp/other")
	if a.DestKey() != b.DestKey() {
		t.Errorf("Same URL and dir should share a dest key")
	}
	if a.DestKey() == c.DestKey() {
		t.Errorf("Different dirs should not share a dest key")
	}
	if a.ID == b.ID {
		t.Errorf("Descriptors should get unique IDs")
	}
}

func TestLifecycleSuccess(t *testing.T) {
	j := New(NewDescriptor("https://example.com/a", FormatMP4720, "/tmp"))
	if j.State() != StatePending {
		t.Fatalf("Expected pending, got %s", j.State())
	}
	if !j.Start() {
		t.Fatalf("Start from pending should succeed")
	}
	if !j.Succeed("/tmp/a.mp4") {
		t.Fatalf("Succeed from running should succeed")
	}
	snap := j.Snapshot()
	if snap.State != StateSucceeded {
		t.Errorf("Expected succeeded, got %s", snap.State)
	}
	if snap.Progress != 100 {
		t.Errorf("Expected progress 100, got %f", snap.Progress)
	}
	if snap.OutputPath != "/tmp/a.mp4" {
		t.Errorf("Expected output path recorded, got %q", snap.OutputPath)
	}
}

func TestProgressMonotonicAndClamped(t *testing.T) {
	j := New(NewDescriptor("https://example.com/a", FormatMP4720, "/tmp"))
	j.Start()
	j.SetProgress(42.5)
	j.SetProgress(30) // regression, ignored
	if got := j.Snapshot().Progress; got != 42.5 {
		t.Errorf("Expected 42.5 after regression, got %f", got)
	}
	j.SetProgress(150)
	if got := j.Snapshot().Progress; got != 100 {
		t.Errorf("Expected clamp to 100, got %f", got)
	}
	j.SetProgress(-5)
	if got := j.Snapshot().Progress; got != 100 {
		t.Errorf("Expected negative report ignored, got %f", got)
	}
}

func TestProgressIgnoredWhenNotRunning(t *testing.T) {
	j := New(NewDescriptor("https://example.com/a", FormatMP4720, "/tmp"))
	j.SetProgress(50)
	if got := j.Snapshot().Progress; got != 0 {
		t.Errorf("Pending job should not accept progress, got %f", got)
	}
}

func TestIllegalTransitionsAreNoOps(t *testing.T) {
	j := New(NewDescriptor("https://example.com/a", FormatMP4720, "/tmp"))
	if j.Succeed("/tmp/a.mp4") {
		t.Errorf("Pending -> succeeded should be rejected")
	}
	if j.State() != StatePending {
		t.Errorf("State changed by illegal transition: %s", j.State())
	}
	j.Start()
	j.Fail("boom")
	if j.Start() {
		t.Errorf("Failed -> running should be rejected")
	}
	if j.Succeed("") {
		t.Errorf("Failed -> succeeded should be rejected")
	}
	if j.State() != StateFailed {
		t.Errorf("Terminal state changed: %s", j.State())
	}
}

func TestCancelPending(t *testing.T) {
	j := New(NewDescriptor("https://example.com/a", FormatMP4720, "/tmp"))
	if got := j.RequestCancel(); got != StateCancelled {
		t.Errorf("Cancel of pending should be immediate, got %s", got)
	}
	if j.Start() {
		t.Errorf("Cancelled job should not start")
	}
}

func TestCancelRunning(t *testing.T) {
	j := New(NewDescriptor("https://example.com/a", FormatMP4720, "/tmp"))
	j.Start()
	if got := j.RequestCancel(); got != StateCancelling {
		t.Errorf("Cancel of running should go through cancelling, got %s", got)
	}
	if !j.State().Active() {
		t.Errorf("Cancelling should still count as active")
	}
	if !j.FinishCancel() {
		t.Errorf("FinishCancel from cancelling should succeed")
	}
	if j.State() != StateCancelled {
		t.Errorf("Expected cancelled, got %s", j.State())
	}
}

func TestCancelTerminalIsNoOp(t *testing.T) {
	j := New(NewDescriptor("https://example.com/a", FormatMP4720, "/tmp"))
	j.Start()
	j.Succeed("")
	if got := j.RequestCancel(); got != StateSucceeded {
		t.Errorf("Cancel of terminal job should not change state, got %s", got)
	}
}

func TestFailRecordsSanitizedDetail(t *testing.T) {
	j := New(NewDescriptor("https://example.com/a", FormatMP4720, "/tmp"))
	j.Start()
	j.Fail("WARNING: something\nERROR: unable to download video data\n")
	snap := j.Snapshot()
	if snap.ErrDetail != "ERROR: unable to download video data" {
		t.Errorf("Expected last line kept, got %q", snap.ErrDetail)
	}

	j2 := New(NewDescriptor("https://example.com/b", FormatMP4720, "/tmp"))
	j2.Start()
	j2.Fail(strings.Repeat("x", 1000))
	if got := len(j2.Snapshot().ErrDetail); got > maxDetailLen+3 {
		t.Errorf("Expected detail truncated, got len %d", got)
	}
}

func TestFailDetailTruncatesOnRuneBoundary(t *testing.T) {
	j := New(NewDescriptor("https://example.com/a", FormatMP4720, "/tmp"))
	j.Start()
	j.Fail("ERROR: unable to download 動画タイトル" + strings.Repeat("é", 500))
	detail := j.Snapshot().ErrDetail
	if !utf8.ValidString(detail) {
		t.Errorf("Truncated detail is not valid UTF-8: %q", detail)
	}
	if got := utf8.RuneCountInString(detail); got != maxDetailLen+3 {
		t.Errorf("Expected %d runes, got %d", maxDetailLen+3, got)
	}
}

func TestSetSpeedOnlyWhileRunning(t *testing.T) {
	j := New(NewDescriptor("https://example.com/a", FormatMP4720, "/tmp"))
	j.SetSpeed("1.2MiB/s")
	if got := j.Snapshot().Speed; got != "" {
		t.Errorf("Speed set on pending job: %q", got)
	}
	j.Start()
	j.SetSpeed("1.2MiB/s")
	if got := j.Snapshot().Speed; got != "1.2MiB/s" {
		t.Errorf("Expected speed recorded, got %q", got)
	}
	j.Succeed("/out/a.mp4")
	j.SetSpeed("9.9MiB/s")
	if got := j.Snapshot().Speed; got != "1.2MiB/s" {
		t.Errorf("Speed changed after terminal state: %q", got)
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []State{StateSucceeded, StateFailed, StateCancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []State{StatePending, StateRunning, StateCancelling} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
