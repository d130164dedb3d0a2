package langid

import "testing"

type fakeDetector struct {
	name   string
	result Result
	ok     bool
	calls  int
}

func (f *fakeDetector) Name() string { return f.name }

func (f *fakeDetector) Detect(string) (Result, bool) {
	f.calls++
	return f.result, f.ok
}

func TestCascadePrimaryConfident(t *testing.T) {
	primary := &fakeDetector{name: "fast", result: Result{Tag: French, Confidence: 0.95}, ok: true}
	fallback := &fakeDetector{name: "slow", result: Result{Tag: German, Confidence: 1}, ok: true}

	tag, stage := NewCascade(primary, 0.8, fallback).DetectWithStage("bonjour")
	if tag != French || stage != "fast" {
		t.Fatalf("expected fr from fast, got %s from %s", tag, stage)
	}
	if fallback.calls != 0 {
		t.Error("fallback should not run when primary is confident")
	}
}

func TestCascadeThresholdIsStrict(t *testing.T) {
	primary := &fakeDetector{name: "fast", result: Result{Tag: French, Confidence: 0.8}, ok: true}
	fallback := &fakeDetector{name: "slow", result: Result{Tag: Italian, Confidence: 0.3}, ok: true}

	tag, stage := NewCascade(primary, 0.8, fallback).DetectWithStage("ciao")
	if tag != Italian || stage != "slow" {
		t.Fatalf("confidence equal to threshold must fall through, got %s from %s", tag, stage)
	}
}

func TestCascadeUnmappedPrimaryFallsThrough(t *testing.T) {
	primary := &fakeDetector{name: "fast", result: Result{Tag: Unknown, Confidence: 0.99}, ok: true}
	fallback := &fakeDetector{name: "slow", result: Result{Tag: Dutch, Confidence: 0.6}, ok: true}

	if tag := NewCascade(primary, 0.8, fallback).Detect("hallo"); tag != Dutch {
		t.Fatalf("unmapped primary language should fall through, got %s", tag)
	}
}

func TestCascadeFallbackAcceptsZeroConfidence(t *testing.T) {
	primary := &fakeDetector{name: "fast", ok: false}
	fallback := &fakeDetector{name: "slow", result: Result{Tag: Russian, Confidence: 0}, ok: true}

	if tag := NewCascade(primary, 0.8, fallback).Detect("привет"); tag != Russian {
		t.Fatalf("fallback should accept any detected result, got %s", tag)
	}
}

func TestCascadeNoResult(t *testing.T) {
	primary := &fakeDetector{name: "fast", ok: false}
	fallback := &fakeDetector{name: "slow", result: Result{Tag: Unknown}, ok: true}

	if tag := NewCascade(primary, 0.8, fallback).Detect("???"); tag != Unknown {
		t.Fatalf("expected unknown, got %s", tag)
	}
}

func TestCascadeBlankTextSkipsBackends(t *testing.T) {
	primary := &fakeDetector{name: "fast", result: Result{Tag: English, Confidence: 1}, ok: true}
	c := NewCascade(primary, 0.8, nil)

	for _, text := range []string{"", "   \n\t"} {
		if tag := c.Detect(text); tag != Unknown {
			t.Errorf("blank text %q should be unknown, got %s", text, tag)
		}
	}
	if primary.calls != 0 {
		t.Errorf("backends should not be consulted for blank text, got %d calls", primary.calls)
	}
}

func TestCascadeEmptyStages(t *testing.T) {
	var c Cascade
	if tag := c.Detect("hello world"); tag != Unknown {
		t.Fatalf("cascade without stages should return unknown, got %s", tag)
	}
}

func TestParse(t *testing.T) {
	tests := map[string]Tag{
		"en":      English,
		" FR ":    French,
		"Ko":      Korean,
		"zh":      Unknown,
		"":        Unknown,
		"unknown": Unknown,
	}
	for in, want := range tests {
		if got := Parse(in); got != want {
			t.Errorf("Parse(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestSupportedIsCopy(t *testing.T) {
	s := Supported()
	if len(s) != 12 {
		t.Fatalf("expected 12 supported tags, got %d", len(s))
	}
	s[0] = Unknown
	if Supported()[0] != English {
		t.Error("Supported should return a copy")
	}
	if Unknown.IsSupported() {
		t.Error("Unknown must not be supported")
	}
}
