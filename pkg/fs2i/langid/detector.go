package langid

import "strings"

// NoThreshold accepts any result a detector reports.
const NoThreshold = -1.0

// DefaultThreshold is the confidence the primary detector must exceed.
const DefaultThreshold = 0.8

// Result is a detector's normalized answer.
type Result struct {
	Tag        Tag
	Confidence float64 // 0..1
}

// Detector is one language identification backend.
// Detect returns false when the backend has no answer at all; a language
// outside the supported set is reported as Unknown.
type Detector interface {
	Name() string
	Detect(text string) (Result, bool)
}

// Stage pairs a detector with the confidence it must strictly exceed.
type Stage struct {
	Detector  Detector
	Threshold float64
}

// Cascade asks each stage in turn and keeps the first accepted result.
type Cascade struct {
	Stages []Stage
}

// NewCascade builds the default two-stage policy: a fast primary detector
// gated by threshold, then a fallback that accepts any supported answer.
// A nil fallback yields a single-stage cascade.
func NewCascade(primary Detector, threshold float64, fallback Detector) *Cascade {
	c := &Cascade{}
	if primary != nil {
		c.Stages = append(c.Stages, Stage{Detector: primary, Threshold: threshold})
	}
	if fallback != nil {
		c.Stages = append(c.Stages, Stage{Detector: fallback, Threshold: NoThreshold})
	}
	return c
}

// Default returns Whatlang gated at 0.8 followed by Lingua over the supported set.
func Default() *Cascade {
	return NewCascade(NewWhatlang(), DefaultThreshold, NewLingua(Supported()...))
}

// Detect returns the document tag, or Unknown when no stage accepts.
func (c *Cascade) Detect(text string) Tag {
	tag, _ := c.DetectWithStage(text)
	return tag
}

// DetectWithStage also returns the name of the detector that answered.
func (c *Cascade) DetectWithStage(text string) (Tag, string) {
	if strings.TrimSpace(text) == "" {
		return Unknown, ""
	}
	for _, st := range c.Stages {
		if st.Detector == nil {
			continue
		}
		res, ok := st.Detector.Detect(text)
		if !ok || !res.Tag.IsSupported() {
			continue
		}
		if res.Confidence <= st.Threshold {
			continue
		}
		return res.Tag, st.Detector.Name()
	}
	return Unknown, ""
}
