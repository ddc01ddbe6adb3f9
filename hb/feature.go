package hb

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphkit/internal/engine"
)

// Feature range bounds which select the whole text.
const (
	FeatureGlobalStart = 0
	FeatureGlobalEnd   = math.MaxInt
)

// Feature is an OpenType feature setting, applied to the clusters
// [Start,End) of a shaping call. Value 0 switches a feature off; values above
// 1 select alternates.
type Feature struct {
	Tag        string
	Value      uint32
	Start, End int
}

// NewFeature creates a feature setting for a range of clusters.
func NewFeature(tag string, value uint32, start, end int) Feature {
	return Feature{Tag: tag, Value: value, Start: start, End: end}
}

// GlobalFeature creates a feature setting for the whole text.
func GlobalFeature(tag string, value uint32) Feature {
	return NewFeature(tag, value, FeatureGlobalStart, FeatureGlobalEnd)
}

func (f Feature) String() string {
	var b strings.Builder
	if f.Value == 0 {
		b.WriteByte('-')
	}
	b.WriteString(f.Tag)
	if f.Start != FeatureGlobalStart || f.End != FeatureGlobalEnd {
		b.WriteByte('[')
		if f.Start != FeatureGlobalStart {
			b.WriteString(strconv.Itoa(f.Start))
		}
		b.WriteByte(':')
		if f.End != FeatureGlobalEnd {
			b.WriteString(strconv.Itoa(f.End))
		}
		b.WriteByte(']')
	}
	if f.Value > 1 {
		b.WriteByte('=')
		b.WriteString(strconv.FormatUint(uint64(f.Value), 10))
	}
	return b.String()
}

func (f Feature) engine() engine.Feature {
	return engine.Feature{Tag: engine.Tag(f.Tag), Value: f.Value, Start: f.Start, End: f.End}
}

// ParseFeature parses a feature setting in the syntax of hb-shape:
//
//	kern       switch on
//	+kern      switch on
//	-kern      switch off
//	kern=0     switch off
//	aalt=2     select alternate 2
//	kern[3:5]  clusters 3 and 4 only; either bound may be omitted
//	kern[3]    cluster 3 only
func ParseFeature(item string) (Feature, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return Feature{}, errors.New("empty feature entry")
	}
	f := GlobalFeature("", 1)
	if rest, minus := strings.CutPrefix(item, "-"); minus {
		item, f.Value = rest, 0
	} else {
		item = strings.TrimPrefix(item, "+")
	}
	if tagPart, value, hasEqual := strings.Cut(item, "="); hasEqual {
		value = strings.TrimSpace(value)
		if value == "" {
			return Feature{}, fmt.Errorf("empty feature value in %q", item)
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return Feature{}, fmt.Errorf("invalid feature value in %q: %w", item, err)
		}
		item, f.Value = tagPart, uint32(n)
	}
	if tagPart, rng, hasRange := strings.Cut(item, "["); hasRange {
		rng, ok := strings.CutSuffix(strings.TrimSpace(rng), "]")
		if !ok {
			return Feature{}, fmt.Errorf("unterminated cluster range in %q", item)
		}
		var err error
		if f.Start, f.End, err = parseClusterRange(rng); err != nil {
			return Feature{}, fmt.Errorf("invalid cluster range in %q: %w", item, err)
		}
		item = tagPart
	}
	f.Tag = strings.TrimSpace(item)
	if len(f.Tag) != 4 {
		return Feature{}, fmt.Errorf("feature tag %q is not 4 characters", f.Tag)
	}
	return f, nil
}

func parseClusterRange(rng string) (start, end int, err error) {
	start, end = FeatureGlobalStart, FeatureGlobalEnd
	from, to, isRange := strings.Cut(rng, ":")
	if from = strings.TrimSpace(from); from != "" {
		if start, err = strconv.Atoi(from); err != nil {
			return
		}
	}
	if !isRange {
		return start, start + 1, nil
	}
	if to = strings.TrimSpace(to); to != "" {
		if end, err = strconv.Atoi(to); err != nil {
			return
		}
	}
	if start < 0 || end < start {
		err = fmt.Errorf("bad range [%d:%d]", start, end)
	}
	return
}

// ParseFeatures parses a comma- or space-separated list of feature settings.
func ParseFeatures(list string) ([]Feature, error) {
	var features []Feature
	for _, item := range strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		f, err := ParseFeature(item)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}
