package hb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeature(t *testing.T) {
	cases := []struct {
		in   string
		want Feature
	}{
		{"kern", GlobalFeature("kern", 1)},
		{"+kern", GlobalFeature("kern", 1)},
		{"-liga", GlobalFeature("liga", 0)},
		{"kern=0", GlobalFeature("kern", 0)},
		{"aalt=2", GlobalFeature("aalt", 2)},
		{"kern[3:5]", NewFeature("kern", 1, 3, 5)},
		{"kern[3:]", NewFeature("kern", 1, 3, FeatureGlobalEnd)},
		{"kern[:5]", NewFeature("kern", 1, 0, 5)},
		{"-kern[3]", NewFeature("kern", 0, 3, 4)},
		{" smcp ", GlobalFeature("smcp", 1)},
	}
	for _, c := range cases {
		got, err := ParseFeature(c.in)
		if assert.NoError(t, err, c.in) {
			assert.Equal(t, c.want, got, c.in)
		}
	}
}

func TestParseFeatureErrors(t *testing.T) {
	for _, in := range []string{"", "ka", "kern=", "kern=x", "kern[3", "kern[5:3]", "kern[a]"} {
		_, err := ParseFeature(in)
		assert.Error(t, err, "expected %q to fail", in)
	}
}

func TestParseFeatures(t *testing.T) {
	feats, err := ParseFeatures("liga, -kern  aalt=3")
	require.NoError(t, err)
	assert.Equal(t, []Feature{
		GlobalFeature("liga", 1),
		GlobalFeature("kern", 0),
		GlobalFeature("aalt", 3),
	}, feats)
	feats, err = ParseFeatures("")
	require.NoError(t, err)
	assert.Empty(t, feats)
}

func TestFeatureString(t *testing.T) {
	for _, in := range []string{"kern", "-liga", "aalt=2", "kern[3:5]", "kern[3:]", "-kern[:4]"} {
		f, err := ParseFeature(in)
		require.NoError(t, err)
		assert.Equal(t, in, f.String())
	}
}
