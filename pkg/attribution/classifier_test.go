package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyGclidIsGoogleAds(t *testing.T) {
	result := Classify("https://site.com/landing?gclid=abc123")

	assert.Equal(t, ChannelGoogleAds, result.Channel)
	require.NotNil(t, result.Group)
	assert.Equal(t, "Not found", *result.Group)
}

func TestClassifyGadSourceOneIsGoogleAds(t *testing.T) {
	result := Classify("https://site.com/landing?gad_source=1")

	assert.Equal(t, ChannelGoogleAds, result.Channel)
	require.NotNil(t, result.Group)
	assert.Equal(t, "Not found", *result.Group)
}

func TestClassifyGadSourceOtherValueIsNotGoogleAds(t *testing.T) {
	result := Classify("https://site.com/landing?gad_source=2")

	assert.Equal(t, ChannelOther, result.Channel)
	assert.Nil(t, result.Group)
}

func TestClassifyGoogleAdsWithGroupParam(t *testing.T) {
	result := Classify("https://site.com/landing?gclid=abc&group=brand-campaign")

	assert.Equal(t, ChannelGoogleAds, result.Channel)
	require.NotNil(t, result.Group)
	assert.Equal(t, "brand-campaign", *result.Group)
}

func TestClassifyBlogPathIsOrganic(t *testing.T) {
	result := Classify("https://site.com/blog/post-1")

	assert.Equal(t, ChannelOrganic, result.Channel)
	assert.Nil(t, result.Group)
}

func TestClassifyGclidWinsOverBlogPath(t *testing.T) {
	// The decision order is fixed: paid markers beat the organic heuristic
	result := Classify("https://site.com/blog/post-1?gclid=abc")

	assert.Equal(t, ChannelGoogleAds, result.Channel)
}

func TestClassifyPlainURLIsOther(t *testing.T) {
	result := Classify("https://site.com/pricing")

	assert.Equal(t, ChannelOther, result.Channel)
	assert.Nil(t, result.Group)
}

func TestClassifyInvalidURLDegradesToOther(t *testing.T) {
	for _, raw := range []string{
		"not a url",
		"",
		"/relative/path",
		"://missing-scheme",
		"%%%",
	} {
		result := Classify(raw)
		assert.Equal(t, ChannelOther, result.Channel, "input %q", raw)
		assert.Nil(t, result.Group, "input %q", raw)
	}
}
