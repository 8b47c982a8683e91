package attribution

import (
	"net/url"
	"strings"
)

// Channel is the classified acquisition source of a first-touch URL.
type Channel string

const (
	ChannelGoogleAds Channel = "google_ads"
	ChannelOrganic   Channel = "organic"
	ChannelOther     Channel = "other"
)

// missingGroup is the sentinel reported when a Google Ads visit carries no
// campaign group parameter. Downstream consumers match on this literal.
const missingGroup = "Not found"

// Classification is the result of classifying one URL.
type Classification struct {
	Channel Channel
	Group   *string
}

// Classify classifies a visited URL into a channel and optional campaign
// group. It is pure and total: any input, including garbage, yields a result.
// The decision order is deliberate and must not be reordered:
//
//  1. not a valid absolute URL -> Other, no group
//  2. gclid present, or gad_source equal to "1" -> GoogleAds; group taken from
//     the `group` query parameter, defaulting to "Not found"
//  3. path contains a /blog/ segment -> Organic
//  4. anything else -> Other
func Classify(rawURL string) Classification {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Classification{Channel: ChannelOther}
	}

	query := u.Query()
	if query.Has("gclid") || query.Get("gad_source") == "1" {
		group := missingGroup
		if query.Has("group") {
			group = query.Get("group")
		}
		return Classification{Channel: ChannelGoogleAds, Group: &group}
	}

	if strings.Contains(u.Path, "/blog/") {
		return Classification{Channel: ChannelOrganic}
	}

	return Classification{Channel: ChannelOther}
}
