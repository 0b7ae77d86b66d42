package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"xscraper/pkg/models"
	"xscraper/pkg/twitter"
)

// SyndicationStrategy parses the public syndication tweet JSON. Media can
// appear in mediaDetails, extended_entities, or the widget-level photos and
// video fields depending on payload generation; mediaDetails carries full
// quality metadata and is preferred.
type SyndicationStrategy struct{}

func (s *SyndicationStrategy) Name() string { return "syndication" }

func (s *SyndicationStrategy) TryExtract(content []byte) ([]models.MediaEntry, error) {
	var tweet twitter.SyndicationTweet
	if err := json.Unmarshal(content, &tweet); err != nil {
		return nil, fmt.Errorf("not syndication JSON: %w", err)
	}

	// A JSON payload with none of the tweet markers is some other document
	// entirely; reject it so later strategies get a chance.
	if !hasTweetMarkers(&tweet) {
		return nil, fmt.Errorf("JSON payload has no tweet fields")
	}

	// Only the directly-referenced post's own media is in scope; media on
	// tweet.QuotedTweet belongs to another post and is skipped.
	details := tweet.MediaDetails
	if len(details) == 0 {
		details = tweet.ExtendedEntities.Media
	}

	if len(details) > 0 {
		return entriesFromDetails(details), nil
	}

	return entriesFromWidgetFields(&tweet), nil
}

// hasTweetMarkers reports whether a decoded payload carries any of the
// fields a syndication tweet would have.
func hasTweetMarkers(t *twitter.SyndicationTweet) bool {
	return t.ID != "" || t.User.ScreenName != "" || len(t.MediaDetails) > 0 ||
		len(t.Photos) > 0 || t.Video != nil || len(t.ExtendedEntities.Media) > 0 ||
		t.QuotedTweet != nil
}

// isTweetJSON reports whether content is a syndication tweet payload. The
// page-scraping strategies refuse such content: a raw URL scan over tweet
// JSON cannot tell the post's own media from a quoted tweet's.
func isTweetJSON(content []byte) bool {
	var tweet twitter.SyndicationTweet
	if err := json.Unmarshal(content, &tweet); err != nil {
		return false
	}
	return hasTweetMarkers(&tweet)
}

// entriesFromDetails converts mediaDetails entities, which carry explicit
// bitrates and pixel dimensions.
func entriesFromDetails(details []twitter.MediaDetail) []models.MediaEntry {
	entries := make([]models.MediaEntry, 0, len(details))

	for _, d := range details {
		switch strings.ToLower(d.Type) {
		case "photo":
			if d.MediaURLHTTPS == "" {
				continue
			}
			entries = append(entries, models.MediaEntry{
				Index: len(entries),
				Kind:  models.KindPhoto,
				Variants: []models.Variant{{
					URL:    twitter.OriginalImageURL(d.MediaURLHTTPS),
					Width:  d.Sizes.Large.W,
					Height: d.Sizes.Large.H,
				}},
			})

		case "video", "animated_gif":
			variants := mp4Variants(d.VideoInfo.Variants, d.Sizes.Large.W, d.Sizes.Large.H)
			if len(variants) == 0 {
				continue
			}
			kind := models.KindVideo
			if strings.EqualFold(d.Type, "animated_gif") {
				kind = models.KindGIF
			}
			entries = append(entries, models.MediaEntry{
				Index:    len(entries),
				Kind:     kind,
				Variants: variants,
			})
		}
	}

	return entries
}

// entriesFromWidgetFields falls back to the photos/video widget fields,
// which lack bitrate metadata.
func entriesFromWidgetFields(tweet *twitter.SyndicationTweet) []models.MediaEntry {
	var entries []models.MediaEntry

	for _, p := range tweet.Photos {
		if p.URL == "" {
			continue
		}
		entries = append(entries, models.MediaEntry{
			Index: len(entries),
			Kind:  models.KindPhoto,
			Variants: []models.Variant{{
				URL:    twitter.OriginalImageURL(p.URL),
				Width:  p.Width,
				Height: p.Height,
			}},
		})
	}

	if tweet.Video != nil {
		var variants []models.Variant
		for _, v := range tweet.Video.Variants {
			if !isMP4(v.Type, v.Src) {
				continue
			}
			variants = append(variants, models.Variant{
				URL:         v.Src,
				ContentType: v.Type,
			})
		}
		if len(variants) > 0 {
			entries = append(entries, models.MediaEntry{
				Index:    len(entries),
				Kind:     models.KindVideo,
				Variants: variants,
			})
		}
	}

	return entries
}

// mp4Variants filters a variant list down to MP4 renditions. HLS playlists
// are skipped; they are manifests, not downloadable files.
func mp4Variants(variants []twitter.VideoVariant, width, height int) []models.Variant {
	out := make([]models.Variant, 0, len(variants))
	for _, v := range variants {
		if !isMP4(v.ContentType, v.URL) {
			continue
		}
		out = append(out, models.Variant{
			URL:         v.URL,
			ContentType: v.ContentType,
			Bitrate:     v.Bitrate,
			Width:       width,
			Height:      height,
		})
	}
	return out
}

func isMP4(contentType, url string) bool {
	if strings.Contains(strings.ToLower(contentType), "mp4") {
		return true
	}
	return contentType == "" && strings.HasSuffix(strings.ToLower(trimQuery(url)), ".mp4")
}

func trimQuery(url string) string {
	if idx := strings.IndexAny(url, "?#"); idx >= 0 {
		return url[:idx]
	}
	return url
}
