package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"xscraper/pkg/models"
	"xscraper/pkg/twitter"
)

// MirrorJSONStrategy parses the JSON served by the fxtwitter and
// vxtwitter mirror APIs. Mirror payloads carry no bitrate metadata, so
// each video entry ends up with a single variant.
type MirrorJSONStrategy struct{}

func (s *MirrorJSONStrategy) Name() string { return "mirror_json" }

func (s *MirrorJSONStrategy) TryExtract(content []byte) ([]models.MediaEntry, error) {
	var resp twitter.MirrorResponse
	if err := json.Unmarshal(content, &resp); err != nil {
		return nil, fmt.Errorf("not mirror JSON: %w", err)
	}

	tweet := &resp.MirrorTweet
	if resp.Tweet != nil {
		tweet = resp.Tweet
	}

	// Without the fxtwitter wrapper or a media field this could be any
	// JSON document; reject it so later strategies get a chance.
	if resp.Tweet == nil && tweet.Media == nil && len(tweet.MediaExtended) == 0 {
		return nil, fmt.Errorf("JSON payload has no mirror tweet fields")
	}

	var entries []models.MediaEntry

	if tweet.Media != nil {
		for _, p := range tweet.Media.Photos {
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
		for _, v := range tweet.Media.Videos {
			if v.URL == "" || !isMP4(v.Format, v.URL) {
				continue
			}
			entries = append(entries, models.MediaEntry{
				Index: len(entries),
				Kind:  mirrorVideoKind(v.Type),
				Variants: []models.Variant{{
					URL:         v.URL,
					ContentType: v.Format,
					Width:       v.Width,
					Height:      v.Height,
				}},
			})
		}
	}

	for _, m := range tweet.MediaExtended {
		if m.URL == "" {
			continue
		}
		switch strings.ToLower(m.Type) {
		case "image":
			entries = append(entries, models.MediaEntry{
				Index: len(entries),
				Kind:  models.KindPhoto,
				Variants: []models.Variant{{
					URL:    twitter.OriginalImageURL(m.URL),
					Width:  m.Size.Width,
					Height: m.Size.Height,
				}},
			})
		case "video", "gif":
			if !isMP4("", m.URL) {
				continue
			}
			entries = append(entries, models.MediaEntry{
				Index: len(entries),
				Kind:  mirrorVideoKind(m.Type),
				Variants: []models.Variant{{
					URL:    m.URL,
					Width:  m.Size.Width,
					Height: m.Size.Height,
				}},
			})
		}
	}

	return entries, nil
}

func mirrorVideoKind(mirrorType string) models.MediaKind {
	if strings.EqualFold(mirrorType, "gif") {
		return models.KindGIF
	}
	return models.KindVideo
}
