package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"xscraper/pkg/models"
	"xscraper/pkg/twitter"
)

// Raw attribute patterns, the last resort when no structured data is
// present in the page.
var (
	attrVideoPattern = regexp.MustCompile(`(?:src|href)="(https?://[^"]*\.mp4[^"]*)"`)
	attrImagePattern = regexp.MustCompile(`(?:src|href)="(https?://[^"]*\.(?:jpg|jpeg|png|webp)[^"]*)"`)
)

// HTMLAttrStrategy scans src and href attributes for direct media URLs.
type HTMLAttrStrategy struct{}

func (s *HTMLAttrStrategy) Name() string { return "html_attr" }

func (s *HTMLAttrStrategy) TryExtract(content []byte) ([]models.MediaEntry, error) {
	text, err := plausibleText(content)
	if err != nil {
		return nil, err
	}
	if isTweetJSON(content) {
		return nil, fmt.Errorf("content is a syndication payload, not a page")
	}

	seen := make(map[string]bool)
	var entries []models.MediaEntry

	for _, match := range attrVideoPattern.FindAllStringSubmatch(text, -1) {
		url := match[1]
		if seen[url] {
			continue
		}
		seen[url] = true
		entries = append(entries, models.MediaEntry{
			Index:    len(entries),
			Kind:     models.KindVideo,
			Variants: []models.Variant{{URL: url, ContentType: "video/mp4"}},
		})
	}

	for _, match := range attrImagePattern.FindAllStringSubmatch(text, -1) {
		url := match[1]
		// Only media-host images; avatars, emoji and card thumbnails also
		// appear in src attributes.
		if seen[url] || !strings.Contains(url, "pbs.twimg.com/media/") {
			continue
		}
		seen[url] = true
		entries = append(entries, models.MediaEntry{
			Index: len(entries),
			Kind:  models.KindPhoto,
			Variants: []models.Variant{{
				URL: twitter.OriginalImageURL(url),
			}},
		})
	}

	return entries, nil
}
