package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"xscraper/pkg/models"
	"xscraper/pkg/twitter"
)

// Inline JSON patterns observed in script tags on post pages. The URLs sit
// inside JSON string literals and may carry backslash escapes.
var (
	inlineVideoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`"video_url":"([^"]*\.mp4[^"]*)"`),
		regexp.MustCompile(`"playback_url":"([^"]*\.mp4[^"]*)"`),
		regexp.MustCompile(`"content_url":"([^"]*\.mp4[^"]*)"`),
	}
	inlineImagePattern = regexp.MustCompile(`"media_url_https":"([^"]*\.(?:jpg|jpeg|png|webp)[^"]*)"`)
)

// InlineJSONStrategy scans HTML for media URLs embedded in script-tag JSON
// blobs. It carries no quality metadata, so video entries end up with a
// single variant each.
type InlineJSONStrategy struct{}

func (s *InlineJSONStrategy) Name() string { return "inline_json" }

func (s *InlineJSONStrategy) TryExtract(content []byte) ([]models.MediaEntry, error) {
	text, err := plausibleText(content)
	if err != nil {
		return nil, err
	}
	if isTweetJSON(content) {
		return nil, fmt.Errorf("content is a syndication payload, not a page")
	}

	seen := make(map[string]bool)
	var entries []models.MediaEntry

	for _, pattern := range inlineVideoPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			url := unescapeJSONString(match[1])
			if !strings.HasPrefix(url, "http") || seen[url] {
				continue
			}
			seen[url] = true
			entries = append(entries, models.MediaEntry{
				Index:    len(entries),
				Kind:     models.KindVideo,
				Variants: []models.Variant{{URL: url, ContentType: "video/mp4"}},
			})
		}
	}

	for _, match := range inlineImagePattern.FindAllStringSubmatch(text, -1) {
		url := unescapeJSONString(match[1])
		if !strings.HasPrefix(url, "http") || seen[url] {
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

// plausibleText rejects content that cannot be markup or structured text,
// so binary payloads surface as a parse failure instead of "no media".
func plausibleText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty content")
	}
	if !utf8.Valid(content) {
		return "", fmt.Errorf("content is not valid UTF-8 text")
	}
	for _, b := range content {
		if b == 0 {
			return "", fmt.Errorf("content contains NUL bytes")
		}
	}
	return string(content), nil
}

// unescapeJSONString resolves backslash escapes in a JSON string fragment,
// returning the raw text when it does not round-trip cleanly.
func unescapeJSONString(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	unquoted, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return strings.ReplaceAll(s, `\/`, `/`)
	}
	return unquoted
}
