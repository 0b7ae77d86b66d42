package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xscraper/pkg/models"
)

func TestSyndicationMediaDetails(t *testing.T) {
	content := []byte(`{
		"id_str": "123",
		"user": {"screen_name": "someuser"},
		"mediaDetails": [
			{
				"type": "photo",
				"media_url_https": "https://pbs.twimg.com/media/first.jpg",
				"sizes": {"large": {"w": 2048, "h": 1536}}
			},
			{
				"type": "video",
				"video_info": {"variants": [
					{"content_type": "application/x-mpegURL", "url": "https://video.twimg.com/pl/playlist.m3u8"},
					{"bitrate": 320000, "content_type": "video/mp4", "url": "https://video.twimg.com/low.mp4"},
					{"bitrate": 2176000, "content_type": "video/mp4", "url": "https://video.twimg.com/high.mp4"}
				]},
				"sizes": {"large": {"w": 1280, "h": 720}}
			},
			{
				"type": "animated_gif",
				"video_info": {"variants": [
					{"bitrate": 0, "content_type": "video/mp4", "url": "https://video.twimg.com/tweet_video/anim.mp4"}
				]},
				"sizes": {"large": {"w": 480, "h": 270}}
			}
		]
	}`)

	s := &SyndicationStrategy{}
	entries, err := s.TryExtract(content)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Photo gets its original-quality URL and large dimensions
	photo := entries[0]
	assert.Equal(t, models.KindPhoto, photo.Kind)
	require.Len(t, photo.Variants, 1)
	assert.Equal(t, "https://pbs.twimg.com/media/first.jpg:orig", photo.Variants[0].URL)
	assert.Equal(t, 2048, photo.Variants[0].Width)

	// HLS playlist is dropped; only the MP4 renditions survive
	video := entries[1]
	assert.Equal(t, models.KindVideo, video.Kind)
	require.Len(t, video.Variants, 2)
	best, ok := video.BestVariant()
	require.True(t, ok)
	assert.Equal(t, "https://video.twimg.com/high.mp4", best.URL)

	// Animated GIFs classify as gif but keep MP4 sources
	gif := entries[2]
	assert.Equal(t, models.KindGIF, gif.Kind)
	require.Len(t, gif.Variants, 1)
	assert.Equal(t, "https://video.twimg.com/tweet_video/anim.mp4", gif.Variants[0].URL)

	// Indices match the post's media order
	for i, e := range entries {
		assert.Equal(t, i, e.Index)
	}
}

func TestSyndicationExtendedEntitiesFallback(t *testing.T) {
	content := []byte(`{
		"id_str": "123",
		"user": {"screen_name": "someuser"},
		"extended_entities": {"media": [
			{
				"type": "photo",
				"media_url_https": "https://pbs.twimg.com/media/legacy.jpg",
				"sizes": {"large": {"w": 800, "h": 600}}
			}
		]}
	}`)

	s := &SyndicationStrategy{}
	entries, err := s.TryExtract(content)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.KindPhoto, entries[0].Kind)
}

func TestSyndicationWidgetFields(t *testing.T) {
	content := []byte(`{
		"id_str": "123",
		"user": {"screen_name": "someuser"},
		"photos": [
			{"url": "https://pbs.twimg.com/media/widget.jpg", "width": 1200, "height": 900}
		],
		"video": {
			"variants": [
				{"type": "application/x-mpegURL", "src": "https://video.twimg.com/pl.m3u8"},
				{"type": "video/mp4", "src": "https://video.twimg.com/widget.mp4"}
			]
		}
	}`)

	s := &SyndicationStrategy{}
	entries, err := s.TryExtract(content)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, models.KindPhoto, entries[0].Kind)
	assert.Equal(t, models.KindVideo, entries[1].Kind)
	require.Len(t, entries[1].Variants, 1)
	assert.Equal(t, "https://video.twimg.com/widget.mp4", entries[1].Variants[0].URL)
}

func TestSyndicationQuotedTweetSkipped(t *testing.T) {
	content := []byte(`{
		"id_str": "123",
		"user": {"screen_name": "someuser"},
		"text": "quoting another post",
		"quoted_tweet": {
			"id_str": "456",
			"user": {"screen_name": "other"},
			"mediaDetails": [
				{
					"type": "photo",
					"media_url_https": "https://pbs.twimg.com/media/quoted.jpg",
					"sizes": {"large": {"w": 800, "h": 600}}
				}
			]
		}
	}`)

	s := &SyndicationStrategy{}
	entries, err := s.TryExtract(content)
	require.NoError(t, err)
	assert.Empty(t, entries, "quoted post media belongs to another post")
}

func TestSyndicationRejectsForeignJSON(t *testing.T) {
	s := &SyndicationStrategy{}

	_, err := s.TryExtract([]byte(`{"unrelated": true, "payload": [1, 2, 3]}`))
	assert.Error(t, err)

	_, err = s.TryExtract([]byte(`<html>not json</html>`))
	assert.Error(t, err)
}

func TestSyndicationTextOnlyTweet(t *testing.T) {
	s := &SyndicationStrategy{}

	entries, err := s.TryExtract([]byte(`{
		"id_str": "123",
		"text": "no attachments here",
		"user": {"screen_name": "someuser"}
	}`))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIsMP4(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		url         string
		want        bool
	}{
		{name: "mp4 content type", contentType: "video/mp4", url: "https://v/clip.mp4", want: true},
		{name: "hls playlist", contentType: "application/x-mpegURL", url: "https://v/pl.m3u8", want: false},
		{name: "no content type, mp4 path", contentType: "", url: "https://v/clip.mp4", want: true},
		{name: "no content type, mp4 path with query", contentType: "", url: "https://v/clip.mp4?tag=1", want: true},
		{name: "no content type, m3u8 path", contentType: "", url: "https://v/pl.m3u8", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isMP4(tt.contentType, tt.url))
		})
	}
}
