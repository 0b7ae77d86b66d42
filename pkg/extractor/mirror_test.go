package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xscraper/pkg/models"
)

func TestMirrorJSONFxTwitterShape(t *testing.T) {
	content := []byte(`{
		"code": 200,
		"tweet": {
			"id": "123",
			"media": {
				"photos": [
					{"url": "https://pbs.twimg.com/media/abc.jpg", "width": 1024, "height": 768}
				],
				"videos": [
					{"url": "https://video.twimg.com/ext_tw_video/123/clip.mp4", "type": "video", "format": "video/mp4", "width": 1280, "height": 720},
					{"url": "https://video.twimg.com/tweet_video/loop.mp4", "type": "gif", "format": "video/mp4"}
				]
			}
		}
	}`)

	s := &MirrorJSONStrategy{}
	entries, err := s.TryExtract(content)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, models.KindPhoto, entries[0].Kind)
	assert.Equal(t, "https://pbs.twimg.com/media/abc.jpg:orig", entries[0].Variants[0].URL)
	assert.Equal(t, 1024, entries[0].Variants[0].Width)

	assert.Equal(t, models.KindVideo, entries[1].Kind)
	assert.Equal(t, 1280, entries[1].Variants[0].Width)

	assert.Equal(t, models.KindGIF, entries[2].Kind)
}

func TestMirrorJSONVxTwitterShape(t *testing.T) {
	content := []byte(`{
		"tweetID": "123",
		"media_extended": [
			{"type": "image", "url": "https://pbs.twimg.com/media/abc.jpg", "size": {"width": 800, "height": 600}},
			{"type": "video", "url": "https://video.twimg.com/ext_tw_video/123/clip.mp4", "size": {"width": 1280, "height": 720}},
			{"type": "gif", "url": "https://video.twimg.com/tweet_video/loop.mp4"}
		]
	}`)

	s := &MirrorJSONStrategy{}
	entries, err := s.TryExtract(content)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, models.KindPhoto, entries[0].Kind)
	assert.Equal(t, "https://pbs.twimg.com/media/abc.jpg:orig", entries[0].Variants[0].URL)
	assert.Equal(t, models.KindVideo, entries[1].Kind)
	assert.Equal(t, models.KindGIF, entries[2].Kind)
}

func TestMirrorJSONTextOnlyTweet(t *testing.T) {
	// The fxtwitter wrapper marks the payload as a mirror response even
	// when the tweet carries no media.
	content := []byte(`{"code": 200, "tweet": {"id": "123", "text": "words only"}}`)

	s := &MirrorJSONStrategy{}
	entries, err := s.TryExtract(content)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMirrorJSONRejectsForeignContent(t *testing.T) {
	s := &MirrorJSONStrategy{}

	_, err := s.TryExtract([]byte(`{"unrelated": true}`))
	require.Error(t, err)

	_, err = s.TryExtract([]byte(`{"id_str":"123","user":{"screen_name":"someuser"}}`))
	require.Error(t, err)

	_, err = s.TryExtract([]byte(`<html><body>not JSON</body></html>`))
	require.Error(t, err)
}

func TestMirrorJSONSkipsPlaylists(t *testing.T) {
	content := []byte(`{
		"tweet": {
			"media": {
				"videos": [
					{"url": "https://video.twimg.com/pl/playlist.m3u8", "type": "video", "format": "application/x-mpegURL"}
				]
			}
		}
	}`)

	s := &MirrorJSONStrategy{}
	entries, err := s.TryExtract(content)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
