package twitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xscraper/pkg/errors"
)

func TestParsePostURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantHandle string
		wantID     string
	}{
		{
			name:       "x.com post",
			url:        "https://x.com/someuser/status/1956686646272790863",
			wantHandle: "someuser",
			wantID:     "1956686646272790863",
		},
		{
			name:       "twitter.com post",
			url:        "https://twitter.com/someuser/status/1956686646272790863",
			wantHandle: "someuser",
			wantID:     "1956686646272790863",
		},
		{
			name:       "www subdomain",
			url:        "https://www.x.com/someuser/status/123456",
			wantHandle: "someuser",
			wantID:     "123456",
		},
		{
			name:       "mobile subdomain",
			url:        "https://mobile.twitter.com/someuser/status/123456",
			wantHandle: "someuser",
			wantID:     "123456",
		},
		{
			name:       "query parameters ignored",
			url:        "https://x.com/someuser/status/123456?s=20&t=abcdef",
			wantHandle: "someuser",
			wantID:     "123456",
		},
		{
			name:       "trailing path segments ignored",
			url:        "https://x.com/someuser/status/123456/photo/1",
			wantHandle: "someuser",
			wantID:     "123456",
		},
		{
			name:       "i/web form",
			url:        "https://x.com/i/web/status/123456",
			wantHandle: "i",
			wantID:     "123456",
		},
		{
			name:       "surrounding whitespace trimmed",
			url:        "  https://x.com/someuser/status/123456  ",
			wantHandle: "someuser",
			wantID:     "123456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParsePostURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHandle, ref.Handle)
			assert.Equal(t, tt.wantID, ref.ID)
		})
	}
}

func TestParsePostURLRejects(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "empty string", url: ""},
		{name: "not a URL", url: "not a url at all"},
		{name: "wrong domain", url: "https://example.com/someuser/status/123456"},
		{name: "instagram URL", url: "https://instagram.com/p/abc123/"},
		{name: "no status segment", url: "https://x.com/someuser"},
		{name: "status without ID", url: "https://x.com/someuser/status"},
		{name: "non-numeric ID", url: "https://x.com/someuser/status/abc123"},
		{name: "ftp scheme", url: "ftp://x.com/someuser/status/123456"},
		{name: "profile page", url: "https://x.com/someuser/likes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePostURL(tt.url)
			require.Error(t, err)

			var perr *errors.Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, errors.ErrorTypeInvalidURL, perr.Type)
		})
	}
}

func TestPostRefURLs(t *testing.T) {
	ref := PostRef{Handle: "someuser", ID: "1956686646272790863"}

	assert.Equal(t, "https://x.com/someuser/status/1956686646272790863", ref.PageURL())
	assert.Equal(t,
		"https://cdn.syndication.twimg.com/tweet-result?id=1956686646272790863&token=0",
		ref.SyndicationURL())
	assert.Equal(t, []string{
		"https://api.fxtwitter.com/status/1956686646272790863",
		"https://api.vxtwitter.com/status/1956686646272790863",
	}, ref.MirrorURLs())
}

func TestOriginalImageURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "format query upgraded to name=orig",
			in:   "https://pbs.twimg.com/media/Gmabcdef?format=jpg&name=small",
			want: "https://pbs.twimg.com/media/Gmabcdef?format=jpg&name=orig",
		},
		{
			name: "bare path gets :orig suffix",
			in:   "https://pbs.twimg.com/media/Gmabcdef.jpg",
			want: "https://pbs.twimg.com/media/Gmabcdef.jpg:orig",
		},
		{
			name: "already suffixed left alone",
			in:   "https://pbs.twimg.com/media/Gmabcdef.jpg:orig",
			want: "https://pbs.twimg.com/media/Gmabcdef.jpg:orig",
		},
		{
			name: "non-twimg URL passes through",
			in:   "https://example.com/photo.jpg",
			want: "https://example.com/photo.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OriginalImageURL(tt.in))
		})
	}
}

func TestImageExt(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "jpg path", url: "https://pbs.twimg.com/media/abc.jpg", want: "jpg"},
		{name: "png path", url: "https://pbs.twimg.com/media/abc.png", want: "png"},
		{name: "webp path", url: "https://pbs.twimg.com/media/abc.webp", want: "webp"},
		{name: "orig suffix stripped", url: "https://pbs.twimg.com/media/abc.png:orig", want: "png"},
		{name: "format query", url: "https://pbs.twimg.com/media/abc?format=png&name=orig", want: "png"},
		{name: "no extension defaults to jpg", url: "https://pbs.twimg.com/media/abc", want: "jpg"},
		{name: "unknown extension defaults to jpg", url: "https://pbs.twimg.com/media/abc.tiff", want: "jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImageExt(tt.url))
		})
	}
}
