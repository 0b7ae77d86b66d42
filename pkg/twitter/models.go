package twitter

// SyndicationTweet is the subset of the public syndication JSON the
// extractor cares about. The endpoint exposes media through several
// overlapping fields; mediaDetails is the richest and is preferred.
type SyndicationTweet struct {
	ID   string `json:"id_str"`
	Text string `json:"text"`
	User struct {
		ScreenName string `json:"screen_name"`
	} `json:"user"`
	Photos       []SyndicationPhoto `json:"photos"`
	Video        *SyndicationVideo  `json:"video"`
	MediaDetails []MediaDetail      `json:"mediaDetails"`
	// ExtendedEntities is the legacy media container, still populated by
	// some payload generations.
	ExtendedEntities struct {
		Media []MediaDetail `json:"media"`
	} `json:"extended_entities"`
	QuotedTweet *SyndicationTweet `json:"quoted_tweet"`
}

// SyndicationPhoto is a static image attachment
type SyndicationPhoto struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SyndicationVideo is the widget-level video field; variants here carry no
// bitrate, only a content type and source URL.
type SyndicationVideo struct {
	Variants []struct {
		Type string `json:"type"`
		Src  string `json:"src"`
	} `json:"variants"`
	DurationMs int `json:"durationMs"`
}

// MediaDetail describes one media entity with full quality metadata
type MediaDetail struct {
	Type          string `json:"type"` // photo, video, animated_gif
	MediaURLHTTPS string `json:"media_url_https"`
	VideoInfo     struct {
		DurationMillis int            `json:"duration_millis"`
		Variants       []VideoVariant `json:"variants"`
	} `json:"video_info"`
	Sizes struct {
		Large struct {
			W int `json:"w"`
			H int `json:"h"`
		} `json:"large"`
	} `json:"sizes"`
}

// VideoVariant is one encoded rendition of a video or animated GIF
type VideoVariant struct {
	Bitrate     int    `json:"bitrate"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

// MirrorResponse is the payload served by the third-party mirror APIs.
// fxtwitter nests the tweet under a "tweet" wrapper; vxtwitter returns
// the tweet fields at the top level.
type MirrorResponse struct {
	Tweet *MirrorTweet `json:"tweet"`
	MirrorTweet
}

// MirrorTweet holds the media fields of a mirror payload. fxtwitter
// groups media by kind under "media"; vxtwitter uses a flat
// "media_extended" list.
type MirrorTweet struct {
	Media         *MirrorMediaGroup `json:"media"`
	MediaExtended []MirrorMediaItem `json:"media_extended"`
}

// MirrorMediaGroup is fxtwitter's per-kind media container
type MirrorMediaGroup struct {
	Photos []MirrorPhoto `json:"photos"`
	Videos []MirrorVideo `json:"videos"`
}

// MirrorPhoto is a static image attachment in a mirror payload
type MirrorPhoto struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MirrorVideo covers fxtwitter videos and GIFs; Type distinguishes them
type MirrorVideo struct {
	URL    string `json:"url"`
	Type   string `json:"type"`   // video, gif
	Format string `json:"format"` // MIME type, e.g. video/mp4
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MirrorMediaItem is one element of vxtwitter's media_extended list
type MirrorMediaItem struct {
	Type string `json:"type"` // image, video, gif
	URL  string `json:"url"`
	Size struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"size"`
}
