package models

// MediaKind classifies a media entry found in a post
type MediaKind string

const (
	KindPhoto MediaKind = "photo"
	KindVideo MediaKind = "video"
	// KindGIF covers animated GIFs, which Twitter serves as MP4 containers
	KindGIF MediaKind = "gif"
)

// Ext returns the file extension used when saving this kind of media.
// Photos carry their own extension on the Variant; this is the fallback.
func (k MediaKind) Ext() string {
	if k == KindPhoto {
		return "jpg"
	}
	return "mp4"
}

// Variant is one quality/encoding option for a media entry
type Variant struct {
	URL         string
	ContentType string
	Bitrate     int
	Width       int
	Height      int
}

// MediaEntry is one piece of media found in a post
type MediaEntry struct {
	// Index is the entry's stable position within the post
	Index    int
	Kind     MediaKind
	Variants []Variant
}

// BestVariant selects the variant to download. Highest bitrate wins; when
// bitrate is absent or tied, the greatest width*height wins; a full tie
// keeps the first-listed variant. The choice is deterministic for a given
// variant list.
func (e *MediaEntry) BestVariant() (Variant, bool) {
	if len(e.Variants) == 0 {
		return Variant{}, false
	}
	best := e.Variants[0]
	for _, v := range e.Variants[1:] {
		if v.Bitrate > best.Bitrate {
			best = v
			continue
		}
		if v.Bitrate == best.Bitrate && v.Width*v.Height > best.Width*best.Height {
			best = v
		}
	}
	return best, true
}

// DownloadResult is the outcome of saving one MediaEntry
type DownloadResult struct {
	Entry MediaEntry
	// Path is the local file path, empty on failure
	Path string
	Size int64
	Err  error
}

// Success reports whether the entry was written to disk
func (r DownloadResult) Success() bool {
	return r.Err == nil
}
