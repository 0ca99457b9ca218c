package entity

import "regexp"

type SourceType string

const (
	SourceTypeYouTube SourceType = "youtube"
	SourceTypeUpload  SourceType = "upload"
)

// The patterns cover watch URLs, short links, embeds, shorts and live links.
// IDs are matched loosely; YouTube owns the canonical format.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?(?:.*&)?v=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/live/([A-Za-z0-9_-]+)`),
}

// ExtractVideoID returns the YouTube video identifier embedded in url, if any.
func ExtractVideoID(url string) (string, bool) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// DetermineSourceType classifies a source reference: youtube iff a video
// identifier can be extracted from it, upload otherwise.
func DetermineSourceType(url string) SourceType {
	if _, ok := ExtractVideoID(url); ok {
		return SourceTypeYouTube
	}
	return SourceTypeUpload
}

// ParseSourceType maps the wire value to a SourceType, falling back to
// classification by URL when the field is empty or unknown.
func ParseSourceType(raw, url string) SourceType {
	switch SourceType(raw) {
	case SourceTypeYouTube, SourceTypeUpload:
		return SourceType(raw)
	default:
		return DetermineSourceType(url)
	}
}
