package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch url with params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/abc123", "abc123", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts", "https://youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"live", "https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"local path", "/tmp/video.mp4", "", false},
		{"unrelated url", "https://vimeo.com/12345", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestDetermineSourceType(t *testing.T) {
	assert.Equal(t, SourceTypeYouTube, DetermineSourceType("https://youtu.be/abc123"))
	assert.Equal(t, SourceTypeUpload, DetermineSourceType("/tmp/video.mp4"))
}

func TestParseSourceType(t *testing.T) {
	assert.Equal(t, SourceTypeUpload, ParseSourceType("upload", "https://youtu.be/abc123"))
	assert.Equal(t, SourceTypeYouTube, ParseSourceType("youtube", "/tmp/video.mp4"))
	// Unknown wire values fall back to URL classification.
	assert.Equal(t, SourceTypeYouTube, ParseSourceType("", "https://youtu.be/abc123"))
	assert.Equal(t, SourceTypeUpload, ParseSourceType("bogus", "/tmp/video.mp4"))
}
