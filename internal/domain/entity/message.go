package entity

import "github.com/google/uuid"

// ClipRequestMessage is the inbound payload from the clips.process queue.
type ClipRequestMessage struct {
	TaskID      uuid.UUID `json:"task_id"`
	URL         string    `json:"url"`
	SourceType  string    `json:"source_type"`
	FontFamily  string    `json:"font_family"`
	FontSize    int       `json:"font_size"`
	FontColor   string    `json:"font_color"`
	NotifyEmail string    `json:"notify_email,omitempty"`
}

// RenderOptions returns the styling carried by the message, with defaults
// filled in for fields the client left empty.
func (m ClipRequestMessage) RenderOptions() RenderOptions {
	opts := DefaultRenderOptions()
	if m.FontFamily != "" {
		opts.FontFamily = m.FontFamily
	}
	if m.FontSize > 0 {
		opts.FontSize = m.FontSize
	}
	if m.FontColor != "" {
		opts.FontColor = m.FontColor
	}
	return opts
}
