package entity

// Segment is one AI-selected span of the source video. Immutable once
// produced by analysis.
type Segment struct {
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	Text           string  `json:"text"`
	RelevanceScore float64 `json:"relevance_score"`
	Reasoning      string  `json:"reasoning"`
}

// Analysis is the output of the transcript-analysis collaborator: segments
// ranked by relevance, plus a summary and key topics.
type Analysis struct {
	Segments  []Segment `json:"segments"`
	Summary   string    `json:"summary"`
	KeyTopics []string  `json:"key_topics"`
}

// ClipResult describes one rendered clip.
type ClipResult struct {
	OutputPath string  `json:"output_path"`
	ObjectKey  string  `json:"object_key,omitempty"`
	Segment    Segment `json:"segment"`
}

// PipelineResult aggregates everything a successful run produced. Failed runs
// return no partial result.
type PipelineResult struct {
	Title     string       `json:"title"`
	Segments  []Segment    `json:"segments"`
	Clips     []ClipResult `json:"clips"`
	Summary   string       `json:"summary,omitempty"`
	KeyTopics []string     `json:"key_topics,omitempty"`
}
