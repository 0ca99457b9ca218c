package usecase

// One failure type per pipeline stage so callers can tell stages apart
// without parsing messages. The cause is preserved via Unwrap.

type AcquisitionError struct{ Err error }

func (e *AcquisitionError) Error() string { return "acquire video: " + e.Err.Error() }
func (e *AcquisitionError) Unwrap() error { return e.Err }

type TranscriptionError struct{ Err error }

func (e *TranscriptionError) Error() string { return "generate transcript: " + e.Err.Error() }
func (e *TranscriptionError) Unwrap() error { return e.Err }

type AnalysisError struct{ Err error }

func (e *AnalysisError) Error() string { return "analyze transcript: " + e.Err.Error() }
func (e *AnalysisError) Unwrap() error { return e.Err }

type RenderError struct{ Err error }

func (e *RenderError) Error() string { return "render clips: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }
