package engine

// Word is a single recognized token with its confidence on a 0-100 scale.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Metadata carries per-call recognition statistics.
type Metadata struct {
	ImageByteSize     int     `json:"imageByteSize"`
	WordCount         int     `json:"wordCount"`
	AverageConfidence float64 `json:"averageConfidence"`
}

// Result is the outcome of one ExtractText call. Text holds the
// confidence-filtered join of retained words; RawText preserves the
// engine output with its original line structure, which downstream
// field extraction depends on. Results are immutable after creation
// and owned by the calling request.
type Result struct {
	Success    bool     `json:"success"`
	Text       string   `json:"text"`
	RawText    string   `json:"rawText,omitempty"`
	Confidence float64  `json:"confidence"`
	Words      []Word   `json:"words,omitempty"`
	Language   string   `json:"language,omitempty"`
	Error      string   `json:"error,omitempty"`
	Metadata   Metadata `json:"metadata"`
}

// failure builds the uniform failed-recognition result. Engine-level
// errors are reported through this value rather than a Go error so a
// single bad image can never take down a whole request.
func failure(language string, err error) *Result {
	return &Result{
		Success:  false,
		Text:     "",
		Language: language,
		Error:    err.Error(),
	}
}
