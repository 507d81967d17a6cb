package dto

// FileInfo describes the uploaded file the text was extracted from.
type FileInfo struct {
	URL      string `json:"url" validate:"omitempty,url"`
	Name     string `json:"name" validate:"required"`
	MimeType string `json:"mimeType"`
}

// IngestRequest is the body of POST /api/ingest
// @Description Syllabus text to chunk, embed and store
type IngestRequest struct {
	Subject string    `json:"subject" validate:"required"`
	Year    int       `json:"year" validate:"required,min=1,max=6"`
	Source  string    `json:"source" validate:"required"`
	Text    string    `json:"text" validate:"required,mintrim=10"`
	File    *FileInfo `json:"file,omitempty"`
}

// ChunkError records why one chunk could not be stored.
type ChunkError struct {
	ChunkIndex int    `json:"chunkIndex"`
	Message    string `json:"message"`
}

// IngestResponse reports a (possibly partial) ingestion
type IngestResponse struct {
	InsertedCount int          `json:"insertedCount"`
	ChunkCount    int          `json:"chunkCount"`
	Errors        []ChunkError `json:"errors"`
}
