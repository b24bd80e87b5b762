package cmis

import "io"

// ContentStream is a document content stream. Length is advisory; a
// repository may not know it up front. Stream is consumed once by the caller.
type ContentStream struct {
	FileName string    `json:"file_name"`
	MimeType string    `json:"mime_type"`
	Length   *int64    `json:"length,omitempty"`
	Stream   io.Reader `json:"-"`
}
