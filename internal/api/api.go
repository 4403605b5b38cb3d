// Package api defines the JSON request/response types of the HTTP surface.
package api

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OCRLineResponse is one recognized text row.
type OCRLineResponse struct {
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence"`
}

// ScanResponse is the result of scanning one uploaded image.
type ScanResponse struct {
	File         string            `json:"file"`
	AnnotatedURL string            `json:"annotated_url"`
	Results      []OCRLineResponse `json:"results"`
}
