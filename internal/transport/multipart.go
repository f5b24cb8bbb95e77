package transport

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// MultipartForm describes a document upload: plain fields plus file parts.
type MultipartForm struct {
	Fields map[string]string
	Files  []FilePart
}

// FilePart is one file attached to a multipart form.
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

// encode renders the form and returns the body together with the content type
// carrying the multipart boundary.
func (f *MultipartForm) encode() ([]byte, string, error) {
	if f == nil || len(f.Files) == 0 {
		return nil, "", fmt.Errorf("at least one file is required")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range f.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.Files {
		if file.Field == "" || file.Filename == "" {
			return nil, "", fmt.Errorf("file part needs a field name and a filename")
		}
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
