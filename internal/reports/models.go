package reports

import (
	"time"

	"github.com/google/uuid"
)

const ContentTypePDF = "application/pdf"

// Document is a rendered report ready to stream.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ArchivedReport is returned by POST /v1/clients/{id}/report/archive
type ArchivedReport struct {
	ClientID    uuid.UUID `json:"client_id"`
	Key         string    `json:"key"`
	Filename    string    `json:"filename"`
	DownloadURL string    `json:"download_url"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}
