package main

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// MaxAttachmentSize is the largest file the contact form forwards (5 MB).
const MaxAttachmentSize = 5 * 1024 * 1024

// Attachment is a file picked in the contact form.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// HumanSize formats the size for display, e.g. "1.2 MiB".
func (a *Attachment) HumanSize() string {
	return humanize.IBytes(uint64(a.Size))
}

// readAttachment reads an uploaded file. Past MaxAttachmentSize the rest is
// drained and dropped: the attachment keeps its full size but no data.
func readAttachment(filename, contentType string, r io.Reader) (*Attachment, error) {
	att := &Attachment{Filename: filename, ContentType: contentType}

	data, err := io.ReadAll(io.LimitReader(r, MaxAttachmentSize+1))
	att.Size = int64(len(data))
	if err != nil {
		return att, err
	}
	if att.Size > MaxAttachmentSize {
		n, err := io.Copy(io.Discard, r)
		att.Size += n
		return att, err
	}

	att.Data = data
	if att.ContentType == "" || att.ContentType == "application/octet-stream" {
		att.ContentType = mimetype.Detect(data).String()
	}
	return att, nil
}
