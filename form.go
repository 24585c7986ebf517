package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Largest value kept for a single text field; validation rejects long ones.
const maxFieldSize = 64 << 10

const attachmentReadText = "Could not read the attached file."

var errUnreadableAttachment = errors.New("unreadable attachment")

// readContactForm streams the contact form body. The form puts the text
// fields before the file, so they are kept even when the file is oversized
// or the body is cut off at the size cap. An oversized file comes back with
// its size and no data.
func readContactForm(c *gin.Context) (contactRequest, *Attachment, error) {
	var req contactRequest

	mr, err := c.Request.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		if err := c.Request.ParseForm(); err != nil {
			return req, nil, err
		}
		req.Name = c.Request.PostForm.Get("name")
		req.Email = c.Request.PostForm.Get("email")
		req.Message = c.Request.PostForm.Get("message")
		return req, nil, nil
	}
	if err != nil {
		return req, nil, err
	}

	var att *Attachment
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return req, att, nil
		}
		if err != nil {
			if att != nil && att.Size > MaxAttachmentSize {
				return req, att, nil
			}
			return req, att, err
		}

		switch part.FormName() {
		case "name", "email", "message":
			v, err := io.ReadAll(io.LimitReader(part, maxFieldSize))
			if err != nil {
				return req, att, err
			}
			setField(&req, part.FormName(), string(v))
		case "file":
			if part.FileName() == "" {
				// empty file input
				io.Copy(io.Discard, part)
				continue
			}
			a, err := readAttachment(part.FileName(), part.Header.Get("Content-Type"), part)
			att = a
			if err != nil {
				if a.Size > MaxAttachmentSize && isBodyTooLarge(err) {
					return req, att, nil
				}
				return req, nil, fmt.Errorf("%w %q: %v", errUnreadableAttachment, part.FileName(), err)
			}
		default:
			io.Copy(io.Discard, part)
		}
	}
}

func setField(req *contactRequest, name, value string) {
	switch name {
	case "name":
		req.Name = value
	case "email":
		req.Email = value
	case "message":
		req.Message = value
	}
}
