package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

const maxResponseBody = 1 << 20

// EmailClient posts contact submissions to the remote email service as
// multipart form data.
type EmailClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewEmailClient(endpoint string, timeout time.Duration) *EmailClient {
	return &EmailClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type emailServiceResponse struct {
	Error string `json:"error"`
}

func (c *EmailClient) Send(ctx context.Context, form FormState) error {
	body, contentType, err := encodeContactPayload(form)
	if err != nil {
		return &TransportError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return &TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "post", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &TransportError{Op: "read", Err: err}
	}

	var payload emailServiceResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return &TransportError{Op: "decode", Err: fmt.Errorf("status %d: %w", resp.StatusCode, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := payload.Error
		if msg == "" {
			msg = genericRejection
		}
		return &ServerRejection{Status: resp.StatusCode, Message: msg}
	}
	return nil
}

func encodeContactPayload(form FormState) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := []struct{ name, value string }{
		{"name", form.Name},
		{"email", form.Email},
		{"message", form.Message},
	}
	for _, field := range fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}

	if form.File != nil {
		contentType := form.File.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
			"name":     "file",
			"filename": form.File.Filename,
		}))
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(form.File.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}
