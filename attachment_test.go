package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestReadAttachment(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	att, err := readAttachment("pic.png", "", bytes.NewReader(png))
	if err != nil {
		t.Fatal(err)
	}
	if att.ContentType != "image/png" {
		t.Errorf("sniffed type = %q, want image/png", att.ContentType)
	}
	if att.Size != int64(len(png)) || !bytes.Equal(att.Data, png) {
		t.Errorf("size = %d, data = %q", att.Size, att.Data)
	}

	att, err = readAttachment("doc.pdf", "application/pdf", strings.NewReader("not really a pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if att.ContentType != "application/pdf" {
		t.Errorf("declared type should win, got %q", att.ContentType)
	}
}

func TestReadAttachmentOversized(t *testing.T) {
	size := int64(7 << 20)
	att, err := readAttachment("big.bin", "", bytes.NewReader(make([]byte, size)))
	if err != nil {
		t.Fatal(err)
	}
	if att.Size != size {
		t.Errorf("size = %d, want %d", att.Size, size)
	}
	if att.Data != nil {
		t.Error("oversized file should not be kept")
	}
}

func TestReadAttachmentError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := readAttachment("x", "", iotest.ErrReader(boom)); !errors.Is(err, boom) {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestHumanSize(t *testing.T) {
	att := &Attachment{Size: 3 * 1024 * 1024}
	if got := att.HumanSize(); !strings.HasPrefix(got, "3.0") {
		t.Errorf("HumanSize = %q", got)
	}
}
