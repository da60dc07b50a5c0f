package handlers

import (
	"testing"
	"time"
)

func TestUploadFilename(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	got := uploadFilename("crown.png", now)
	if got != "1700000000000_crown.png" {
		t.Fatalf("got %q", got)
	}

	// client-supplied paths must not escape the upload dir
	got = uploadFilename("../../etc/passwd", now)
	if got != "1700000000000_passwd" {
		t.Fatalf("got %q", got)
	}
}
