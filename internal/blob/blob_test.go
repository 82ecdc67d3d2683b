package blob

import (
	"context"
	"strings"
	"testing"

	appcfg "github.com/fdg312/diet-planner/internal/config"
)

func testS3Config() appcfg.S3Config {
	return appcfg.S3Config{
		Endpoint:          "https://storage.example.com",
		Region:            "eu-west-1",
		Bucket:            "reports",
		AccessKeyID:       "key",
		SecretAccessKey:   "secret",
		PublicBaseURL:     "https://cdn.example.com/reports/",
		PresignTTLSeconds: 60,
	}
}

func TestPublicURL(t *testing.T) {
	got := PublicURL("https://cdn.example.com/", "/reports/a/b.pdf")
	if got != "https://cdn.example.com/reports/a/b.pdf" {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestNewS3StoreRejectsIncompleteConfig(t *testing.T) {
	cfg := testS3Config()
	cfg.Bucket = ""
	if _, err := NewS3Store(cfg); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}

func TestDownloadURLPrefersPublic(t *testing.T) {
	cfg := testS3Config()
	cfg.PreferPublicURL = true
	store, err := NewS3Store(cfg)
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}

	url, err := store.DownloadURL(context.Background(), "reports/c1/r1.pdf")
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}
	if url != "https://cdn.example.com/reports/reports/c1/r1.pdf" {
		t.Fatalf("unexpected url: %s", url)
	}
}

func TestDownloadURLPresigns(t *testing.T) {
	store, err := NewS3Store(testS3Config())
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}

	url, err := store.DownloadURL(context.Background(), "reports/c1/r1.pdf")
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}
	if !strings.HasPrefix(url, "https://storage.example.com/reports/reports/c1/r1.pdf?") {
		t.Fatalf("expected path-style presigned url, got %s", url)
	}
	if !strings.Contains(url, "X-Amz-Expires=60") {
		t.Fatalf("expected 60s expiry in %s", url)
	}
}
