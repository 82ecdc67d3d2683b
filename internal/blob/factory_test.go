package blob

import (
	"bytes"
	"log"
	"strings"
	"testing"

	appcfg "github.com/fdg312/diet-planner/internal/config"
)

func TestNewBlobStoreModes(t *testing.T) {
	tests := []struct {
		name      string
		cfg       appcfg.BlobConfig
		wantMode  string
		wantStore bool
		wantErr   string
		wantLogs  []string
	}{
		{
			name:     "empty mode is local",
			cfg:      appcfg.BlobConfig{},
			wantMode: appcfg.BlobModeLocal,
			wantLogs: []string{"mode=local (forced)"},
		},
		{
			name:     "local ignores s3 config",
			cfg:      appcfg.BlobConfig{Mode: appcfg.BlobModeLocal, S3: testS3Config()},
			wantMode: appcfg.BlobModeLocal,
		},
		{
			name:     "auto without s3 archives nothing",
			cfg:      appcfg.BlobConfig{Mode: appcfg.BlobModeAuto},
			wantMode: appcfg.BlobModeLocal,
			wantLogs: []string{"code=s3_not_configured", "mode=local (auto, S3 not configured)"},
		},
		{
			name:     "auto with partial s3 warns",
			cfg:      appcfg.BlobConfig{Mode: appcfg.BlobModeAuto, S3: appcfg.S3Config{Bucket: "reports"}},
			wantMode: appcfg.BlobModeLocal,
			wantLogs: []string{"WARN blob.s3: code=s3_partial_config"},
		},
		{
			name:      "auto with s3 archives reports",
			cfg:       appcfg.BlobConfig{Mode: appcfg.BlobModeAuto, S3: testS3Config()},
			wantMode:  appcfg.BlobModeS3,
			wantStore: true,
			wantLogs:  []string{"mode=s3 (auto, configured)", "bucket=reports"},
		},
		{
			name:      "forced s3",
			cfg:       appcfg.BlobConfig{Mode: appcfg.BlobModeS3, S3: testS3Config()},
			wantMode:  appcfg.BlobModeS3,
			wantStore: true,
		},
		{
			name:    "forced s3 with missing config",
			cfg:     appcfg.BlobConfig{Mode: appcfg.BlobModeS3, S3: appcfg.S3Config{Endpoint: "https://storage.example.com"}},
			wantErr: "missing required config",
		},
		{
			name:    "unknown mode",
			cfg:     appcfg.BlobConfig{Mode: "ftp"},
			wantErr: "unsupported blob mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			store, mode, err := NewBlobStore(tt.cfg, log.New(&buf, "", 0))

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				if store != nil || mode != "" {
					t.Fatalf("expected nil store and empty mode on error, got store=%v mode=%q", store, mode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != tt.wantMode {
				t.Errorf("expected mode=%s, got %s", tt.wantMode, mode)
			}
			if (store != nil) != tt.wantStore {
				t.Errorf("expected store present=%v, got %v", tt.wantStore, store)
			}
			for _, want := range tt.wantLogs {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected log %q, got: %s", want, buf.String())
				}
			}
		})
	}
}

func TestNewBlobStoreNilLogger(t *testing.T) {
	if _, mode, err := NewBlobStore(appcfg.BlobConfig{Mode: appcfg.BlobModeAuto}, nil); err != nil || mode != appcfg.BlobModeLocal {
		t.Fatalf("expected local without logger, got mode=%q err=%v", mode, err)
	}
}
