package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/util"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestUploadImageLocal(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewStorageService(&config.Config{Storage: config.StorageConfig{
		Type:      util.StorageLocal,
		LocalPath: dir,
		PublicURL: "http://cdn.example.com/",
	}})
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	url, err := svc.UploadImage(context.Background(), bytes.NewReader(pngHeader), int64(len(pngHeader)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "http://cdn.example.com/uploads/courses/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %s", url)
	}

	name := strings.TrimPrefix(url, "http://cdn.example.com/uploads/")
	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(stored, pngHeader) {
		t.Fatalf("stored bytes differ from upload")
	}
}

func TestUploadImageRejectsNonImages(t *testing.T) {
	svc, err := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()}})
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	_, err = svc.UploadImage(context.Background(), strings.NewReader("just some text"), 14)
	expectKind(t, err, util.KindValidation)

	_, err = svc.UploadImage(context.Background(), bytes.NewReader(pngHeader), util.MaxImageUploadSize+1)
	expectKind(t, err, util.KindValidation)
}

func TestMinioURL(t *testing.T) {
	p := &MinioStorageProvider{Config: &config.StorageConfig{MinioEndpoint: "minio.local:9000", MinioBucket: "courses", MinioUseSSL: true}}
	if got := p.GetURL("a.png"); got != "https://minio.local:9000/courses/a.png" {
		t.Fatalf("unexpected url %s", got)
	}
}
