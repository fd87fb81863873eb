package digest_test

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dupescan/internal/digest"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFileEmpty(t *testing.T) {
	path := writeFile(t, "empty.bin", nil)

	outcome := digest.File(context.Background(), path)
	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}
	if outcome.Digest != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Fatalf("wrong digest for empty file: %s", outcome.Digest)
	}
	if outcome.Size != 0 {
		t.Fatalf("expected size 0, got %d", outcome.Size)
	}
	if outcome.Duration < 0 {
		t.Fatalf("negative duration: %v", outcome.Duration)
	}
}

func TestFileKnownContent(t *testing.T) {
	path := writeFile(t, "hello.txt", []byte("hello"))

	outcome := digest.File(context.Background(), path)
	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}
	if outcome.Digest != "5d41402abc4b2a76b9719d911017c592" {
		t.Fatalf("wrong digest: %s", outcome.Digest)
	}
	if outcome.Size != 5 {
		t.Fatalf("expected size 5, got %d", outcome.Size)
	}
}

func TestFileSpansMultipleChunks(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, digest.ChunkSize*2+333)
	path := writeFile(t, "big.bin", data)

	want := md5.Sum(data)
	outcome := digest.File(context.Background(), path)
	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}
	if outcome.Digest != hex.EncodeToString(want[:]) {
		t.Fatalf("digest mismatch: got %s", outcome.Digest)
	}
	if outcome.Size != uint64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), outcome.Size)
	}
}

func TestFileMissing(t *testing.T) {
	outcome := digest.File(context.Background(), filepath.Join(t.TempDir(), "absent.bin"))
	if !outcome.Failed() {
		t.Fatalf("expected failure for missing file")
	}
	if outcome.Digest != "" {
		t.Fatalf("failure must not carry a digest: %s", outcome.Digest)
	}
}

func TestFileCancelledBeforeFirstChunk(t *testing.T) {
	path := writeFile(t, "data.bin", []byte("content"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := digest.File(ctx, path)
	if !errors.Is(outcome.Err, digest.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", outcome.Err)
	}
	if outcome.Digest != "" {
		t.Fatalf("cancellation must not yield a digest: %s", outcome.Digest)
	}
}
