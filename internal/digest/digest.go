package digest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"time"
)

// ChunkSize is the read granularity. Cancellation latency is bounded by the
// time it takes to read one chunk.
const ChunkSize = 128 * 1024

// ErrCancelled reports that fingerprinting was abandoned because the job was
// cancelled. Cancellation never yields a partial digest.
var ErrCancelled = errors.New("cancelled")

// Outcome is the result of fingerprinting one file. On failure Digest is
// empty and Size and Duration hold best-effort partial accounting.
type Outcome struct {
	Digest   string
	Size     uint64
	Duration time.Duration
	Err      error
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// File computes the lowercase hex MD5 fingerprint of path, reading in
// ChunkSize chunks. ctx is checked before every chunk read; once it is
// cancelled the outcome is a failure with ErrCancelled. Elapsed time uses the
// monotonic clock.
func File(ctx context.Context, path string) Outcome {
	start := time.Now()
	var size uint64

	fail := func(err error) Outcome {
		return Outcome{Size: size, Duration: time.Since(start), Err: err}
	}

	file, err := os.Open(path)
	if err != nil {
		return fail(err)
	}
	defer file.Close()

	sum := md5.New()
	buf := make([]byte, ChunkSize)
	for {
		if ctx.Err() != nil {
			return fail(ErrCancelled)
		}
		n, readErr := file.Read(buf)
		if n > 0 {
			size += uint64(n)
			sum.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fail(readErr)
		}
	}

	return Outcome{
		Digest:   hex.EncodeToString(sum.Sum(nil)),
		Size:     size,
		Duration: time.Since(start),
	}
}
