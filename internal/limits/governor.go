// Package limits enforces per-endpoint byte ceilings on validated requests.
package limits

import (
	"errors"
	"io"

	"github.com/kestrel-systems/kestrel-collector/internal/models"
)

var ErrTooLarge = errors.New(models.MsgTooLarge)

// Governor judges byte-length measurements against an inclusive ceiling:
// a measurement equal to the ceiling passes, one byte over fails.
type Governor struct {
	ceiling int64
}

func NewGovernor(ceiling int64) Governor {
	return Governor{ceiling: ceiling}
}

// Ceiling returns the configured inclusive byte ceiling.
func (g Governor) Ceiling() int64 {
	return g.ceiling
}

// Check returns ErrTooLarge when n exceeds the ceiling.
func (g Governor) Check(n int64) error {
	if n > g.ceiling {
		return ErrTooLarge
	}
	return nil
}

// CountingReader wraps an io.Reader and fails with ErrTooLarge as soon as
// the cumulative bytes read exceed the governor's ceiling. It lets multipart
// intake abort streaming early instead of materializing oversized uploads.
type CountingReader struct {
	r io.Reader
	g Governor
	n int64
}

// Counting wraps r so reads are charged against the governor's ceiling.
func (g Governor) Counting(r io.Reader) *CountingReader {
	return &CountingReader{r: r, g: g}
}

// Continue points the counter at the next reader in a sequence while
// keeping the cumulative total, so one budget can span several multipart
// file parts.
func (cr *CountingReader) Continue(r io.Reader) *CountingReader {
	cr.r = r
	return cr
}

// BytesRead returns the cumulative bytes consumed so far.
func (cr *CountingReader) BytesRead() int64 {
	return cr.n
}

func (cr *CountingReader) Read(p []byte) (int, error) {
	if cr.n > cr.g.ceiling {
		return 0, ErrTooLarge
	}

	// Never read further than one byte past the ceiling; that byte is
	// enough to prove the upload is oversized.
	remaining := cr.g.ceiling - cr.n + 1
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := cr.r.Read(p)
	cr.n += int64(n)
	if cr.n > cr.g.ceiling {
		return n, ErrTooLarge
	}
	return n, err
}
