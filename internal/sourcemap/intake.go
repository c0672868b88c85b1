// Package sourcemap accepts multipart sourcemap uploads. Unlike the JSON
// pipeline, authentication happens before the body is touched (the caller
// verifies the bearer header first); the intake then streams parts under a
// cumulative byte budget instead of buffering the whole body.
package sourcemap

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/kestrel-systems/kestrel-collector/internal/limits"
	"github.com/kestrel-systems/kestrel-collector/internal/models"
)

// release identifiers are short version strings; anything longer is abuse
const maxReleaseBytes = 1024

// Intake streams and validates one multipart upload.
type Intake struct {
	governor limits.Governor
}

func NewIntake(governor limits.Governor) *Intake {
	return &Intake{governor: governor}
}

// Read consumes the multipart body and returns a validated upload. File
// part bytes are charged against the governor's ceiling as they stream;
// an oversized upload aborts immediately with the size rejection rather
// than being read to the end.
func (i *Intake) Read(ctx context.Context, mr *multipart.Reader) (*models.SourcemapUpload, error) {
	upload := &models.SourcemapUpload{}
	counter := i.governor.Counting(nil)

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, models.Reject(models.MsgInvalidMultipart)
		}

		switch {
		case part.FileName() != "":
			data, err := io.ReadAll(counter.Continue(part))
			part.Close()
			if errors.Is(err, limits.ErrTooLarge) {
				return nil, models.Reject(models.MsgTooLarge)
			}
			if err != nil {
				return nil, models.Reject(models.MsgInvalidMultipart)
			}
			upload.Files = append(upload.Files, models.SourcemapFile{
				Name: part.FileName(),
				Data: data,
			})

		case part.FormName() == "release":
			data, err := io.ReadAll(io.LimitReader(part, maxReleaseBytes))
			part.Close()
			if err != nil {
				return nil, models.Reject(models.MsgInvalidMultipart)
			}
			upload.Release = strings.TrimSpace(string(data))

		default:
			// Unknown form fields are ignored, not rejected; SDK versions
			// differ in what metadata they attach.
			io.Copy(io.Discard, io.LimitReader(part, maxReleaseBytes))
			part.Close()
		}
	}

	if upload.Release == "" {
		return nil, models.Reject(models.MsgEmptyRelease)
	}
	if len(upload.Files) == 0 {
		return nil, models.Reject(models.MsgEmptySourcemap)
	}

	return upload, nil
}
