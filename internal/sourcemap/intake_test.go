package sourcemap

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/kestrel-systems/kestrel-collector/internal/limits"
	"github.com/kestrel-systems/kestrel-collector/internal/models"
)

type part struct {
	field    string
	filename string
	content  string
}

func buildMultipart(t *testing.T, parts ...part) *multipart.Reader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.filename != "" {
			fw, err := w.CreateFormFile(p.field, p.filename)
			if err != nil {
				t.Fatalf("CreateFormFile: %v", err)
			}
			fw.Write([]byte(p.content))
		} else {
			if err := w.WriteField(p.field, p.content); err != nil {
				t.Fatalf("WriteField: %v", err)
			}
		}
	}
	w.Close()

	return multipart.NewReader(&buf, w.Boundary())
}

func rejectionOf(t *testing.T, err error) string {
	t.Helper()
	rej, ok := err.(*models.Rejection)
	if !ok {
		t.Fatalf("error = %T (%v), want *models.Rejection", err, err)
	}
	return rej.Reason
}

func TestRead_Valid(t *testing.T) {
	intake := NewIntake(limits.NewGovernor(1024))

	mr := buildMultipart(t,
		part{field: "release", content: "1.0.1"},
		part{field: "sourcemap1", filename: "main.js.map", content: "mini"},
		part{field: "sourcemap2", filename: "vendor.js.map", content: "also"},
	)

	upload, err := intake.Read(context.Background(), mr)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if upload.Release != "1.0.1" {
		t.Errorf("Release = %q, want 1.0.1", upload.Release)
	}
	if len(upload.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(upload.Files))
	}
	if upload.Files[0].Name != "main.js.map" || string(upload.Files[0].Data) != "mini" {
		t.Errorf("first file = %q/%q", upload.Files[0].Name, upload.Files[0].Data)
	}
	if upload.TotalBytes() != 8 {
		t.Errorf("TotalBytes() = %d, want 8", upload.TotalBytes())
	}
}

func TestRead_MissingRelease(t *testing.T) {
	intake := NewIntake(limits.NewGovernor(1024))

	mr := buildMultipart(t,
		part{field: "sourcemap1", filename: "main.js.map", content: "mini"},
	)

	_, err := intake.Read(context.Background(), mr)
	if got := rejectionOf(t, err); got != models.MsgEmptyRelease {
		t.Errorf("message = %q, want %q", got, models.MsgEmptyRelease)
	}
}

func TestRead_NoFiles(t *testing.T) {
	intake := NewIntake(limits.NewGovernor(1024))

	mr := buildMultipart(t,
		part{field: "release", content: "1.0.1"},
	)

	_, err := intake.Read(context.Background(), mr)
	if got := rejectionOf(t, err); got != models.MsgEmptySourcemap {
		t.Errorf("message = %q, want %q", got, models.MsgEmptySourcemap)
	}
}

func TestRead_CumulativeCeiling(t *testing.T) {
	// Ceiling applies to the sum of all file parts, not each one.
	intake := NewIntake(limits.NewGovernor(5))

	mr := buildMultipart(t,
		part{field: "release", content: "1.0.1"},
		part{field: "sourcemap1", filename: "a.map", content: "aaa"},
		part{field: "sourcemap2", filename: "b.map", content: "bbb"},
	)

	_, err := intake.Read(context.Background(), mr)
	if got := rejectionOf(t, err); got != models.MsgTooLarge {
		t.Errorf("message = %q, want %q", got, models.MsgTooLarge)
	}
}

func TestRead_CeilingBoundary(t *testing.T) {
	// Mirrors the 5-byte/6-byte fixture bracket around the ceiling.
	for _, tt := range []struct {
		name    string
		content string
		wantErr bool
	}{
		{"under", "mini", false},
		{"at ceiling", "equal", false},
		{"over", "muuuch", true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			intake := NewIntake(limits.NewGovernor(5))
			mr := buildMultipart(t,
				part{field: "release", content: "1.0.1"},
				part{field: "sourcemap1", filename: "sourcemap1", content: tt.content},
			)

			_, err := intake.Read(context.Background(), mr)
			if tt.wantErr {
				if got := rejectionOf(t, err); got != models.MsgTooLarge {
					t.Errorf("message = %q, want %q", got, models.MsgTooLarge)
				}
			} else if err != nil {
				t.Errorf("Read() error = %v", err)
			}
		})
	}
}

func TestRead_IgnoresUnknownFields(t *testing.T) {
	intake := NewIntake(limits.NewGovernor(1024))

	mr := buildMultipart(t,
		part{field: "release", content: "  2.0.0  "},
		part{field: "commit", content: "deadbeef"},
		part{field: "sourcemap1", filename: "app.js.map", content: "data"},
	)

	upload, err := intake.Read(context.Background(), mr)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if upload.Release != "2.0.0" {
		t.Errorf("Release = %q, want trimmed 2.0.0", upload.Release)
	}
	if len(upload.Files) != 1 {
		t.Errorf("got %d files, want 1", len(upload.Files))
	}
}
