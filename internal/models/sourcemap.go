package models

// SourcemapFile is one uploaded file part of a release.
type SourcemapFile struct {
	Name string
	Data []byte
}

// SourcemapUpload is a validated multipart upload: a release identifier and
// at least one sourcemap file.
type SourcemapUpload struct {
	ProjectID string
	Release   string
	Files     []SourcemapFile
}

// TotalBytes returns the cumulative size of all file parts.
func (u *SourcemapUpload) TotalBytes() int64 {
	var n int64
	for _, f := range u.Files {
		n += int64(len(f.Data))
	}
	return n
}
