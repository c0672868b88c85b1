// Package artifacts persists accepted sourcemap uploads.
package artifacts

import (
	"context"

	"github.com/kestrel-systems/kestrel-collector/internal/models"
)

// Store receives validated sourcemap uploads. The collector only writes;
// reading artifacts back is the deobfuscation tier's concern.
type Store interface {
	Save(ctx context.Context, upload *models.SourcemapUpload) error
}
