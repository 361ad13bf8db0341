package wa

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toogather/wabot/internal/domain/apperr"
)

// StickerPath resolves a sticker name to its webp file under dir.
func StickerPath(dir, name string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s.webp", name))
	if _, err := os.Stat(path); err != nil {
		return "", apperr.NotFound("sticker %q", name)
	}
	return path, nil
}
