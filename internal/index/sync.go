package index

import (
	"log/slog"

	"github.com/starford/quizium/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed documents are re-extracted and replaced
//   - documents removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, ex Extractor, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		cards, quizzes := ex.ExtractDocument(m.Path, data)
		if err := db.ReplaceDocument(m.Path, m.Checksum, cards, quizzes); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path), slog.Int("cards", len(cards)), slog.Int("quizzes", len(quizzes)))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDocument(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}
