package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// isCanonicalID reports whether the id is a hyphenated UUID, the only format
// the record table can be trusted to target directly.
func isCanonicalID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// RepairProductIDs rewrites remote rows whose ids fail canonical-format
// validation: each gets a fresh UUID, is re-inserted under it, and the old
// row is removed by exact name match excluding the replacement (the old id
// cannot be trusted for a targeted delete). Manual, on-demand maintenance;
// running it again on a repaired catalog changes nothing. Returns the number
// of rows rewritten.
func (s *Store) RepairProductIDs(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.table.SelectAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("repair scan: %w", err)
	}

	repaired := 0
	for _, row := range rows {
		if isCanonicalID(row.ID) {
			continue
		}

		oldID := row.ID
		row.ID = uuid.NewString()
		if err := s.table.Insert(ctx, row); err != nil {
			log.Printf("catalog: repair could not re-insert %q (old id %q): %v", row.Name, oldID, err)
			continue
		}
		if _, err := s.table.DeleteByNameExcept(ctx, row.Name, row.ID); err != nil {
			log.Printf("catalog: repair could not remove old row for %q (old id %q): %v", row.Name, oldID, err)
		}
		log.Printf("catalog: repaired id for %q: %q -> %s", row.Name, oldID, row.ID)
		repaired++
	}

	if repaired > 0 {
		s.cache = s.loadRemoteOrSnapshot(ctx)
		s.initialized = true
	}
	return repaired, nil
}
