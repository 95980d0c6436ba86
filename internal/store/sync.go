package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SyncSummary counts what a Sync changed.
type SyncSummary struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
}

// String renders the summary on one line.
func (s SyncSummary) String() string {
	return fmt.Sprintf("%d added, %d updated, %d deleted, %d unchanged",
		s.Added, s.Updated, s.Deleted, s.Unchanged)
}

// Sync makes the store agree with subs in a single transaction. New
// CAS numbers are added and changed entries rewritten. When prune is
// set, stored substances absent from subs are deleted. Nothing is
// written if any entry is invalid or a statement fails.
func (s *Store) Sync(ctx context.Context, subs []Substance, prune bool) (SyncSummary, error) {
	var sum SyncSummary

	incoming := make(map[string]Substance, len(subs))
	for i, sub := range subs {
		if err := sub.Validate(); err != nil {
			return sum, fmt.Errorf("entry %d: %w", i+1, err)
		}
		cas := normalizeCAS(sub.CAS)
		if _, dup := incoming[cas]; dup {
			return sum, fmt.Errorf("entry %d: duplicate CAS number %s", i+1, cas)
		}
		incoming[cas] = sub
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		existing, err := list(ctx, tx)
		if err != nil {
			return err
		}
		stored := make(map[string]Substance, len(existing))
		for _, sub := range existing {
			stored[sub.CAS] = sub
		}

		now := s.now()
		for _, sub := range subs {
			cas := normalizeCAS(sub.CAS)
			old, ok := stored[cas]
			switch {
			case !ok:
				sum.Added++
			case sameContent(old, sub):
				sum.Unchanged++
				continue
			default:
				sum.Updated++
			}
			if err := upsert(ctx, tx, sub, now); err != nil {
				return err
			}
		}

		if !prune {
			return nil
		}
		for cas := range stored {
			if _, keep := incoming[cas]; keep {
				continue
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM substances WHERE cas = ?`, cas); err != nil {
				return fmt.Errorf("delete %s: %w", cas, err)
			}
			sum.Deleted++
		}
		return nil
	})
	if err != nil {
		return SyncSummary{}, err
	}

	s.logger.Info("substances synced",
		"added", sum.Added,
		"updated", sum.Updated,
		"deleted", sum.Deleted,
		"unchanged", sum.Unchanged)
	return sum, nil
}
