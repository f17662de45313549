package corpus

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkstoneco/inkstone/pkg/vector"
)

// RemoveReference deletes a reference's chunks from the index and its
// catalog entry. It returns false without error when the reference is not
// cataloged. Index deletion happens first so a failure leaves the catalog
// entry in place as the record of what still needs cleaning up.
func (c *Corpus) RemoveReference(ctx context.Context, refID string) (bool, error) {
	if !c.catalog.Has(refID) {
		return false, nil
	}

	ids, err := c.driver.IDs(ctx, vector.Where{vector.FieldRefID: refID})
	if err != nil {
		return false, fmt.Errorf("listing chunks of %s: %w", refID, err)
	}

	if len(ids) > 0 {
		if err := c.driver.Delete(ctx, ids); err != nil {
			return false, fmt.Errorf("deleting %d chunks of %s: %w", len(ids), refID, err)
		}
	}

	if err := c.catalog.Remove(refID); err != nil {
		return false, fmt.Errorf("%w: chunks of %s deleted but catalog entry remains: %v", ErrInconsistent, refID, err)
	}

	c.logger.Info("removed reference",
		zap.String("ref_id", refID),
		zap.Int("chunks", len(ids)),
	)

	return true, nil
}

// Clear drops every chunk from the index and empties the catalog. Both
// steps are idempotent, so Clear can be retried after a partial failure.
func (c *Corpus) Clear(ctx context.Context) error {
	if err := c.driver.Reset(ctx); err != nil {
		return fmt.Errorf("resetting similarity index: %w", err)
	}
	if err := c.catalog.Clear(); err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}

	c.logger.Info("cleared corpus")
	return nil
}
