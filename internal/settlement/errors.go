package settlement

import (
	"fmt"

	"github.com/guttosm/tradebook/internal/domain/models"
)

// MalformedRecordError reports a record that claims to be a completed fill (or
// carries no status at all) but lacks a structurally required field. It usually
// means the broker changed its payload, so the whole view is aborted.
type MalformedRecordError struct {
	OrderID string // empty when the order id itself is missing
	Index   int    // position of the record in the input slice
	Field   string // broker key that was absent
}

func (e *MalformedRecordError) Error() string {
	if e.OrderID != "" {
		return fmt.Sprintf("malformed execution record for order %s: missing %q", e.OrderID, e.Field)
	}
	return fmt.Sprintf("malformed execution record at position %d: missing %q", e.Index, e.Field)
}

// EmptyResultWarning is a non-fatal marker for a transaction type that ended up
// with no trades. A quiet trading day is a normal outcome.
type EmptyResultWarning struct {
	Type models.TransactionType
}

func (w *EmptyResultWarning) Error() string {
	return fmt.Sprintf("no %s trades after filtering", w.Type)
}
