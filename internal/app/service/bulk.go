package service

import "github.com/google/uuid"

// BulkOperationResult reports the outcome of a best-effort bulk action.
// Items that fail are collected instead of aborting the batch.
type BulkOperationResult struct {
	Success   int         `json:"success"`
	Failed    int         `json:"failed"`
	FailedIDs []uuid.UUID `json:"failed_ids"`
}

func (r *BulkOperationResult) recordSuccess() {
	r.Success++
}

func (r *BulkOperationResult) recordFailure(id uuid.UUID) {
	r.Failed++
	r.FailedIDs = append(r.FailedIDs, id)
}
