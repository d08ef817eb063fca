package postgres

import (
	"context"
	"fmt"

	"temple-receipt-service/internal/core/ports"
)

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Insert writes one admin-action audit entry.
func (r *AuditRepo) Insert(ctx context.Context, entry *ports.AuditEntry) error {
	query := `INSERT INTO audit_log (id, actor, action, receipt_code, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.Actor, entry.Action, entry.ReceiptCode, entry.Detail, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
