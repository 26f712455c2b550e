package chrono

import (
	"fmt"

	"chrono-go/internal/database/sqlc"
)

// GetHistory returns the most recent journaled operations, newest first.
func (s *ChronoService) GetHistory(limit int) ([]*sqlc.Operation, error) {
	ops, err := s.database.ListOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}
