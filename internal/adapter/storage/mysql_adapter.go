package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/prize-roulette/internal/core/domain"
)

var ErrStockExhausted = errors.New("mirror stock already exhausted")

// MySQLAdapter stores stock counters in the prize_stock table. It serves as a
// StockStore on its own or as the durable mirror behind Redis.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) SeedStock(ctx context.Context, kind string, quantity int) (bool, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT IGNORE INTO prize_stock (kind, remaining, version, created_at, updated_at)
		VALUES (?, ?, 0, NOW(), NOW())`,
		kind, quantity,
	)
	if err != nil {
		return false, fmt.Errorf("seed stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows == 1, nil
}

func (m *MySQLAdapter) ReadStock(ctx context.Context, kind string) (int, bool, error) {
	var remaining int
	err := m.db.QueryRowContext(ctx, `
		SELECT remaining FROM prize_stock WHERE kind = ?`, kind,
	).Scan(&remaining)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query stock: %w", err)
	}

	return remaining, true, nil
}

func (m *MySQLAdapter) SetStock(ctx context.Context, kind string, quantity int) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO prize_stock (kind, remaining, version, created_at, updated_at)
		VALUES (?, ?, 0, NOW(), NOW())
		ON DUPLICATE KEY UPDATE remaining = VALUES(remaining), version = version + 1, updated_at = NOW()`,
		kind, quantity,
	)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) DecrementStock(ctx context.Context, kind string) (bool, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE prize_stock
		SET remaining = remaining - 1, version = version + 1, updated_at = NOW()
		WHERE kind = ? AND remaining > 0`,
		kind,
	)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows == 1, nil
}

// ApplyCommit mirrors one committed decrement. The insert into
// prize_stock_commits makes replays of the same spin a no-op.
func (m *MySQLAdapter) ApplyCommit(ctx context.Context, commit domain.StockCommit) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT IGNORE INTO prize_stock_commits (spin_id, kind, committed_at)
		VALUES (?, ?, ?)`,
		commit.SpinID, string(commit.Kind), commit.CommittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert commit: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		// already applied
		return tx.Commit()
	}

	result, err = tx.ExecContext(ctx, `
		UPDATE prize_stock
		SET remaining = remaining - 1, version = version + 1, updated_at = NOW()
		WHERE kind = ? AND remaining > 0`,
		string(commit.Kind),
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}

	rows, _ = result.RowsAffected()
	if rows == 0 {
		return ErrStockExhausted
	}

	return tx.Commit()
}
