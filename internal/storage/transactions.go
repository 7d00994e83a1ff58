package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/service"
)

const transactionColumns = `id, type, amount, description, date, category_id, notes, source, payment_method, essential, import_ref`

// scanTransaction reads one transaction row.
func scanTransaction(row interface{ Scan(...any) error }) (model.Transaction, error) {
	var (
		t         model.Transaction
		amount    string
		date      string
		importRef sql.NullString
	)
	err := row.Scan(&t.ID, &t.Type, &amount, &t.Description, &date, &t.CategoryID,
		&t.Notes, &t.Source, &t.PaymentMethod, &t.Essential, &importRef)
	if err != nil {
		return model.Transaction{}, err
	}
	if t.Amount, err = parseAmount(amount); err != nil {
		return model.Transaction{}, err
	}
	if t.Date, err = parseDate(date); err != nil {
		return model.Transaction{}, err
	}
	t.ImportRef = importRef.String
	return t, nil
}

// importRefValue maps an empty import ref to NULL so the unique index only
// applies to imported rows.
func importRefValue(ref string) any {
	if ref == "" {
		return nil
	}
	return ref
}

// SaveTransaction inserts a single transaction.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return common.NewValidationError("invalid transaction", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, amount, description, date, category_id, notes, source, payment_method, essential, import_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.Type, txn.Amount.String(), txn.Description, txn.Date.Format(dateLayout),
		txn.CategoryID, txn.Notes, txn.Source, txn.PaymentMethod, txn.Essential,
		importRefValue(txn.ImportRef))
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	slog.Debug("saved transaction", "id", txn.ID, "type", txn.Type, "amount", txn.Amount)
	return nil
}

// SaveTransactions inserts a batch of transactions in a single database
// transaction, skipping rows whose import ref is already present. It returns
// the number of rows actually inserted.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txns []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	for i := range txns {
		if err := validateTransaction(&txns[i]); err != nil {
			return 0, common.NewValidationError(fmt.Sprintf("invalid transaction at index %d", i), err)
		}
	}

	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO transactions (id, type, amount, description, date, category_id, notes, source, payment_method, essential, import_ref)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i := range txns {
			t := &txns[i]
			res, err := stmt.ExecContext(ctx,
				t.ID, t.Type, t.Amount.String(), t.Description, t.Date.Format(dateLayout),
				t.CategoryID, t.Notes, t.Source, t.PaymentMethod, t.Essential,
				importRefValue(t.ImportRef))
			if err != nil {
				return fmt.Errorf("failed to save transaction %s: %w", t.ID, err)
			}
			n, _ := res.RowsAffected()
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("saved transactions", "count", len(txns), "inserted", inserted)
	return inserted, nil
}

// UpdateTransaction replaces a stored transaction by id. The type tag is
// immutable and is not part of the update.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return common.NewValidationError("invalid transaction", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount = ?, description = ?, date = ?, category_id = ?, notes = ?, source = ?, payment_method = ?, essential = ?
		WHERE id = ?`,
		txn.Amount.String(), txn.Description, txn.Date.Format(dateLayout), txn.CategoryID,
		txn.Notes, txn.Source, txn.PaymentMethod, txn.Essential, txn.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrNotFound)
	}
	return nil
}

// DeleteTransaction removes a transaction by id.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}

	slog.Debug("deleted transaction", "id", id)
	return nil
}

// GetTransactionByID returns a single transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return &t, nil
}

// ListTransactions returns a snapshot of transactions matching the filter,
// ordered by date then insertion order.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	var conds []string
	var args []any

	if filter.StartDate != nil {
		conds = append(conds, "date >= ?")
		args = append(args, filter.StartDate.Format(dateLayout))
	}
	if filter.EndDate != nil {
		conds = append(conds, "date <= ?")
		args = append(args, filter.EndDate.Format(dateLayout))
	}
	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.CategoryID != 0 {
		conds = append(conds, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date, created_at, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("retrieved transactions", "count", len(txns))
	return txns, nil
}
