package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// Scan represents a persisted scan of one target.
type Scan struct {
	ID           types.ID          `json:"id"`
	Target       string            `json:"target"`
	AssetType    types.AssetType   `json:"asset_type"`
	Status       types.ScanStatus  `json:"status"`
	ThreatLevel  types.ThreatLevel `json:"threat_level,omitempty"`
	Results      string            `json:"results,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// ScanDAO provides database operations for scans.
type ScanDAO interface {
	// Create creates a new scan
	Create(ctx context.Context, scan *Scan) error

	// GetByID retrieves a scan by ID
	GetByID(ctx context.Context, id types.ID) (*Scan, error)

	// List lists all scans with optional status filter
	List(ctx context.Context, status types.ScanStatus) ([]*Scan, error)

	// Complete marks a running scan completed with its aggregate and
	// classified threat level. The update is conditional on the scan
	// still being in running state so it can only happen once.
	Complete(ctx context.Context, id types.ID, results string, level types.ThreatLevel) error

	// MarkFailed moves a scan to the failed terminal state.
	MarkFailed(ctx context.Context, id types.ID, errorMessage string) error
}

// scanDAO implements ScanDAO.
type scanDAO struct {
	db *DB
}

// NewScanDAO creates a new scan DAO.
func NewScanDAO(db *DB) ScanDAO {
	return &scanDAO{db: db}
}

// Create creates a new scan.
func (d *scanDAO) Create(ctx context.Context, scan *Scan) error {
	if scan.ID == "" {
		scan.ID = types.NewID()
	}
	if scan.Status == "" {
		scan.Status = types.ScanStatusPending
	}

	query := `
		INSERT INTO scans (id, target, asset_type, status, results, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	_, err := d.db.ExecContext(ctx, query,
		scan.ID,
		scan.Target,
		scan.AssetType,
		scan.Status,
		scan.Results,
	)
	if err != nil {
		return fmt.Errorf("failed to create scan: %w", err)
	}

	return nil
}

// GetByID retrieves a scan by ID.
func (d *scanDAO) GetByID(ctx context.Context, id types.ID) (*Scan, error) {
	query := `
		SELECT id, target, asset_type, status, threat_level, results,
		       error_message, created_at, updated_at, completed_at
		FROM scans
		WHERE id = ?
	`

	scan, err := scanScanRow(d.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scan not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	return scan, nil
}

// List lists all scans with optional status filter.
func (d *scanDAO) List(ctx context.Context, status types.ScanStatus) ([]*Scan, error) {
	query := `
		SELECT id, target, asset_type, status, threat_level, results,
		       error_message, created_at, updated_at, completed_at
		FROM scans
	`
	var args []interface{}

	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var scans []*Scan
	for rows.Next() {
		scan, err := scanScanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scans = append(scans, scan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scans: %w", err)
	}

	return scans, nil
}

// Complete marks a running scan completed. The WHERE clause guards the
// status transition, making the terminal write exactly-once.
func (d *scanDAO) Complete(ctx context.Context, id types.ID, results string, level types.ThreatLevel) error {
	query := `
		UPDATE scans
		SET status = ?, threat_level = ?, results = ?,
		    updated_at = CURRENT_TIMESTAMP, completed_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`

	result, err := d.db.ExecContext(ctx, query,
		types.ScanStatusCompleted, level, results, id, types.ScanStatusRunning)
	if err != nil {
		return types.WrapError(types.DB_UPDATE_FAILED, "failed to complete scan", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.WrapError(types.DB_UPDATE_FAILED, "failed to get rows affected", err)
	}
	if affected == 0 {
		return types.NewError(types.DB_UPDATE_FAILED,
			fmt.Sprintf("scan %s not in running state", id))
	}

	return nil
}

// MarkFailed moves a scan to failed. Already-terminal scans are left alone.
func (d *scanDAO) MarkFailed(ctx context.Context, id types.ID, errorMessage string) error {
	query := `
		UPDATE scans
		SET status = ?, error_message = ?, updated_at = CURRENT_TIMESTAMP,
		    completed_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status IN (?, ?)
	`

	_, err := d.db.ExecContext(ctx, query,
		types.ScanStatusFailed, errorMessage, id,
		types.ScanStatusPending, types.ScanStatusRunning)
	if err != nil {
		return types.WrapError(types.DB_UPDATE_FAILED, "failed to mark scan failed", err)
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScanRow(row rowScanner) (*Scan, error) {
	var scan Scan
	var threatLevel, results, errorMessage sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&scan.ID,
		&scan.Target,
		&scan.AssetType,
		&scan.Status,
		&threatLevel,
		&results,
		&errorMessage,
		&scan.CreatedAt,
		&scan.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if threatLevel.Valid {
		scan.ThreatLevel = types.ThreatLevel(threatLevel.String)
	}
	if results.Valid {
		scan.Results = results.String
	}
	if errorMessage.Valid {
		scan.ErrorMessage = errorMessage.String
	}
	if completedAt.Valid {
		scan.CompletedAt = &completedAt.Time
	}

	return &scan, nil
}
