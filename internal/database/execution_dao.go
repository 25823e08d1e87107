package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// AgentExecution records one agent task dispatched for a scan.
// Exactly one row exists per (scan, dispatched agent); each is
// finalized independently of its siblings.
type AgentExecution struct {
	ID              types.ID              `json:"id"`
	ScanID          types.ID              `json:"scan_id"`
	AgentID         types.ID              `json:"agent_id"`
	Status          types.ExecutionStatus `json:"status"`
	InputData       string                `json:"input_data,omitempty"`
	OutputData      string                `json:"output_data,omitempty"`
	ExecutionTimeMs int64                 `json:"execution_time_ms"`
	ErrorMessage    string                `json:"error_message,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ExecutionDAO provides database operations for agent executions.
type ExecutionDAO interface {
	// Create creates a new execution record
	Create(ctx context.Context, exec *AgentExecution) error

	// Complete finalizes an execution with structured output and timing
	Complete(ctx context.Context, id types.ID, outputData string, elapsed time.Duration) error

	// Fail finalizes an execution with the captured error message
	Fail(ctx context.Context, id types.ID, errorMessage string, elapsed time.Duration) error

	// ListByScan returns all executions for a scan, oldest first
	ListByScan(ctx context.Context, scanID types.ID) ([]*AgentExecution, error)
}

// executionDAO implements ExecutionDAO.
type executionDAO struct {
	db *DB
}

// NewExecutionDAO creates a new execution DAO.
func NewExecutionDAO(db *DB) ExecutionDAO {
	return &executionDAO{db: db}
}

// Create creates a new execution record.
func (d *executionDAO) Create(ctx context.Context, exec *AgentExecution) error {
	if exec.ID == "" {
		exec.ID = types.NewID()
	}
	if exec.Status == "" {
		exec.Status = types.ExecutionStatusPending
	}

	query := `
		INSERT INTO agent_executions (id, scan_id, agent_id, status, input_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	_, err := d.db.ExecContext(ctx, query,
		exec.ID, exec.ScanID, exec.AgentID, exec.Status, exec.InputData)
	if err != nil {
		return fmt.Errorf("failed to create agent execution: %w", err)
	}

	return nil
}

// Complete finalizes an execution with structured output and timing.
func (d *executionDAO) Complete(ctx context.Context, id types.ID, outputData string, elapsed time.Duration) error {
	return d.finalize(ctx, id, types.ExecutionStatusCompleted, outputData, "", elapsed)
}

// Fail finalizes an execution with the captured error message.
func (d *executionDAO) Fail(ctx context.Context, id types.ID, errorMessage string, elapsed time.Duration) error {
	return d.finalize(ctx, id, types.ExecutionStatusFailed, "", errorMessage, elapsed)
}

func (d *executionDAO) finalize(ctx context.Context, id types.ID, status types.ExecutionStatus, outputData, errorMessage string, elapsed time.Duration) error {
	query := `
		UPDATE agent_executions
		SET status = ?, output_data = ?, error_message = ?,
		    execution_time_ms = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := d.db.ExecContext(ctx, query,
		status, nullableString(outputData), nullableString(errorMessage),
		elapsed.Milliseconds(), id)
	if err != nil {
		return fmt.Errorf("failed to finalize agent execution: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("agent execution not found: %s", id)
	}

	return nil
}

// ListByScan returns all executions for a scan, oldest first.
func (d *executionDAO) ListByScan(ctx context.Context, scanID types.ID) ([]*AgentExecution, error) {
	query := `
		SELECT id, scan_id, agent_id, status, input_data, output_data,
		       execution_time_ms, error_message, created_at, updated_at
		FROM agent_executions
		WHERE scan_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := d.db.QueryContext(ctx, query, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent executions: %w", err)
	}
	defer rows.Close()

	var execs []*AgentExecution
	for rows.Next() {
		var exec AgentExecution
		var inputData, outputData, errorMessage sql.NullString
		var elapsed sql.NullInt64

		err := rows.Scan(
			&exec.ID,
			&exec.ScanID,
			&exec.AgentID,
			&exec.Status,
			&inputData,
			&outputData,
			&elapsed,
			&errorMessage,
			&exec.CreatedAt,
			&exec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent execution: %w", err)
		}

		if inputData.Valid {
			exec.InputData = inputData.String
		}
		if outputData.Valid {
			exec.OutputData = outputData.String
		}
		if errorMessage.Valid {
			exec.ErrorMessage = errorMessage.String
		}
		if elapsed.Valid {
			exec.ExecutionTimeMs = elapsed.Int64
		}

		execs = append(execs, &exec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agent executions: %w", err)
	}

	return execs, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
