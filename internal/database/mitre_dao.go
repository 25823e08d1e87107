package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// MitreMapping is an append-only technique-to-evidence record. One is
// written per emitted attack path step; there is no update path.
type MitreMapping struct {
	ID              types.ID  `json:"id"`
	ScanID          types.ID  `json:"scan_id,omitempty"`
	MitreTechnique  string    `json:"mitre_technique"`
	TechniqueName   string    `json:"technique_name"`
	MitreTactic     string    `json:"mitre_tactic"`
	ConfidenceScore float64   `json:"confidence_score"`
	Reasoning       string    `json:"reasoning,omitempty"`
	Automated       bool      `json:"automated"`
	CreatedAt       time.Time `json:"created_at"`
}

// Validate rejects mappings with out-of-range confidence.
func (m *MitreMapping) Validate() error {
	if m.ConfidenceScore < 0 || m.ConfidenceScore > 1 {
		return fmt.Errorf("confidence score %.2f outside [0,1]", m.ConfidenceScore)
	}
	if m.MitreTechnique == "" {
		return fmt.Errorf("mitre technique is required")
	}
	return nil
}

// MitreMappingDAO provides database operations for MITRE mappings.
type MitreMappingDAO interface {
	// Create appends a new mapping record
	Create(ctx context.Context, mapping *MitreMapping) error

	// ListByScan returns all mappings recorded against a scan
	ListByScan(ctx context.Context, scanID types.ID) ([]*MitreMapping, error)
}

// mitreMappingDAO implements MitreMappingDAO.
type mitreMappingDAO struct {
	db *DB
}

// NewMitreMappingDAO creates a new MITRE mapping DAO.
func NewMitreMappingDAO(db *DB) MitreMappingDAO {
	return &mitreMappingDAO{db: db}
}

// Create appends a new mapping record.
func (d *mitreMappingDAO) Create(ctx context.Context, mapping *MitreMapping) error {
	if err := mapping.Validate(); err != nil {
		return fmt.Errorf("invalid mitre mapping: %w", err)
	}
	if mapping.ID == "" {
		mapping.ID = types.NewID()
	}

	query := `
		INSERT INTO mitre_mappings (
			id, scan_id, mitre_technique, technique_name, mitre_tactic,
			confidence_score, reasoning, automated, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	var scanID interface{}
	if !mapping.ScanID.IsZero() {
		scanID = mapping.ScanID
	}

	_, err := d.db.ExecContext(ctx, query,
		mapping.ID,
		scanID,
		mapping.MitreTechnique,
		mapping.TechniqueName,
		mapping.MitreTactic,
		mapping.ConfidenceScore,
		mapping.Reasoning,
		mapping.Automated,
	)
	if err != nil {
		return fmt.Errorf("failed to create mitre mapping: %w", err)
	}

	return nil
}

// ListByScan returns all mappings recorded against a scan.
func (d *mitreMappingDAO) ListByScan(ctx context.Context, scanID types.ID) ([]*MitreMapping, error) {
	query := `
		SELECT id, scan_id, mitre_technique, technique_name, mitre_tactic,
		       confidence_score, reasoning, automated, created_at
		FROM mitre_mappings
		WHERE scan_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := d.db.QueryContext(ctx, query, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mitre mappings: %w", err)
	}
	defer rows.Close()

	var mappings []*MitreMapping
	for rows.Next() {
		var mapping MitreMapping
		var rowScanID, reasoning sql.NullString

		err := rows.Scan(
			&mapping.ID,
			&rowScanID,
			&mapping.MitreTechnique,
			&mapping.TechniqueName,
			&mapping.MitreTactic,
			&mapping.ConfidenceScore,
			&reasoning,
			&mapping.Automated,
			&mapping.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mitre mapping: %w", err)
		}

		if rowScanID.Valid {
			mapping.ScanID = types.ID(rowScanID.String)
		}
		if reasoning.Valid {
			mapping.Reasoning = reasoning.String
		}

		mappings = append(mappings, &mapping)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mitre mappings: %w", err)
	}

	return mappings, nil
}
