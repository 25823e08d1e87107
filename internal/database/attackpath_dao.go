package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// PathSource identifies which planning path produced a step.
type PathSource string

const (
	PathSourceGenerator PathSource = "generator"
	PathSourceFallback  PathSource = "fallback"
)

// AttackPath is one risk-scored step of a campaign attack plan.
// Records are immutable once created.
type AttackPath struct {
	ID              types.ID             `json:"id"`
	CampaignID      types.ID             `json:"campaign_id"`
	PlanningRunID   types.ID             `json:"planning_run_id"`
	Phase           types.KillChainPhase `json:"phase"`
	MitreTactic     string               `json:"mitre_tactic"`
	MitreTechnique  string               `json:"mitre_technique"`
	TechniqueName   string               `json:"technique_name"`
	Description     string               `json:"description,omitempty"`
	RiskLevel       types.RiskLevel      `json:"risk_level"`
	RiskScore       float64              `json:"risk_score"`
	ToolsRequired   []string             `json:"tools_required,omitempty"`
	ToolChain       []string             `json:"tool_chain,omitempty"`
	FallbackTools   []string             `json:"fallback_tools,omitempty"`
	Prerequisites   []string             `json:"prerequisites,omitempty"`
	ExpectedOutcome string               `json:"expected_outcome,omitempty"`
	ExecutionOrder  int                  `json:"execution_order"`
	Recommended     bool                 `json:"recommended"`
	Source          PathSource           `json:"source"`
	Status          types.PathStatus     `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}

// AttackPathDAO provides database operations for attack paths.
type AttackPathDAO interface {
	// CreateBatch persists all steps of one planning run in a single
	// transaction, so a partially persisted plan never exists.
	CreateBatch(ctx context.Context, paths []*AttackPath) error

	// ListByCampaign returns a campaign's steps ordered by descending
	// risk score, matching display priority.
	ListByCampaign(ctx context.Context, campaignID types.ID) ([]*AttackPath, error)
}

// attackPathDAO implements AttackPathDAO.
type attackPathDAO struct {
	db *DB
}

// NewAttackPathDAO creates a new attack path DAO.
func NewAttackPathDAO(db *DB) AttackPathDAO {
	return &attackPathDAO{db: db}
}

// CreateBatch persists all steps of one planning run atomically.
func (d *attackPathDAO) CreateBatch(ctx context.Context, paths []*AttackPath) error {
	if len(paths) == 0 {
		return nil
	}

	return d.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO attack_paths (
				id, campaign_id, planning_run_id, phase, mitre_tactic, mitre_technique,
				technique_name, description, risk_level, risk_score, tools_required,
				tool_chain, fallback_tools, prerequisites, expected_outcome,
				execution_order, recommended, source, status, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		`

		for _, path := range paths {
			if path.ID == "" {
				path.ID = types.NewID()
			}
			if path.Status == "" {
				path.Status = types.PathStatusPlanned
			}

			toolsJSON, err := marshalList(path.ToolsRequired)
			if err != nil {
				return err
			}
			chainJSON, err := marshalList(path.ToolChain)
			if err != nil {
				return err
			}
			fallbackJSON, err := marshalList(path.FallbackTools)
			if err != nil {
				return err
			}
			prereqJSON, err := marshalList(path.Prerequisites)
			if err != nil {
				return err
			}

			_, err = tx.ExecContext(ctx, query,
				path.ID,
				path.CampaignID,
				path.PlanningRunID,
				path.Phase,
				path.MitreTactic,
				path.MitreTechnique,
				path.TechniqueName,
				path.Description,
				path.RiskLevel,
				path.RiskScore,
				toolsJSON,
				chainJSON,
				fallbackJSON,
				prereqJSON,
				path.ExpectedOutcome,
				path.ExecutionOrder,
				path.Recommended,
				path.Source,
				path.Status,
			)
			if err != nil {
				return fmt.Errorf("failed to insert attack path %s: %w", path.TechniqueName, err)
			}
		}

		return nil
	})
}

// ListByCampaign returns a campaign's steps ordered by descending risk score.
func (d *attackPathDAO) ListByCampaign(ctx context.Context, campaignID types.ID) ([]*AttackPath, error) {
	query := `
		SELECT id, campaign_id, planning_run_id, phase, mitre_tactic, mitre_technique,
		       technique_name, description, risk_level, risk_score, tools_required,
		       tool_chain, fallback_tools, prerequisites, expected_outcome,
		       execution_order, recommended, source, status, created_at
		FROM attack_paths
		WHERE campaign_id = ?
		ORDER BY risk_score DESC, execution_order ASC
	`

	rows, err := d.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attack paths: %w", err)
	}
	defer rows.Close()

	var paths []*AttackPath
	for rows.Next() {
		var path AttackPath
		var description, toolsJSON, chainJSON, fallbackJSON, prereqJSON, outcome sql.NullString

		err := rows.Scan(
			&path.ID,
			&path.CampaignID,
			&path.PlanningRunID,
			&path.Phase,
			&path.MitreTactic,
			&path.MitreTechnique,
			&path.TechniqueName,
			&description,
			&path.RiskLevel,
			&path.RiskScore,
			&toolsJSON,
			&chainJSON,
			&fallbackJSON,
			&prereqJSON,
			&outcome,
			&path.ExecutionOrder,
			&path.Recommended,
			&path.Source,
			&path.Status,
			&path.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attack path: %w", err)
		}

		if description.Valid {
			path.Description = description.String
		}
		if outcome.Valid {
			path.ExpectedOutcome = outcome.String
		}
		if path.ToolsRequired, err = unmarshalList(toolsJSON); err != nil {
			return nil, err
		}
		if path.ToolChain, err = unmarshalList(chainJSON); err != nil {
			return nil, err
		}
		if path.FallbackTools, err = unmarshalList(fallbackJSON); err != nil {
			return nil, err
		}
		if path.Prerequisites, err = unmarshalList(prereqJSON); err != nil {
			return nil, err
		}

		paths = append(paths, &path)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attack paths: %w", err)
	}

	return paths, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal list: %w", err)
	}
	return string(data), nil
}

func unmarshalList(col sql.NullString) ([]string, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(col.String), &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}
