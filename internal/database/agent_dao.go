package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// AgentType classifies what an analysis agent looks for.
type AgentType string

const (
	AgentTypeRecon         AgentType = "recon"
	AgentTypeVulnerability AgentType = "vulnerability"
	AgentTypeOSINT         AgentType = "osint"
	AgentTypeThreatIntel   AgentType = "threat_intel"
)

// Agent is a read-only analysis agent definition. Lifecycle is managed
// externally; the orchestrator only consumes active agents.
type Agent struct {
	ID             types.ID  `json:"id"`
	Name           string    `json:"name"`
	Type           AgentType `json:"agent_type"`
	PromptTemplate string    `json:"prompt_template"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// AgentDAO provides read access to the agent registry.
type AgentDAO interface {
	// ListActive returns all active agents
	ListActive(ctx context.Context) ([]*Agent, error)

	// GetByID retrieves an agent by ID
	GetByID(ctx context.Context, id types.ID) (*Agent, error)
}

// agentDAO implements AgentDAO.
type agentDAO struct {
	db *DB
}

// NewAgentDAO creates a new agent DAO.
func NewAgentDAO(db *DB) AgentDAO {
	return &agentDAO{db: db}
}

// ListActive returns all active agents.
func (d *agentDAO) ListActive(ctx context.Context) ([]*Agent, error) {
	query := `
		SELECT id, name, agent_type, prompt_template, is_active, created_at
		FROM agents
		WHERE is_active = 1
		ORDER BY name ASC
	`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active agents: %w", err)
	}
	defer rows.Close()

	var agents []*Agent
	for rows.Next() {
		var agent Agent
		err := rows.Scan(
			&agent.ID,
			&agent.Name,
			&agent.Type,
			&agent.PromptTemplate,
			&agent.IsActive,
			&agent.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, &agent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agents: %w", err)
	}

	return agents, nil
}

// GetByID retrieves an agent by ID.
func (d *agentDAO) GetByID(ctx context.Context, id types.ID) (*Agent, error) {
	query := `
		SELECT id, name, agent_type, prompt_template, is_active, created_at
		FROM agents
		WHERE id = ?
	`

	var agent Agent
	err := d.db.QueryRowContext(ctx, query, id).Scan(
		&agent.ID,
		&agent.Name,
		&agent.Type,
		&agent.PromptTemplate,
		&agent.IsActive,
		&agent.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("agent not found: %s", id)
	}

	return &agent, nil
}
