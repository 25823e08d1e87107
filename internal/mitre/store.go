package mitre

import (
	"context"
	"fmt"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/database"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// Confidence constants per step source. Generator output carries no
// usable confidence signal of its own, so both are fixed.
const (
	GeneratorConfidence = 0.75
	FallbackConfidence  = 0.90
)

// Store writes technique-to-evidence records. Mappings are append-only;
// there is no update path.
type Store struct {
	dao   database.MitreMappingDAO
	index *Index
}

// NewStore creates a mapping store over the given DAO.
func NewStore(dao database.MitreMappingDAO, index *Index) *Store {
	if index == nil {
		index = NewIndex()
	}
	return &Store{dao: dao, index: index}
}

// Index exposes the technique index backing the store.
func (s *Store) Index() *Index {
	return s.index
}

// Record appends one mapping tying a technique to the scan whose
// findings motivated it.
func (s *Store) Record(ctx context.Context, scanID types.ID, techniqueID, techniqueName, tacticName string, confidence float64, reasoning string) error {
	mapping := &database.MitreMapping{
		ScanID:          scanID,
		MitreTechnique:  techniqueID,
		TechniqueName:   techniqueName,
		MitreTactic:     tacticName,
		ConfidenceScore: confidence,
		Reasoning:       reasoning,
		Automated:       true,
	}

	if err := s.dao.Create(ctx, mapping); err != nil {
		return fmt.Errorf("failed to record mitre mapping: %w", err)
	}
	return nil
}
