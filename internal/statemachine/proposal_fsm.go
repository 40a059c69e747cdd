package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/arsavista/teklif-api/internal/models"
)

// ProposalFSM wraps a draft with its state machine. A draft has exactly one
// transition: save. Saved proposals never move again.
type ProposalFSM struct {
	draft *models.Draft
	fsm   *fsm.FSM
}

// NewProposalFSM creates a new draft state machine
func NewProposalFSM(draft *models.Draft) *ProposalFSM {
	status := draft.Status
	if status == "" {
		status = models.ProposalStatusDraft
	}

	pfsm := &ProposalFSM{
		draft: draft,
	}

	pfsm.fsm = fsm.NewFSM(
		status,
		fsm.Events{
			// draft → saved, one way
			{Name: "save", Src: []string{models.ProposalStatusDraft}, Dst: models.ProposalStatusSaved},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// Save transitions the draft to saved state
func (p *ProposalFSM) Save(ctx context.Context) error {
	if !p.draft.MaySave() {
		return fmt.Errorf("teklif zaten kaydedilmiş: %s", p.draft.Status)
	}

	if err := p.fsm.Event(ctx, "save"); err != nil {
		return fmt.Errorf("failed to save proposal: %w", err)
	}

	p.draft.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *ProposalFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *ProposalFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
