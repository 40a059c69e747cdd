package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsavista/teklif-api/internal/models"
)

func TestProposalFSM_Save(t *testing.T) {
	draft := &models.Draft{Status: models.ProposalStatusDraft}
	pfsm := NewProposalFSM(draft)

	assert.Equal(t, models.ProposalStatusDraft, pfsm.Current())
	assert.True(t, pfsm.Can("save"))

	require.NoError(t, pfsm.Save(context.Background()))
	assert.Equal(t, models.ProposalStatusSaved, draft.Status)
	assert.Equal(t, models.ProposalStatusSaved, pfsm.Current())
}

func TestProposalFSM_EmptyStatusTreatedAsDraft(t *testing.T) {
	draft := &models.Draft{}
	pfsm := NewProposalFSM(draft)

	assert.Equal(t, models.ProposalStatusDraft, pfsm.Current())
	require.NoError(t, pfsm.Save(context.Background()))
	assert.Equal(t, models.ProposalStatusSaved, draft.Status)
}

func TestProposalFSM_SavedIsTerminal(t *testing.T) {
	draft := &models.Draft{Status: models.ProposalStatusSaved}
	pfsm := NewProposalFSM(draft)

	assert.False(t, pfsm.Can("save"))
	err := pfsm.Save(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.ProposalStatusSaved, draft.Status)
}
