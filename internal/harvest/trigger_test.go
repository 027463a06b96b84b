package harvest

import (
	"context"
	"errors"
	"testing"

	"listharvest/internal/page"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptAdvance(t *testing.T) {
	scrollErr := errors.New("element not visible")
	clickErr := errors.New("click intercepted")
	queryErr := errors.New("websocket closed")

	tests := []struct {
		name    string
		setup   func(p *fakePage)
		outcome AdvanceOutcome
		wantErr error
		clicks  int
	}{
		{
			name:    "no control",
			setup:   func(p *fakePage) {},
			outcome: AdvanceNoControl,
		},
		{
			name:    "click issued",
			setup:   func(p *fakePage) { p.keepControl = true },
			outcome: AdvanceIssued,
			clicks:  1,
		},
		{
			name: "scroll fails",
			setup: func(p *fakePage) {
				p.keepControl = true
				p.scrollErr = scrollErr
			},
			outcome: AdvanceFailed,
			wantErr: scrollErr,
		},
		{
			name: "click fails",
			setup: func(p *fakePage) {
				p.keepControl = true
				p.clickErr = clickErr
			},
			outcome: AdvanceFailed,
			wantErr: clickErr,
		},
		{
			name: "query fails",
			setup: func(p *fakePage) {
				p.queryErrs = map[string]error{DefaultSelectors().LoadMore: queryErr}
			},
			outcome: AdvanceFailed,
			wantErr: queryErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, rec := newTestHarvester(t, nil)
			p := newFakePage()
			tt.setup(p)

			res := h.AttemptAdvance(context.Background(), p)

			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.outcome == AdvanceIssued, res.Issued())
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.Err, tt.wantErr)
			} else {
				assert.NoError(t, res.Err)
			}
			assert.Equal(t, tt.clicks, p.clicks)
			require.Len(t, rec.events, 1)
		})
	}
}

func TestAttemptAdvance_RecoversPanic(t *testing.T) {
	h, rec := newTestHarvester(t, nil)
	p := newFakePage()
	p.keepControl = true
	p.clickPanic = true

	var res AdvanceResult
	require.NotPanics(t, func() {
		res = h.AttemptAdvance(context.Background(), p)
	})

	assert.Equal(t, AdvanceFailed, res.Outcome)
	assert.Equal(t, []EventKind{EventAdvanceFailed}, rec.kinds())
}

func TestAttemptAdvance_DoesNotWait(t *testing.T) {
	h, _ := newTestHarvester(t, nil)
	p := newFakePage()
	p.pending = [][]page.Anchor{anchors("u1")}

	res := h.AttemptAdvance(context.Background(), p)

	assert.True(t, res.Issued())
	assert.Empty(t, p.waits)
}

func TestAdvanceOutcomeString(t *testing.T) {
	assert.Equal(t, "issued", AdvanceIssued.String())
	assert.Equal(t, "no-control", AdvanceNoControl.String())
	assert.Equal(t, "failed", AdvanceFailed.String())
	assert.Equal(t, "AdvanceOutcome(7)", AdvanceOutcome(7).String())
}

func TestAwaitGrowth(t *testing.T) {
	h, rec := newTestHarvester(t, nil)
	p := newFakePage(anchors("u1", "u2", "u3")...)

	grew := h.AwaitGrowth(context.Background(), p, 2)
	stalled := h.AwaitGrowth(context.Background(), p, 3)

	assert.True(t, grew.Grew)
	assert.NoError(t, grew.Err)
	assert.False(t, stalled.Grew)
	assert.ErrorIs(t, stalled.Err, page.ErrTimeout)
	assert.Equal(t, []int{2, 3}, p.waits)
	assert.Equal(t, []EventKind{EventGrowthConfirmed, EventGrowthTimeout}, rec.kinds())
}
