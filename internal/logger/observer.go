package logger

import (
	"listharvest/internal/harvest"

	"github.com/rs/zerolog"
)

// Observer writes harvest events to a zerolog.Logger.
type Observer struct {
	log zerolog.Logger
}

// NewObserver returns an Observer logging through l.
func NewObserver(l zerolog.Logger) *Observer {
	return &Observer{log: l.With().Str("component", "harvest").Logger()}
}

func (o *Observer) Observe(e harvest.Event) {
	var ev *zerolog.Event
	msg := string(e.Kind)

	switch e.Kind {
	case harvest.EventProgressRead:
		ev = o.log.Info().
			Int("current", e.Progress.Current).
			Int("total", e.Progress.Total).
			Str("source", string(e.Progress.Source))
		msg = "progress read"
	case harvest.EventProgressFallback:
		ev = o.log.Debug()
		msg = "status text unavailable, estimating from visible items"
	case harvest.EventProgressUnavailable:
		ev = o.log.Warn()
		msg = "progress unavailable"
	case harvest.EventItemsAdded:
		ev = o.log.Info().Int("added", e.Added).Int("collected", e.Collected).Int("target", e.Target)
		msg = "collected new items"
	case harvest.EventNoNewItems:
		ev = o.log.Debug().Int("attempt", e.Attempt).Int("max_attempts", e.MaxAttempts)
		msg = "no new items"
	case harvest.EventAdvanceIssued:
		ev = o.log.Debug()
		msg = "clicked load more"
	case harvest.EventAdvanceNoControl:
		ev = o.log.Info()
		msg = "no load more control"
	case harvest.EventAdvanceFailed:
		ev = o.log.Warn()
		msg = "load more failed"
	case harvest.EventGrowthConfirmed:
		ev = o.log.Debug().Int("baseline", e.Collected)
		msg = "item list grew"
	case harvest.EventGrowthTimeout:
		ev = o.log.Warn().Int("baseline", e.Collected)
		msg = "item list did not grow"
	case harvest.EventCollectionError:
		ev = o.log.Error().Int("attempt", e.Attempt).Int("max_attempts", e.MaxAttempts)
		msg = "collection iteration failed"
	case harvest.EventDone:
		ev = o.log.Info().Int("collected", e.Collected).Int("target", e.Target).Str("reason", string(e.Reason))
		msg = "harvest finished"
	default:
		ev = o.log.Debug()
	}

	if e.Err != nil {
		ev = ev.Err(e.Err)
	}
	ev.Msg(msg)
}
