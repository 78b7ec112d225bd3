package layout

import (
	"github.com/pkg/errors"
	"orboracle/core"
)

// EncodeEvent encodes e the way the program logs it ("Program data: ...").
func EncodeEvent(e core.Event) ([]byte, error) {
	w := newWriter(128)
	w.typeID(Discriminator("event", e.EventName()))

	switch e := e.(type) {
	case core.ValueSubmitted:
		w.key(e.Submitter)
		w.i64(e.Timestamp)
		w.i128(e.SubmittedValue)
		w.i128(e.AggregatedValue)
		w.u64(e.Weight)
		w.u64(e.RewardLamports)
	case core.Funded:
		w.key(e.From)
		w.u64(e.Amount)
	case core.TokenDeposited:
		w.key(e.User)
		w.u64(e.Amount)
	case core.TokenWithdrawn:
		w.key(e.User)
		w.u64(e.Amount)
	case core.Voted:
		w.key(e.Target)
		w.key(e.Voter)
		w.boolean(e.IsBlacklist)
		w.u64(e.Weight)
	case core.BlacklistStatusChanged:
		w.key(e.Target)
		w.boolean(e.IsBlacklisted)
	default:
		return nil, errors.Errorf("layout: unknown event %T", e)
	}

	return w.bytes()
}

var eventDecoders = map[string]func(r *reader) core.Event{
	"ValueSubmitted": func(r *reader) core.Event {
		return core.ValueSubmitted{
			Submitter:       r.key(),
			Timestamp:       r.i64(),
			SubmittedValue:  r.i128(),
			AggregatedValue: r.i128(),
			Weight:          r.u64(),
			RewardLamports:  r.u64(),
		}
	},
	"Funded": func(r *reader) core.Event {
		return core.Funded{From: r.key(), Amount: r.u64()}
	},
	"TokenDeposited": func(r *reader) core.Event {
		return core.TokenDeposited{User: r.key(), Amount: r.u64()}
	},
	"TokenWithdrawn": func(r *reader) core.Event {
		return core.TokenWithdrawn{User: r.key(), Amount: r.u64()}
	},
	"Voted": func(r *reader) core.Event {
		return core.Voted{Target: r.key(), Voter: r.key(), IsBlacklist: r.boolean(), Weight: r.u64()}
	},
	"BlacklistStatusChanged": func(r *reader) core.Event {
		return core.BlacklistStatusChanged{Target: r.key(), IsBlacklisted: r.boolean()}
	},
}

// DecodeEvent decodes an event of the given name.
func DecodeEvent(name string, data []byte) (core.Event, error) {
	fn, ok := eventDecoders[name]
	if !ok {
		return nil, errors.Errorf("layout: unknown event %q", name)
	}

	r := newReader(data, Discriminator("event", name))
	e := fn(r)
	if r.err != nil {
		return nil, r.err
	}

	return e, nil
}
