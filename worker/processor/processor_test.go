package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orboracle/core"
)

type memCheckpoint struct {
	id    int64
	saved bool
}

func (m *memCheckpoint) Load(ctx context.Context) (int64, error) { return m.id, nil }

func (m *memCheckpoint) Save(ctx context.Context, id int64) error {
	m.id, m.saved = id, true
	return nil
}

type memInstructions []*core.Instruction

func (m memInstructions) Create(ctx context.Context, ins *core.Instruction) error { return nil }

func (m memInstructions) Find(ctx context.Context, traceID string) (*core.Instruction, bool, error) {
	return nil, true, errors.New("not found")
}

func (m memInstructions) Update(ctx context.Context, tx *db.DB, ins *core.Instruction, version int64) error {
	return nil
}

func (m memInstructions) List(ctx context.Context, fromID int64, limit int) ([]*core.Instruction, error) {
	var out []*core.Instruction
	for _, ins := range m {
		if ins.ID > fromID && len(out) < limit {
			out = append(out, ins)
		}
	}

	return out, nil
}

// fakeOracles fails instructions whose trace is listed in failures.
type fakeOracles struct {
	executed []int64
	failures map[string]core.InstructionStatus
	broken   bool

	// dirty marks the instruction done in memory before failing to commit
	dirty bool
}

func (f *fakeOracles) Execute(ctx context.Context, ins *core.Instruction) (*core.Execution, error) {
	if f.broken {
		return nil, errors.New("database unavailable")
	}

	if f.dirty {
		ins.Status = core.InstructionDone
		return nil, errors.New("commit: database is locked")
	}

	f.executed = append(f.executed, ins.ID)
	if status, ok := f.failures[ins.TraceID]; ok {
		ins.Status = status
		return nil, &core.InstructionError{Status: status, Err: errors.New("failed")}
	}

	ins.Status = core.InstructionDone
	return &core.Execution{Instruction: ins}, nil
}

func (f *fakeOracles) FindOracle(ctx context.Context, address solana.PublicKey) (*core.OracleView, error) {
	return nil, nil
}

func (f *fakeOracles) FindPosition(ctx context.Context, address solana.PublicKey) (*core.UserPosition, error) {
	return nil, nil
}

func (f *fakeOracles) ListOracles(ctx context.Context) ([]*core.OracleView, error) {
	return nil, nil
}

func TestProcessorRun(t *testing.T) {
	ctx := context.Background()
	cp := &memCheckpoint{}
	list := memInstructions{
		{ID: 1, TraceID: "a"},
		{ID: 2, TraceID: "b"},
		{ID: 3, TraceID: "c", Status: core.InstructionDone},
		{ID: 4, TraceID: "d"},
	}
	oracles := &fakeOracles{failures: map[string]core.InstructionStatus{"b": core.InstructionFailed}}

	w := New(cp, list, oracles, 10, time.Second)
	require.Nil(t, w.run(ctx))
	assert.Equal(t, []int64{1, 2, 4}, oracles.executed)
	assert.EqualValues(t, 4, cp.id)

	assert.NotNil(t, w.run(ctx), "queue drained")
}

func TestProcessorRetriesInfrastructureErrors(t *testing.T) {
	ctx := context.Background()
	cp := &memCheckpoint{}
	list := memInstructions{{ID: 1, TraceID: "a"}}
	oracles := &fakeOracles{broken: true}

	w := New(cp, list, oracles, 10, time.Second)
	assert.NotNil(t, w.run(ctx))
	assert.False(t, cp.saved)

	oracles.broken = false
	require.Nil(t, w.run(ctx))
	assert.Equal(t, []int64{1}, oracles.executed)
}

func TestProcessorKeepsCheckpointOnUncommittedWork(t *testing.T) {
	ctx := context.Background()
	cp := &memCheckpoint{}
	list := memInstructions{{ID: 1, TraceID: "a"}}
	oracles := &fakeOracles{dirty: true}

	w := New(cp, list, oracles, 10, time.Second)
	assert.NotNil(t, w.run(ctx))
	assert.False(t, cp.saved)
	assert.EqualValues(t, 0, cp.id)
}

func TestProcessorSkipsRejected(t *testing.T) {
	ctx := context.Background()
	cp := &memCheckpoint{}
	list := memInstructions{{ID: 1, TraceID: "a"}, {ID: 2, TraceID: "b"}}
	oracles := &fakeOracles{failures: map[string]core.InstructionStatus{"a": core.InstructionRejected}}

	w := New(cp, list, oracles, 10, time.Second)
	require.Nil(t, w.run(ctx))
	assert.Equal(t, []int64{1, 2}, oracles.executed)
	assert.EqualValues(t, 2, cp.id)
}
