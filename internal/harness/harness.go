package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanfield/cartsync/internal/engine"
	"github.com/rowanfield/cartsync/internal/model"
	"github.com/rowanfield/cartsync/internal/remote"
	"github.com/rowanfield/cartsync/internal/snapshot"
	"github.com/rowanfield/cartsync/internal/testutil"
)

// Runner executes a scenario against a fresh engine wired to in-memory
// collaborators with deterministic ids, server ids, and timestamps.
type Runner struct {
	eng  *engine.Engine
	snap *snapshot.Memory
	rem  *remote.Fake
}

// NewRunner builds the deterministic fixture a scenario runs against.
func NewRunner() *Runner {
	snap := snapshot.NewMemory()
	rem := remote.NewFake()

	srvSeq := 0
	rem.AssignID = func() string {
		srvSeq++
		return fmt.Sprintf("srv-%d", srvSeq)
	}

	localIDs := make([]string, 16)
	for i := range localIDs {
		localIDs[i] = fmt.Sprintf("%04d", i+1)
	}

	eng := engine.New(snap, rem,
		engine.WithQueueStore(snap),
		engine.WithIDGenerator(model.NewFixedIDGenerator(localIDs...)),
		engine.WithTimeSource(testutil.NewFixedTime(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))),
	)
	return &Runner{eng: eng, snap: snap, rem: rem}
}

// Run executes every step, failing the test on the first violated
// expectation.
func Run(t *testing.T, sc *Scenario) *Runner {
	t.Helper()

	r := NewRunner()
	ctx := context.Background()
	for i, step := range sc.Steps {
		r.apply(t, ctx, i, step)
	}
	return r
}

// RunWithGolden executes the scenario and compares the final engine,
// queue, and remote state against testdata/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) {
	t.Helper()

	r := Run(t, sc)

	state := struct {
		Items   []model.Item `json:"items"`
		Pending []model.Item `json:"pending"`
		Remote  []model.Item `json:"remote"`
	}{
		Items:   nonNil(r.eng.Items()),
		Pending: nonNil(r.eng.PendingItems()),
		Remote:  nonNil(r.remoteDocs(t)),
	}

	data, err := json.MarshalIndent(state, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, sc.Name, data)
}

func (r *Runner) apply(t *testing.T, ctx context.Context, i int, step Step) {
	t.Helper()

	switch {
	case step.Add != nil:
		_, err := r.eng.Add(ctx, step.Add.Name, step.Add.Qty, step.Add.Price)
		require.NoError(t, err, "step %d: add %s", i, step.Add.Name)

	case step.Update != nil:
		id := r.idByName(t, i, step.Update.Name)
		current, ok := r.eng.Get(id)
		require.True(t, ok)
		name, qty, price := current.Name, current.Quantity, current.UnitPrice
		if step.Update.NewName != "" {
			name = step.Update.NewName
		}
		if step.Update.Qty != nil {
			qty = *step.Update.Qty
		}
		if step.Update.Price != nil {
			price = *step.Update.Price
		}
		_, err := r.eng.Update(ctx, id, name, qty, price)
		require.NoError(t, err, "step %d: update %s", i, step.Update.Name)

	case step.Toggle != "":
		_, err := r.eng.Toggle(ctx, r.idByName(t, i, step.Toggle))
		require.NoError(t, err, "step %d: toggle %s", i, step.Toggle)

	case step.Remove != "":
		err := r.eng.Remove(ctx, r.idByName(t, i, step.Remove))
		require.NoError(t, err, "step %d: remove %s", i, step.Remove)

	case step.Online != nil:
		r.eng.SetOnline(*step.Online)

	case len(step.FailRemote) > 0 || len(step.HealRemote) > 0:
		// fall through to the injection handling below

	case step.Expect != nil:
		// handled below

	default:
		t.Fatalf("step %d: no action set", i)
	}

	for _, key := range step.FailRemote {
		r.rem.FailFor[key] = true
	}
	for _, key := range step.HealRemote {
		delete(r.rem.FailFor, key)
	}

	// Settle the remote follow-up work before any expectation.
	r.eng.Drain(ctx)

	if step.Expect != nil {
		r.check(t, i, step.Expect)
	}
}

func (r *Runner) check(t *testing.T, i int, exp *Expect) {
	t.Helper()

	if exp.Items != nil {
		assert.Len(t, r.eng.Items(), *exp.Items, "step %d: item count", i)
	}
	if exp.Pending != nil {
		assert.Equal(t, *exp.Pending, r.eng.PendingCount(), "step %d: pending count", i)
	}
	if exp.Unsynced != nil {
		unsynced := 0
		for _, it := range r.eng.Items() {
			if it.Local() {
				unsynced++
			}
		}
		assert.Equal(t, *exp.Unsynced, unsynced, "step %d: unsynced count", i)
	}
	if exp.PendingTotal != nil {
		assert.InDelta(t, *exp.PendingTotal, r.eng.PendingTotal(), 1e-9, "step %d: pending total", i)
	}
	if exp.RemoteDocs != nil {
		assert.Equal(t, *exp.RemoteDocs, r.rem.Len(), "step %d: remote docs", i)
	}
}

func (r *Runner) idByName(t *testing.T, i int, name string) string {
	t.Helper()
	for _, it := range r.eng.Items() {
		if it.Name == name {
			return it.ID
		}
	}
	t.Fatalf("step %d: no item named %q", i, name)
	return ""
}

func (r *Runner) remoteDocs(t *testing.T) []model.Item {
	t.Helper()
	docs, err := r.rem.ListAll(context.Background())
	require.NoError(t, err)
	return docs
}

func nonNil(items []model.Item) []model.Item {
	if items == nil {
		return []model.Item{}
	}
	return items
}
