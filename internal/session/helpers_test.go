package session

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

var errBackend = errors.New("backend unavailable")

// fakeAPI is an in-memory RecordAPI with switchable failures.
type fakeAPI struct {
	mu        sync.Mutex
	stored    []types.Question
	deleted   []types.Question
	deleteAll int
	failList  bool
	failSave  bool
	failDel   bool
}

func (f *fakeAPI) List(context.Context) ([]types.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errBackend
	}
	return append([]types.Question(nil), f.stored...), nil
}

func (f *fakeAPI) Replace(_ context.Context, qs []types.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errBackend
	}
	f.stored = append([]types.Question(nil), qs...)
	return nil
}

func (f *fakeAPI) DeleteOne(_ context.Context, q types.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDel {
		return errBackend
	}
	f.deleted = append(f.deleted, q)
	for i, s := range f.stored {
		if (q.ID != "" && s.ID == q.ID) || (q.ID == "" && s.SL == q.SL) {
			f.stored = append(f.stored[:i], f.stored[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeAPI) DeleteAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDel {
		return errBackend
	}
	f.deleteAll++
	f.stored = nil
	return nil
}

// questions builds n records with categories cycling through cats.
func questions(n int, cats ...string) []types.Question {
	if len(cats) == 0 {
		cats = []string{"General"}
	}
	out := make([]types.Question, n)
	for i := range out {
		out[i] = types.Question{
			Category: cats[i%len(cats)],
			Question: "Question " + strconv.Itoa(i+1),
		}
	}
	return out
}

// sls returns the SL of every record.
func sls(records []types.Question) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.SL
	}
	return out
}

// staticSource serves a fixed slice to a Projector.
type staticSource []types.Question

func (s staticSource) Snapshot() []types.Question { return s }
