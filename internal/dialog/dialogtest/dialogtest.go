// Package dialogtest provides a scripted dialog.Dialogs for tests.
package dialogtest

import (
	"context"
	"sync"

	"github.com/mithrel/quill/internal/dialog"
)

// Queue answers each picker with the next queued path. An empty path, or an
// empty queue, is a cancelled dialog.
type Queue struct {
	mu      sync.Mutex
	answers []string
	asked   []dialog.Options
}

func New(answers ...string) *Queue { return &Queue{answers: answers} }

// Push queues more answers.
func (q *Queue) Push(answers ...string) {
	q.mu.Lock()
	q.answers = append(q.answers, answers...)
	q.mu.Unlock()
}

// Asked returns the options of every dialog shown so far.
func (q *Queue) Asked() []dialog.Options {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]dialog.Options(nil), q.asked...)
}

func (q *Queue) OpenFile(ctx context.Context, opts dialog.Options) (string, bool, error) {
	return q.next(opts)
}

func (q *Queue) SaveFile(ctx context.Context, opts dialog.Options) (string, bool, error) {
	return q.next(opts)
}

func (q *Queue) next(opts dialog.Options) (string, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.asked = append(q.asked, opts)
	if len(q.answers) == 0 {
		return "", false, nil
	}
	a := q.answers[0]
	q.answers = q.answers[1:]
	return a, a != "", nil
}
