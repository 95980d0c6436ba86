package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/unbound-force/clpmix/internal/classify"
	"github.com/unbound-force/clpmix/internal/loader"
)

// ErrNoAnswer is returned by Scripted when no answer matches a
// question and there is no fallback.
var ErrNoAnswer = errors.New("no scripted answer")

// Scripted answers questions from a fixed list. Each question receives
// the first unused answer whose Match occurs in the prompt
// (case-insensitively). Once every matching answer has been used the
// last one is repeated. Unmatched questions go to the fallback asker.
type Scripted struct {
	mu       sync.Mutex
	answers  []loader.Answer
	used     []bool
	fallback classify.Asker
	asked    []string
}

var _ classify.Asker = (*Scripted)(nil)

// NewScripted returns a Scripted asker. fallback may be nil.
func NewScripted(answers []loader.Answer, fallback classify.Asker) *Scripted {
	return &Scripted{
		answers:  answers,
		used:     make([]bool, len(answers)),
		fallback: fallback,
	}
}

// Ask implements classify.Asker.
func (s *Scripted) Ask(ctx context.Context, q classify.Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if answer, ok := s.next(q.Prompt); ok {
		return answer, nil
	}
	if s.fallback != nil {
		return s.fallback.Ask(ctx, q)
	}
	return "", fmt.Errorf("%w for %q", ErrNoAnswer, q.Prompt)
}

func (s *Scripted) next(prompt string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, prompt)

	lower := strings.ToLower(prompt)
	last := -1
	for i, a := range s.answers {
		if !strings.Contains(lower, strings.ToLower(a.Match)) {
			continue
		}
		if !s.used[i] {
			s.used[i] = true
			return a.Answer, true
		}
		last = i
	}
	if last >= 0 {
		return s.answers[last].Answer, true
	}
	return "", false
}

// Asked returns every prompt seen so far, in order.
func (s *Scripted) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}

// Unused returns the answers no question has matched.
func (s *Scripted) Unused() []loader.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []loader.Answer
	for i, a := range s.answers {
		if !s.used[i] {
			out = append(out, a)
		}
	}
	return out
}
