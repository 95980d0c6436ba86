// Package prompt provides classify.Asker implementations: a line-based
// terminal prompt, a full-screen TUI prompt, and a scripted asker that
// replays answers from a file.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/unbound-force/clpmix/internal/classify"
)

// ErrNoInput is returned when the input stream ends before an answer
// is given.
var ErrNoInput = errors.New("input closed before an answer was given")

var (
	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))
)

// Terminal asks questions on a line-oriented terminal. Invalid answers
// are rejected with the validator's message and the question is asked
// again until a valid answer or end of input.
//
// Input is read by one goroutine started on the first Ask. Close stops
// it; a read already in progress still completes first.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer

	once      sync.Once
	lines     chan readResult
	done      chan struct{}
	closeOnce sync.Once
}

type readResult struct {
	text string
	err  error
}

var _ classify.Asker = (*Terminal)(nil)

// NewTerminal returns a Terminal reading answers from in and writing
// questions to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, done: make(chan struct{})}
}

// Close releases the reader goroutine. Ask returns ErrNoInput
// afterwards. Close is safe to call more than once.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return nil
}

// Ask implements classify.Asker.
func (t *Terminal) Ask(ctx context.Context, q classify.Question) (string, error) {
	select {
	case <-t.done:
		return "", ErrNoInput
	default:
	}
	t.once.Do(t.start)

	fmt.Fprintln(t.out, questionStyle.Render(q.Prompt))
	if q.Description != "" {
		fmt.Fprintln(t.out, hintStyle.Render(q.Description))
	}
	for {
		fmt.Fprint(t.out, cursorStyle.Render("> "))

		var r readResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(t.out)
			return "", ctx.Err()
		case <-t.done:
			fmt.Fprintln(t.out)
			return "", ErrNoInput
		case res, ok := <-t.lines:
			if !ok {
				return "", ErrNoInput
			}
			r = res
		}

		answer := strings.TrimSpace(r.text)
		if r.err != nil && answer == "" {
			fmt.Fprintln(t.out)
			if errors.Is(r.err, io.EOF) {
				return "", ErrNoInput
			}
			return "", fmt.Errorf("reading answer: %w", r.err)
		}
		if q.Validate != nil {
			if ok, msg := q.Validate(answer); !ok {
				fmt.Fprintln(t.out, errorStyle.Render(msg))
				continue
			}
		}
		return answer, nil
	}
}

// start launches the single reader goroutine. Lines are read one at a
// time as Ask consumes them so that a cancelled Ask never races a
// later one for the same input.
func (t *Terminal) start() {
	t.lines = make(chan readResult)
	go func() {
		defer close(t.lines)
		for {
			text, err := t.in.ReadString('\n')
			select {
			case <-t.done:
				return
			default:
			}
			select {
			case t.lines <- readResult{text: text, err: err}:
			case <-t.done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
}
