package game

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/lazharichir/carta/carta"
)

// Prompt is written before each input line
const Prompt = "Which direction? "

// Play runs the interactive turn loop: show the board, read one direction
// per line from in and play it, until the move budget is spent, the player
// quits or in is exhausted. Cancelling ctx stops the loop even while it is
// waiting for a line; the pending read on in is abandoned.
func (s *Session) Play(ctx context.Context, in io.Reader, out io.Writer) error {
	lines, done := readLines(in)
	defer close(done)

	for !s.Ended() {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(out, s.Render())
		fmt.Fprint(out, Prompt)

		var line inputLine
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case line = <-lines:
		}

		if line.eof {
			if line.err != nil {
				return fmt.Errorf("failed to read input: %w", line.err)
			}
			fmt.Fprintln(out)
			if _, err := s.Submit("quit"); err != nil {
				return err
			}
			break
		}

		_, err := s.Submit(line.text)
		switch {
		case err == nil:
		case errors.Is(err, carta.ErrInvalidDirection):
			fmt.Fprintf(out, "Invalid direction, try again (%v)\n", err)
		case errors.Is(err, carta.ErrIllegalMove):
			fmt.Fprintf(out, "You can't go that way, try again (%v)\n", err)
		default:
			return err
		}
	}

	fmt.Fprintln(out, s.Render())
	fmt.Fprintf(out, "Game over after %d moves: %s\n", s.Moves(), s.EndReason())
	return nil
}

type inputLine struct {
	text string
	eof  bool
	err  error
}

// readLines scans in on its own goroutine, delivering one line per receive.
// Closing done releases the goroutine once its current read returns.
func readLines(in io.Reader) (<-chan inputLine, chan<- struct{}) {
	lines := make(chan inputLine)
	done := make(chan struct{})

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- inputLine{text: scanner.Text()}:
			case <-done:
				return
			}
		}
		select {
		case lines <- inputLine{eof: true, err: scanner.Err()}:
		case <-done:
		}
	}()
	return lines, done
}
