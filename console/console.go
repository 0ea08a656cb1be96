// Package console drives an engine from a line-oriented input, printing every
// non-empty result.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/fulldump/inmemdb/command"
	"github.com/fulldump/inmemdb/engine"
)

type LineReader interface {
	ReadLine() (string, error)
}

type Options struct {
	// CommitOnEnd commits the open transactions when the input ends,
	// otherwise they are abandoned.
	CommitOnEnd bool
}

type scannerReader struct {
	scanner *bufio.Scanner
}

func NewScanner(r io.Reader) LineReader {
	return &scannerReader{scanner: bufio.NewScanner(r)}
}

func (s *scannerReader) ReadLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

type readlineReader struct {
	rl *readline.Instance
}

// NewReadline returns an interactive reader with prompt and history. Close
// must be called to restore the terminal.
func NewReadline(prompt, historyFile string) (LineReader, io.Closer, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "END",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("readline: %w", err)
	}
	return &readlineReader{rl: rl}, rl, nil
}

func (r *readlineReader) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if err == readline.ErrInterrupt {
		if len(line) == 0 {
			return "", io.EOF
		}
		return "", nil
	}
	return line, err
}

type readResult struct {
	line string
	err  error
}

// readLines reads one line from in per request. It runs apart from Run so a
// blocked read does not delay cancellation.
func readLines(in LineReader, requests <-chan struct{}, results chan<- readResult, done <-chan struct{}) {
	for range requests {
		line, err := in.ReadLine()
		select {
		case results <- readResult{line: line, err: err}:
		case <-done:
			return
		}
	}
}

// Run executes lines until END, end of input or ctx cancellation. It returns
// how many open transactions were finalized at the end.
func Run(ctx context.Context, in LineReader, out io.Writer, e *engine.Engine, options Options) (int, error) {

	requests := make(chan struct{})
	results := make(chan readResult)
	done := make(chan struct{})
	defer close(done)
	defer close(requests)
	go readLines(in, requests, results, done)

	var readErr error
	for {
		if ctx.Err() != nil {
			readErr = ctx.Err()
			break
		}

		requests <- struct{}{}

		var r readResult
		select {
		case <-ctx.Done():
			readErr = ctx.Err()
		case r = <-results:
		}
		if readErr != nil {
			break
		}

		if r.err == io.EOF {
			break
		}
		if r.err != nil {
			readErr = fmt.Errorf("read line: %w", r.err)
			break
		}

		output, kind := command.Run(e, r.line)
		if output != "" {
			if _, err := fmt.Fprintln(out, output); err != nil {
				readErr = fmt.Errorf("write output: %w", err)
				break
			}
		}
		if kind == command.KindEnd {
			break
		}
	}

	n, err := e.End(options.CommitOnEnd)
	if err != nil {
		return n, errors.Join(readErr, err)
	}

	return n, readErr
}
