package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// console reads user input one line at a time. A single goroutine owns the
// reader so prompts and the play loop share the same buffered input.
type console struct {
	in    io.Reader
	out   io.Writer
	once  sync.Once
	input chan string
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{in: in, out: out, input: make(chan string)}
}

// lines starts the reader on first use. The channel closes at EOF.
func (c *console) lines() <-chan string {
	c.once.Do(func() {
		go func() {
			defer close(c.input)
			sc := bufio.NewScanner(c.in)
			for sc.Scan() {
				c.input <- strings.TrimSpace(sc.Text())
			}
		}()
	})
	return c.input
}

func (c *console) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines():
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

func (c *console) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(c.out, label)
	return c.readLine(ctx)
}

// confirm asks a yes/no question. An empty answer picks def.
func (c *console) confirm(ctx context.Context, label string, def bool) (bool, error) {
	answer, err := c.prompt(ctx, label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
