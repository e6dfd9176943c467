package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	mal "github.com/samsvp/mal"
)

const promptCont = "... "

var errOut io.Writer = os.Stderr

func runREPL() error {
	in := cfg.Factory()()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(cfg.HistoryFile); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readForm(ln, cfg.Prompt, promptCont)
		if !ok {
			fmt.Println()
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		fmt.Println(in.Rep(src))
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// readForm prompts until the collected lines read as a complete form or
// fail for a reason other than running out of input. It reports false on
// Ctrl-C or end of input.
func readForm(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if err != nil {
			// io.EOF, liner.ErrPromptAborted, or a broken terminal.
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, err := mal.ReadStr(src); mal.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}

// runPiped evaluates stdin one line at a time without prompts or line
// editing, printing each result.
func runPiped(r io.Reader, w io.Writer) error {
	in := cfg.Factory(mal.WithOutput(w))()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintln(w, in.Rep(line))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return nil
}
