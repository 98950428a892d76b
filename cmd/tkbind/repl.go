package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/go-tkbind/tkbind/pkg/session"
)

// runREPL reads interpreter commands line by line and evaluates them
// against the default session. With a TTY it offers line editing and
// history; otherwise it consumes stdin plainly.
func runREPL(opts docopt.Opts) error {
	root, err := defaultSession(opts)
	if err != nil {
		return err
	}
	defer session.Default().Drain() //nolint:errcheck

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return pipeLoop(root)
	}
	return lineLoop(root)
}

func historyPath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ".tkbind_history")
}

func lineLoop(root *session.Session) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	history := historyPath()
	if history != "" {
		if f, err := os.Open(history); err == nil {
			line.ReadHistory(f) //nolint:errcheck
			f.Close()
		}
	}
	defer func() {
		if history == "" {
			return
		}
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f) //nolint:errcheck
			f.Close()
		}
	}()

	for {
		input, err := line.Prompt("% ")
		if err != nil {
			// Ctrl-C or Ctrl-D ends the loop.
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" {
			return nil
		}
		line.AppendHistory(input)
		evaluate(root, input)
	}
}

func pipeLoop(root *session.Session) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		evaluate(root, input)
	}
	return scanner.Err()
}

func evaluate(root *session.Session, input string) {
	result, err := root.Do("eval", input)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return
	}
	if result != "" {
		fmt.Println(result)
	}
}
