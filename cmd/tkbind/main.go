// Command tkbind exercises the binding layer against a wish-compatible
// interpreter: a self-check suite, an interactive command REPL, and a
// declarative scene builder.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docopt/docopt-go"

	"github.com/go-tkbind/tkbind/pkg/interp"
	"github.com/go-tkbind/tkbind/pkg/scene"
	"github.com/go-tkbind/tkbind/pkg/session"
)

var usage = `tkbind

Usage:
  tkbind [--debug]
  tkbind selftest [--debug]
  tkbind repl [--headless]
  tkbind scene FILE [--headless] [--hold]
  tkbind -h | --help
  tkbind -v | --version

Arguments:
  FILE  Path to a YAML scene file.

Options:
  --debug     Print elapsed wall-clock time on exit.
  --headless  Run against tclsh without initializing the display toolkit.
  --hold      Keep the built scene alive until interrupted.
  -h, --help  Display this help.
  -v, --version  Print tkbind version.
`

func main() {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		// Error in the usage doc. This should never happen.
		panic(err.Error())
	}

	if version, _ := opts.Bool("--version"); version {
		fmt.Println("tkbind", scene.Version)
		return
	}

	run := func() error {
		switch {
		case commandGiven(opts, "repl"):
			return runREPL(opts)
		case commandGiven(opts, "scene"):
			return runScene(opts)
		default:
			return runSelfTest()
		}
	}

	if debug, _ := opts.Bool("--debug"); debug {
		err = timed(run)
	} else {
		err = run()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "tkbind:", err)
		os.Exit(1)
	}
}

func commandGiven(opts docopt.Opts, name string) bool {
	given, _ := opts.Bool(name)
	return given
}

// defaultSession registers the wish driver and returns the pooled default
// session, headless when requested.
func defaultSession(opts docopt.Opts) (*session.Session, error) {
	interp.SetDriver(&interp.WishDriver{})
	headless, _ := opts.Bool("--headless")
	return session.Default().GetOrCreate(session.Options{NoInitTk: headless})
}

func runScene(opts docopt.Opts) error {
	path, err := opts.String("FILE")
	if err != nil {
		return err
	}

	s, err := scene.LoadFile(path)
	if err != nil {
		return err
	}

	root, err := defaultSession(opts)
	if err != nil {
		return err
	}
	defer session.Default().Drain() //nolint:errcheck

	if _, err := s.Build(root); err != nil {
		return err
	}

	if hold, _ := opts.Bool("--hold"); hold {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		<-interrupt
	}
	return nil
}
