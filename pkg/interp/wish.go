package interp

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/go-tkbind/tkbind/pkg/errors"
)

// frameMark prefixes every protocol line emitted by the child shell.
// Unmarked child output is forwarded verbatim to the driver's Log writer.
const frameMark = "\x01"

// bootstrapScript is loaded into the child shell at startup. It evaluates
// one command per stdin line and frames the result, base64-coded so that
// multi-line results survive line framing. Registered commands emit EVT
// frames carrying a list of the command name and its arguments.
const bootstrapScript = `namespace eval ::tkbind {}
proc ::tkbind::emit {tag payload} {
    puts stdout "\x01$tag [binary encode base64 [encoding convertto utf-8 $payload]]"
    flush stdout
}
proc ::tkbind::dispatch {} {
    if {[gets stdin line] < 0} { exit }
    if {[catch {uplevel #0 $line} result]} {
        ::tkbind::emit ERR $result
    } else {
        ::tkbind::emit OK $result
    }
}
fileevent stdin readable ::tkbind::dispatch
vwait ::tkbind::forever
`

// WishDriver creates interpreter connections by launching a wish-compatible
// shell in a child process and bridging commands over its stdin/stdout.
type WishDriver struct {
	// Path overrides the shell binary. Defaults to "wish", or "tclsh"
	// when CreateOptions.InitTk is false.
	Path string
	// Log receives unframed child output lines. Defaults to os.Stderr.
	Log io.Writer
}

// Create launches one child shell and returns the connection to it.
func (d *WishDriver) Create(opts CreateOptions) (Interp, error) {
	path := d.Path
	if path == "" {
		if opts.InitTk {
			path = "wish"
		} else {
			path = "tclsh"
		}
	}

	script, err := os.CreateTemp("", "tkbind-*.tcl")
	if err != nil {
		return nil, err
	}
	if _, err := script.WriteString(bootstrapScript); err != nil {
		script.Close()
		os.Remove(script.Name())
		return nil, err
	}
	script.Close()

	args := []string{script.Name()}
	if opts.InitTk {
		if opts.ClassName != "" {
			args = append(args, "-name", opts.ClassName)
		}
		if opts.Screen != "" {
			args = append(args, "-display", opts.Screen)
		}
		if opts.Use != "" {
			args = append(args, "-use", opts.Use)
		}
		if opts.Sync {
			args = append(args, "-sync")
		}
	}

	cmd := exec.Command(path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		os.Remove(script.Name())
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		os.Remove(script.Name())
		return nil, err
	}
	cmd.Stderr = d.Log
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		os.Remove(script.Name())
		return nil, err
	}

	w := &wishInterp{
		cmd:      cmd,
		stdin:    stdin,
		script:   script.Name(),
		log:      cmd.Stderr,
		commands: make(map[string]CommandFunc),
		replies:  make(chan wishReply),
		done:     make(chan struct{}),
	}
	go w.pump(stdout)
	return w, nil
}

type wishReply struct {
	result string
	err    error
}

// wishInterp is one child-shell connection. Calls are serialized: the
// protocol allows a single in-flight command, matching the synchronous
// model of the binding layer.
type wishInterp struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	script string
	log    io.Writer

	callMu  sync.Mutex
	replies chan wishReply
	done    chan struct{}

	mu       sync.Mutex
	commands map[string]CommandFunc
	tracer   Tracer
	closed   bool
}

// pump reads framed lines from the child until its stdout closes.
// OK/ERR frames answer the in-flight Call; EVT frames dispatch registered
// commands on their own goroutine so a callback may itself issue Calls.
func (w *wishInterp) pump(stdout io.Reader) {
	defer close(w.done)
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, frameMark) {
			if w.log != nil {
				fmt.Fprintln(w.log, line)
			}
			continue
		}
		tag, payload, _ := strings.Cut(line[len(frameMark):], " ")
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			continue // malformed frame, drop
		}
		body := string(decoded)

		switch tag {
		case "OK":
			w.replies <- wishReply{result: body}
		case "ERR":
			w.replies <- wishReply{err: errors.Errorf("interp.Call", errors.KindInterp, "%s", body)}
		case "EVT":
			w.dispatchEvent(body)
		}
	}
}

// dispatchEvent decodes "name arg..." and invokes the named command.
func (w *wishInterp) dispatchEvent(body string) {
	parts, err := SplitList(body)
	if err != nil || len(parts) == 0 {
		return
	}
	w.mu.Lock()
	fn := w.commands[parts[0]]
	w.mu.Unlock()
	if fn == nil {
		return
	}
	go func() {
		defer errors.Recover("interp.wish.event")
		if _, err := fn(parts[1:]...); err != nil {
			errors.Report(errors.E("interp.wish.event", errors.KindInterp, err))
		}
	}()
}

func (w *wishInterp) Call(tokens ...string) (string, error) {
	w.callMu.Lock()
	defer w.callMu.Unlock()

	line := QuoteList(tokens...)
	if _, err := io.WriteString(w.stdin, line+"\n"); err != nil {
		err = errors.E("interp.Call", errors.KindInterp, err)
		w.trace(tokens, "", err)
		return "", err
	}

	select {
	case reply := <-w.replies:
		w.trace(tokens, reply.result, reply.err)
		return reply.result, reply.err
	case <-w.done:
		err := errors.Errorf("interp.Call", errors.KindInterp, "interpreter process exited")
		w.trace(tokens, "", err)
		return "", err
	}
}

func (w *wishInterp) trace(tokens []string, result string, err error) {
	w.mu.Lock()
	t := w.tracer
	w.mu.Unlock()
	if t != nil {
		t.Trace(tokens, result, err)
	}
}

func (w *wishInterp) SplitList(s string) ([]string, error) {
	return SplitList(s)
}

func (w *wishInterp) CreateCommand(name string, fn CommandFunc) error {
	w.mu.Lock()
	if _, dup := w.commands[name]; dup {
		w.mu.Unlock()
		return errors.Errorf("interp.CreateCommand", errors.KindInterp,
			"command %q already exists", name)
	}
	w.commands[name] = fn
	w.mu.Unlock()

	proc := fmt.Sprintf(
		"proc %s args { ::tkbind::emit EVT [concat [list %s] $args] }",
		Quote(name), Quote(name))
	if _, err := w.Call("eval", proc); err != nil {
		w.mu.Lock()
		delete(w.commands, name)
		w.mu.Unlock()
		return err
	}
	return nil
}

func (w *wishInterp) DeleteCommand(name string) error {
	w.mu.Lock()
	_, ok := w.commands[name]
	delete(w.commands, name)
	w.mu.Unlock()
	if !ok {
		return errors.Errorf("interp.DeleteCommand", errors.KindLookup,
			"no command %q", name)
	}
	_, err := w.Call("rename", name, "")
	return err
}

func (w *wishInterp) SetTrace(t Tracer) {
	w.mu.Lock()
	w.tracer = t
	w.mu.Unlock()
}

func (w *wishInterp) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.stdin.Close()
	<-w.done
	err := w.cmd.Wait()
	os.Remove(w.script)
	return err
}
