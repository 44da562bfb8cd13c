package process

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

//go:embed compiler_server.mjs
var CompilerServerSource string

const (
	DefaultRuntime      = "node"
	DefaultStartTimeout = 10 * time.Second
	socketEnv           = "REACTPACK_SOCKET"
)

var DefaultRuntimeArgs = []string{"--input-type=module", "-"}

type CompilerOptions struct {
	// Runtime is the JavaScript runtime executable. The server script is
	// passed on stdin.
	Runtime      string
	RuntimeArgs  []string
	Dir          string
	Env          []string
	Stdout       io.Writer
	Stderr       io.Writer
	StartTimeout time.Duration
}

// ReactCompiler runs babel-plugin-react-compiler in a long lived runtime
// process. The process is started on first use and stopped by Stop.
type ReactCompiler struct {
	opts CompilerOptions

	mu      sync.Mutex
	cmd     *exec.Cmd
	tempDir string
	client  *http.Client
	exited  chan struct{}
	stopped bool
}

func NewReactCompiler(opts CompilerOptions) *ReactCompiler {
	if opts.Runtime == "" {
		opts.Runtime = DefaultRuntime
	}
	if opts.RuntimeArgs == nil {
		opts.RuntimeArgs = DefaultRuntimeArgs
	}
	if opts.StartTimeout == 0 {
		opts.StartTimeout = DefaultStartTimeout
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stderr
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &ReactCompiler{opts: opts}
}

// CompileError is returned when the compiler rejects a module.
type CompileError struct {
	Filename string
	Message  string
	Line     int
	Column   int
	Stack    string
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("react compiler: %s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("react compiler: %s: %s", e.Filename, e.Message)
}

type transformReply struct {
	Code  *string `json:"code"`
	Error *struct {
		Message string `json:"message"`
		Stack   string `json:"stack"`
		Loc     *struct {
			Line   int `json:"line"`
			Column int `json:"column"`
		} `json:"loc"`
	} `json:"error"`
}

// Transform compiles one module and returns the rewritten source.
func (c *ReactCompiler) Transform(ctx context.Context, filename, code string, options map[string]any) (string, error) {
	client, err := c.ensureStarted()
	if err != nil {
		return "", err
	}

	if options == nil {
		options = map[string]any{}
	}
	reqBody := map[string]any{
		"filename": filename,
		"code":     code,
		"options":  options,
	}

	var reply transformReply
	if err := postJSON(ctx, client, "/transform", reqBody, &reply); err != nil {
		return "", fmt.Errorf("failed to call react compiler for %s: %w", filename, err)
	}

	return decodeReply(filename, reply)
}

func decodeReply(filename string, reply transformReply) (string, error) {
	if reply.Error != nil {
		cerr := &CompileError{
			Filename: filename,
			Message:  reply.Error.Message,
			Stack:    reply.Error.Stack,
		}
		if reply.Error.Loc != nil {
			cerr.Line = reply.Error.Loc.Line
			cerr.Column = reply.Error.Loc.Column
		}
		return "", cerr
	}
	if reply.Code == nil {
		return "", fmt.Errorf("react compiler returned no code for %s", filename)
	}
	return *reply.Code, nil
}

func (c *ReactCompiler) ensureStarted() (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil, fmt.Errorf("react compiler stopped")
	}
	if c.client != nil {
		select {
		case <-c.exited:
			return nil, fmt.Errorf("react compiler runtime exited")
		default:
			return c.client, nil
		}
	}

	tempDir, err := os.MkdirTemp("", "reactpack-compiler-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create socket dir: %w", err)
	}
	socket := filepath.Join(tempDir, "compiler.sock")

	cmd := exec.Command(c.opts.Runtime, c.opts.RuntimeArgs...)
	cmd.Dir = c.opts.Dir
	cmd.Env = append(append(os.Environ(), c.opts.Env...), socketEnv+"="+socket)
	cmd.Stdout = c.opts.Stdout
	cmd.Stderr = c.opts.Stderr
	cmd.Stdin = strings.NewReader(CompilerServerSource)

	if err := cmd.Start(); err != nil {
		_ = os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to start %s: %w", c.opts.Runtime, err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := waitForSocket(socket, c.opts.StartTimeout, exited); err != nil {
		_ = cmd.Process.Kill()
		<-exited
		_ = os.RemoveAll(tempDir)
		return nil, err
	}

	c.cmd = cmd
	c.tempDir = tempDir
	c.exited = exited
	c.client = &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socket)
			},
		},
	}
	return c.client, nil
}

// Stop terminates the runtime if it was started. It is safe to call more
// than once.
func (c *ReactCompiler) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.cmd == nil {
		return nil
	}

	var err error
	select {
	case <-c.exited:
	default:
		err = c.cmd.Process.Kill()
		<-c.exited
	}

	if t, ok := c.client.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	_ = os.RemoveAll(c.tempDir)
	c.cmd = nil
	c.client = nil
	return err
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://localhost"+endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func waitForSocket(path string, timeout time.Duration, exited <-chan struct{}) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		select {
		case <-exited:
			return fmt.Errorf("react compiler runtime exited before listening on %s", path)
		case <-time.After(10 * time.Millisecond):
		}
	}
	return fmt.Errorf("timeout waiting for react compiler socket at %s", path)
}
