package tbashell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/frc492/go-tbashell/webapi"
	"github.com/jimsnab/go-lane"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const prompt = "\nTBA Command (? for help): "

type (
	shellEngine struct {
		mu         sync.Mutex
		l          lane.Lane
		cfg        Config
		out        io.Writer
		api        *webapi.WebRequest
		dispatcher *cmdDispatcher
	}

	TBAShell interface {
		// Runs one command given as separate tokens, such as the process
		// arguments, printing its output or error message.
		RunBatch(ctx context.Context, tokens []string) error

		// Reads command lines from in until quit, exit, end of input or ctx
		// ends. With showPrompt set, a prompt is printed before each line.
		// A failed command prints its message and the loop continues.
		RunInteractive(ctx context.Context, in io.Reader, showPrompt bool) error

		// Runs one command line, printing its output. Errors are returned,
		// not printed.
		Execute(ctx context.Context, line string) error

		// Runs a get or list command and returns the fetched document
		// without printing it.
		Process(ctx context.Context, tokens []string) (*Result, error)

		// Serves the tba_list and tba_get tools over an MCP transport
		// until the client disconnects or ctx ends.
		ServeMCP(ctx context.Context, transport mcp.Transport) error
	}
)

// NewTBAShell makes a shell that prints to out. A nil httpClient uses the
// default transport.
func NewTBAShell(l lane.Lane, cfg Config, out io.Writer, httpClient *http.Client) TBAShell {
	api := webapi.NewWebRequest(l, webapi.ClientOptions{
		BaseURL:    cfg.BaseURL,
		Properties: cfg.RequestProperties(),
		HTTPClient: httpClient,
	})

	return &shellEngine{
		l:          l,
		cfg:        cfg,
		out:        out,
		api:        api,
		dispatcher: newCmdDispatcher(l, api),
	}
}

func (eng *shellEngine) RunBatch(ctx context.Context, tokens []string) error {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	if len(tokens) == 1 {
		if handled, _ := eng.builtinUnlocked(tokens[0]); handled {
			return nil
		}
	}

	err := eng.dispatcher.execute(ctx, eng.out, tokens)
	if err != nil {
		fmt.Fprintln(eng.out, err.Error())
	}
	return err
}

func (eng *shellEngine) RunInteractive(ctx context.Context, in io.Reader, showPrompt bool) error {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	lines, readErr := readLines(readCtx, in)
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(eng.out, "Program terminated.")
			return nil
		}

		if showPrompt {
			fmt.Fprint(eng.out, prompt)
		}

		var line string
		select {
		case <-ctx.Done():
			// the prompt is left without a newline
			if showPrompt {
				fmt.Fprintln(eng.out)
			}
			fmt.Fprintln(eng.out, "Program terminated.")
			return nil
		case err := <-readErr:
			return err
		case line = <-lines:
		}

		tokens := splitCommandLine(line)
		if len(tokens) == 0 {
			continue
		}

		if len(tokens) == 1 {
			handled, done := eng.builtinUnlocked(tokens[0])
			if done {
				return nil
			}
			if handled {
				continue
			}
		}

		if err := eng.dispatcher.execute(ctx, eng.out, tokens); err != nil {
			eng.l.Tracef("command failed: %s", err.Error())
			fmt.Fprintln(eng.out, err.Error())
		}
	}
}

// readLines scans in on its own goroutine so a blocked read does not hold
// off cancellation. readErr gets the scanner result once every line has
// been taken.
func readLines(ctx context.Context, in io.Reader) (lines <-chan string, readErr <-chan error) {
	lineCh := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lineCh <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- scanner.Err()
	}()

	return lineCh, errCh
}

// handles the commands that are not sent to the dispatcher
func (eng *shellEngine) builtinUnlocked(verb string) (handled, done bool) {
	switch verb {
	case "quit", "exit":
		fmt.Fprintln(eng.out, "Program terminated.")
		return true, true
	case "?":
		eng.dispatcher.printHelp(eng.out, false)
		return true, false
	case "help":
		eng.dispatcher.printHelp(eng.out, true)
		return true, false
	}
	return
}

func (eng *shellEngine) Execute(ctx context.Context, line string) error {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	return eng.dispatcher.execute(ctx, eng.out, splitCommandLine(line))
}

func (eng *shellEngine) Process(ctx context.Context, tokens []string) (*Result, error) {
	return eng.dispatcher.process(ctx, tokens)
}

func (eng *shellEngine) ServeMCP(ctx context.Context, transport mcp.Transport) error {
	server := newMCPServer(eng.dispatcher, eng.cfg.AppVersion)
	eng.l.Infof("serving MCP tools for %s", eng.cfg.BaseURL)
	return server.Run(ctx, transport)
}
