package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	tbashell "github.com/frc492/go-tbashell"
	"github.com/jimsnab/go-cmdline"
	"github.com/jimsnab/go-lane"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/term"
)

var exitStatus int

func main() {
	opts, tokens := splitProcessArgs(os.Args[1:]) // exclude executable name in os.Args[0]

	cl := cmdline.NewCommandLine()

	cl.RegisterCommand(
		func(args cmdline.Values) error {
			return mainHandler(args, tokens)
		},
		"~?Runs the TBA shell. Command tokens after the options are run once; with none, commands are read from the console.",
		"[--trace]?Enable trace logging and print request spans to stderr",
		"[--config <string-config>]?Specify the config file. The default is config.json5.",
		"[--mcp]?Serve the tba_list and tba_get tools over stdio instead of running commands",
	)

	err := cl.Process(opts)
	if err != nil {
		cl.Help(err, "tbashell", opts)
		os.Exit(2)
	}
	os.Exit(exitStatus)
}

// Separates the leading -- options from the shell command tokens, which
// can themselves start with a dash (list -0 teams).
func splitProcessArgs(args []string) (opts, tokens []string) {
	n := 0
	for n < len(args) && strings.HasPrefix(args[n], "--") {
		if args[n] == "--config" && n+1 < len(args) {
			n++
		}
		n++
	}
	return args[:n], args[n:]
}

func mainHandler(args cmdline.Values, tokens []string) error {
	l := lane.NewLogLane(context.Background())

	isTrace := args["--trace"].(bool)
	if !isTrace {
		l.SetLogLevel(lane.LogLevelInfo)
	} else {
		shutdown, err := tbashell.StartTracing(os.Stderr)
		if err != nil {
			l.Errorf("can't start tracing: %s", err.Error())
		} else {
			defer shutdown(context.Background())
		}
	}

	configName := tbashell.DefaultConfigFile
	if args["--config"].(bool) {
		configName = args["config"].(string)
	}

	cfg, err := tbashell.LoadConfig(l, configName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %s\n", err.Error())
		exitStatus = 1
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	shell := tbashell.NewTBAShell(l, cfg, os.Stdout, nil)

	switch {
	case args["--mcp"].(bool):
		err = shell.ServeMCP(ctx, &mcp.StdioTransport{})
		if err != nil {
			l.Errorf("mcp server stopped: %s", err.Error())
		}
	case len(tokens) > 0:
		// the shell prints the message
		err = shell.RunBatch(ctx, tokens)
	default:
		err = shell.RunInteractive(ctx, os.Stdin, term.IsTerminal(int(os.Stdin.Fd())))
		if err != nil {
			l.Errorf("console input ended: %s", err.Error())
		}
	}

	if err != nil {
		exitStatus = 1
	}
	return nil
}
