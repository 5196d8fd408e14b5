package tbashell

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/frc492/go-tbashell/webapi"
	"github.com/jimsnab/go-cmdline"
	"github.com/jimsnab/go-lane"
)

const defaultVerboseLevel = 1

type (
	// tbaClient is the part of webapi.WebRequest the dispatcher uses.
	tbaClient interface {
		Fetch(ctx context.Context, request string) (*webapi.Value, error)
		FetchPaged(ctx context.Context, pageRequest func(page int) (string, error)) (*webapi.Value, error)
		Entries() []*webapi.CacheEntry
		Stats() ([]webapi.OutcomeCount, error)
	}

	cmdDispatcher struct {
		l       lane.Lane
		api     tbaClient
		cmdLine *cmdline.CommandLine
	}

	// Result is the document a command fetched and how to print it.
	Result struct {
		Data    *webapi.Value
		level   int
		display displayFunc
	}
)

func newCmdDispatcher(l lane.Lane, api tbaClient) *cmdDispatcher {
	cd := &cmdDispatcher{
		l:       l,
		api:     api,
		cmdLine: cmdline.NewCommandLine(),
	}

	cd.cmdLine.RegisterCommand(
		fnCache,
		"cache?Lists the cached request URLs with their last-modified times",
	)

	cd.cmdLine.RegisterCommand(
		fnStats,
		"stats?Shows how many requests were served from cache, stored, empty or failed",
	)

	cd.cmdLine.RegisterCommand(
		fnEndpoints,
		"endpoints?Lists the request path templates behind the list models",
	)

	cd.cmdLine.RegisterCommand(
		fnDump,
		"dump <string-request>?Fetches a raw request path and dumps the value in Go syntax",
	)

	return cd
}

// Print writes the result at its verbose level.
func (r *Result) Print(w io.Writer) {
	r.display(w, r.Data, r.level)
}

// execute runs one shell command line and prints its output to w.
func (cd *cmdDispatcher) execute(ctx context.Context, w io.Writer, tokens []string) (err error) {
	if len(tokens) == 0 {
		return &CommandError{Kind: ErrSyntax}
	}

	ll := cd.l.SetLogLevel(lane.LogLevelError)
	cd.l.SetLogLevel(ll)
	if ll >= lane.LogLevelTrace {
		cd.l.Tracef("command: %s", strings.Join(tokens, " "))
	}

	switch tokens[0] {
	case "get", "list":
		var result *Result
		if result, err = cd.process(ctx, tokens); err != nil {
			return
		}
		result.Print(w)
		return
	}

	cc := &cmdContext{
		ctx: ctx,
		l:   cd.l,
		cd:  cd,
		out: w,
	}
	if procErr := cd.cmdLine.ProcessWithContext(cc, tokens); procErr != nil {
		if cc.err != nil {
			return cc.err
		}
		cd.l.Debugf("command %q rejected: %s", tokens[0], procErr.Error())
		return &CommandError{Kind: ErrSyntax, Cause: procErr}
	}
	return cc.err
}

// process runs a get or list command and returns the fetched document, or
// an error, never both.
func (cd *cmdDispatcher) process(ctx context.Context, tokens []string) (result *Result, err error) {
	switch {
	case len(tokens) == 2 && tokens[0] == "get":
		return cd.get(ctx, tokens[1])

	case (len(tokens) == 2 || len(tokens) == 3) && tokens[0] == "list":
		level := defaultVerboseLevel
		request := tokens[len(tokens)-1]
		if len(tokens) == 3 {
			if level, err = parseVerboseLevel(tokens[1]); err != nil {
				return
			}
		}
		return cd.list(ctx, level, request)
	}

	err = &CommandError{Kind: ErrSyntax}
	return
}

func parseVerboseLevel(token string) (level int, err error) {
	if !strings.HasPrefix(token, "-") {
		err = &CommandError{Kind: ErrVerboseLevel, Message: `Invalid request option, expecting "-<VerboseLevel>".`}
		return
	}

	level, numErr := strconv.Atoi(token[1:])
	if numErr != nil {
		err = &CommandError{
			Kind:    ErrVerboseLevel,
			Message: fmt.Sprintf("Verbose level must be an integer: %q is not a number", token[1:]),
			Cause:   numErr,
		}
		return
	}

	if level < 0 || level > 2 {
		err = &CommandError{Kind: ErrVerboseLevel, Message: "Verbose level must be 0, 1 or 2."}
	}
	return
}

func (cd *cmdDispatcher) get(ctx context.Context, request string) (result *Result, err error) {
	data, fetchErr := cd.api.Fetch(ctx, request)
	if fetchErr != nil || data == nil {
		err = &CommandError{
			Kind:    ErrNoData,
			Message: fmt.Sprintf("No data returned for request %q.", request),
			Cause:   fetchErr,
		}
		return
	}

	result = &Result{Data: data, level: 2, display: displayFull}
	return
}

func (cd *cmdDispatcher) list(ctx context.Context, level int, request string) (result *Result, err error) {
	model, filterText, _ := strings.Cut(request, "?")
	if strings.Contains(filterText, "?") {
		err = &CommandError{Kind: ErrSyntax, Message: `Invalid request syntax, expecting "<Model>?<Filters>".`}
		return
	}

	filters := emptyFilterSet()
	if filterText != "" {
		if filters, err = ParseFilterSet(filterText); err != nil {
			return
		}
	}

	ms, exists := modelTable[model]
	if !exists {
		msg := fmt.Sprintf("Invalid request %q", model)
		if suggestion := suggestModel(model); suggestion != "" {
			msg += fmt.Sprintf(", did you mean %q?", suggestion)
		}
		err = &CommandError{Kind: ErrUnknownModel, Message: msg}
		return
	}

	rs, found := ms.findShape(filters)
	if !found {
		cd.l.Debugf("no %s request takes filters %v", model, filters.Keys())
		err = ms.filterError(nil)
		return
	}

	data, fetchErr := cd.fetchShape(ctx, rs, filters, level)
	if fetchErr != nil {
		cd.l.Debugf("%s request failed: %s", model, fetchErr.Error())
		err = ms.filterError(fetchErr)
		return
	}

	if data != nil && rs.unwrap != "" && level < 2 {
		if !data.Has(rs.unwrap) {
			cd.l.Debugf("%s response has no %q member", model, rs.unwrap)
		}
		data = data.Get(rs.unwrap)
	}

	if data.IsNull() {
		err = ms.filterError(nil)
		return
	}

	result = &Result{Data: data, level: level, display: ms.display}
	return
}

func (cd *cmdDispatcher) fetchShape(ctx context.Context, rs *requestShape, filters *FilterSet, level int) (data *webapi.Value, err error) {
	ep, exists := webapi.Lookup(rs.endpoint)
	if !exists {
		err = fmt.Errorf("no endpoint named %s", rs.endpoint)
		return
	}

	args := filters.values()
	suffix := rs.suffix(level)

	if rs.paged {
		return cd.api.FetchPaged(ctx, func(page int) (string, error) {
			args["page"] = strconv.Itoa(page)
			return ep.Path(args, suffix)
		})
	}

	path, err := ep.Path(args, suffix)
	if err != nil {
		return
	}
	return cd.api.Fetch(ctx, path)
}
