package tbashell

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/frc492/go-tbashell/webapi"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jimsnab/go-cmdline"
	"github.com/jimsnab/go-lane"
)

type (
	cmdContext struct {
		ctx context.Context
		l   lane.Lane
		cd  *cmdDispatcher
		out io.Writer
		err error
	}
)

// keep records a handler's error, so it survives the trip through the
// command line processor
func (cc *cmdContext) keep(err *error) {
	cc.err = *err
}

func newTable(out io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	return tw
}

func fnCache(args cmdline.Values) (err error) {
	cc := args[""].(*cmdContext)
	defer cc.keep(&err)

	entries := cc.cd.api.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(cc.out, "The cache is empty.")
		return
	}

	tw := newTable(cc.out)
	tw.AppendHeader(table.Row{"URL", "Last Modified"})
	for _, entry := range entries {
		lastModified := "-"
		if !entry.LastModified.IsZero() {
			lastModified = entry.LastModified.UTC().Format(http.TimeFormat)
		}
		tw.AppendRow(table.Row{entry.URL, lastModified})
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d cached", len(entries)), ""})
	tw.Render()
	return
}

func fnStats(args cmdline.Values) (err error) {
	cc := args[""].(*cmdContext)
	defer cc.keep(&err)

	counts, err := cc.cd.api.Stats()
	if err != nil {
		cc.l.Errorf("can't gather request stats: %s", err.Error())
		return
	}

	tw := newTable(cc.out)
	tw.AppendHeader(table.Row{"Outcome", "Requests"})
	for _, oc := range counts {
		tw.AppendRow(table.Row{oc.Outcome, oc.Count})
	}
	tw.Render()
	return
}

func fnEndpoints(args cmdline.Values) (err error) {
	cc := args[""].(*cmdContext)
	defer cc.keep(&err)

	tw := newTable(cc.out)
	tw.AppendHeader(table.Row{"Endpoint", "Request", "Arguments"})
	for _, name := range webapi.EndpointNames() {
		ep, _ := webapi.Lookup(name)
		tw.AppendRow(table.Row{ep.Name, ep.Template, strings.Join(ep.Params(), ", ")})
	}
	tw.Render()
	return
}

func fnDump(args cmdline.Values) (err error) {
	cc := args[""].(*cmdContext)
	defer cc.keep(&err)

	request := args["request"].(string)
	result, err := cc.cd.get(cc.ctx, request)
	if err != nil {
		return
	}

	cfg := spew.ConfigState{Indent: "    ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	cfg.Fdump(cc.out, result.Data)
	return
}
