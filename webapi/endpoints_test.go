package webapi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEndpointPath(t *testing.T) {
	ep, exists := Lookup("teams_year")
	if !exists {
		t.Fatal("teams_year missing")
	}

	path, err := ep.Path(map[string]string{"year": "2017", "page": "0"}, "keys")
	if err != nil {
		t.Fatal(err)
	}
	if path != "teams/2017/0/keys" {
		t.Errorf("unexpected path %s", path)
	}

	ep, _ = Lookup("team_event_status")
	path, err = ep.Path(map[string]string{"team": "frc492", "event": "2017wasno"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if path != "team/frc492/event/2017wasno/status" {
		t.Errorf("unexpected path %s", path)
	}
}

func TestEndpointMissingArg(t *testing.T) {
	ep, _ := Lookup("team_events_year")
	if _, err := ep.Path(map[string]string{"team": "frc492"}, ""); err == nil {
		t.Fatal("expected missing argument error")
	}
}

func TestEndpointEscapesArgs(t *testing.T) {
	ep, _ := Lookup("team")
	path, err := ep.Path(map[string]string{"team": "a/b c"}, "simple")
	if err != nil {
		t.Fatal(err)
	}
	if path != "team/a%2Fb%20c/simple" {
		t.Errorf("unexpected path %s", path)
	}
}

func TestEndpointParams(t *testing.T) {
	ep, _ := Lookup("team_event_matches")
	if diff := cmp.Diff([]string{"team", "event"}, ep.Params()); diff != "" {
		t.Error(diff)
	}

	if _, exists := Lookup("no_such_endpoint"); exists {
		t.Error("unexpected endpoint")
	}

	for _, name := range EndpointNames() {
		ep, _ := Lookup(name)
		args := map[string]string{}
		for _, p := range ep.Params() {
			args[p] = "x"
		}
		if _, err := ep.Path(args, ""); err != nil {
			t.Errorf("%s: %s", name, err.Error())
		}
	}
}
