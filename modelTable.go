package tbashell

import (
	"fmt"
	"io"
	"strings"

	"github.com/frc492/go-tbashell/webapi"
)

type (
	// picks the keys/simple verbosity suffix for a verbose level
	suffixFunc func(level int) string

	// prints a fetched document at a verbose level
	displayFunc func(w io.Writer, data *webapi.Value, level int)

	// requestShape is one accepted filter key set and the endpoint it
	// selects.
	requestShape struct {
		keys     []string
		endpoint string
		suffix   suffixFunc
		paged    bool
		unwrap   string
	}

	modelSpec struct {
		name      string
		shapes    []requestShape
		expecting string
		display   displayFunc
	}
)

func listSuffix(level int) string {
	switch level {
	case 0:
		return "keys"
	case 1:
		return "simple"
	}
	return ""
}

func detailSuffix(level int) string {
	if level < 2 {
		return "simple"
	}
	return ""
}

func matchListSuffix(level int) string {
	if level == 0 {
		return "keys"
	}
	return ""
}

func noSuffix(level int) string {
	return ""
}

func displayFull(w io.Writer, data *webapi.Value, level int) {
	webapi.PrintData(w, data, "", "")
}

// projection prints key1 at level 0, key1 and key2 at level 1, and the
// whole document at level 2
func projection(key1, key2 string) displayFunc {
	return func(w io.Writer, data *webapi.Value, level int) {
		switch level {
		case 0:
			webapi.PrintData(w, data, key1, "")
		case 1:
			webapi.PrintData(w, data, key1, key2)
		default:
			webapi.PrintData(w, data, "", "")
		}
	}
}

// keyProjection prints only key at level 0 and the whole document otherwise
func keyProjection(key string) displayFunc {
	return func(w io.Writer, data *webapi.Value, level int) {
		if level == 0 {
			webapi.PrintData(w, data, key, "")
		} else {
			webapi.PrintData(w, data, "", "")
		}
	}
}

// perElement prints each array element with fn below level 2
func perElement(fn func(w io.Writer, element *webapi.Value)) displayFunc {
	return func(w io.Writer, data *webapi.Value, level int) {
		if data.Kind() != webapi.KindArray {
			webapi.PrintData(w, data, "", "")
			return
		}
		for _, element := range data.Items() {
			if level > 1 {
				webapi.PrintData(w, element, "", "")
			} else {
				fn(w, element)
			}
		}
	}
}

func displayRobot(w io.Writer, robot *webapi.Value) {
	webapi.PrintData(w, robot, "key", "robot_name")
}

func displayMediaLink(w io.Writer, media *webapi.Value) {
	site := media.Get("type").Str()
	link := "http://" + site + ".com/"
	if strings.EqualFold(site, "youtube") {
		link += "watch?v="
	}
	fmt.Fprintln(w, link+media.Get("foreign_key").Str())
}

func displaySocialLink(w io.Writer, social *webapi.Value) {
	site, _, _ := strings.Cut(social.Get("type").Str(), "-")
	fmt.Fprintln(w, "http://"+site+".com/"+social.Get("foreign_key").Str())
}

func shape(endpoint string, suffix suffixFunc, keys ...string) requestShape {
	return requestShape{keys: keys, endpoint: endpoint, suffix: suffix}
}

func pagedShape(endpoint string, keys ...string) requestShape {
	return requestShape{keys: keys, endpoint: endpoint, suffix: listSuffix, paged: true}
}

func unwrapShape(endpoint, member string, keys ...string) requestShape {
	return requestShape{keys: keys, endpoint: endpoint, suffix: noSuffix, unwrap: member}
}

const (
	expectEvent = `"event=<EventKey>"`
	expectTeam  = `"team=<TeamKey>"`
)

var modelTable = map[string]*modelSpec{
	"status": {
		shapes: []requestShape{
			shape("status", noSuffix),
			shape("team_event_status", noSuffix, "team", "event"),
		},
		expecting: `"team=<TeamKey>&event=<EventKey>"`,
		display:   displayFull,
	},
	"teams": {
		shapes: []requestShape{
			pagedShape("teams"),
			pagedShape("teams_year", "year"),
			shape("team", detailSuffix, "team"),
			shape("event_teams", listSuffix, "event"),
			shape("district_teams", listSuffix, "district"),
		},
		expecting: `"year=<Year>" or "team=<TeamKey>" or "event=<EventKey>" or "district=<DistrictKey>"`,
		display:   projection("key", "nickname"),
	},
	"events": {
		shapes: []requestShape{
			shape("events_year", listSuffix, "year"),
			shape("team_events", listSuffix, "team"),
			shape("event", detailSuffix, "event"),
			shape("district_events", listSuffix, "district"),
			shape("team_events_year", listSuffix, "team", "year"),
		},
		expecting: `"year=<Year>" or "team=<TeamKey>" or "team=<TeamKey>&year=<Year>" or "event=<EventKey>" or "district=<DistrictKey>"`,
		display:   projection("key", "name"),
	},
	"districts": {
		shapes: []requestShape{
			shape("districts_year", noSuffix, "year"),
			shape("team_districts", noSuffix, "team"),
		},
		expecting: `"year=<Year>" or "team=<TeamKey>"`,
		display:   projection("key", "display_name"),
	},
	"matches": {
		shapes: []requestShape{
			shape("event_matches", matchListSuffix, "event"),
			shape("match", detailSuffix, "match"),
			shape("team_matches_year", matchListSuffix, "team", "year"),
			shape("team_event_matches", matchListSuffix, "team", "event"),
		},
		expecting: `"team=<TeamKey>&year=<Year>" or "event=<EventKey>" or "event=<EventKey>&team=<TeamKey>" or "match=<MatchKey>"`,
		display:   keyProjection("key"),
	},
	"awards": {
		shapes: []requestShape{
			shape("team_awards", noSuffix, "team"),
			shape("event_awards", noSuffix, "event"),
			shape("team_awards_year", noSuffix, "team", "year"),
			shape("team_event_awards", noSuffix, "team", "event"),
		},
		expecting: `"team=<TeamKey>" or "team=<TeamKey>&year=<Year>" or "event=<EventKey>" or "event=<EventKey>&team=<TeamKey>"`,
		display:   projection("name", "event_key"),
	},
	"rankings": {
		shapes: []requestShape{
			unwrapShape("event_rankings", "rankings", "event"),
			shape("district_rankings", noSuffix, "district"),
		},
		expecting: `"event=<EventKey>" or "district=<DistrictKey>"`,
		display:   projection("rank", "team_key"),
	},
	"oprs": {
		shapes:    []requestShape{unwrapShape("event_oprs", "oprs", "event")},
		expecting: expectEvent,
		display:   displayFull,
	},
	"district_points": {
		shapes:    []requestShape{unwrapShape("event_district_points", "points", "event")},
		expecting: expectEvent,
		display:   displayFull,
	},
	"insights": {
		shapes:    []requestShape{shape("event_insights", noSuffix, "event")},
		expecting: expectEvent,
		display:   displayFull,
	},
	"predictions": {
		shapes:    []requestShape{shape("event_predictions", noSuffix, "event")},
		expecting: expectEvent,
		display:   displayFull,
	},
	"alliances": {
		shapes:    []requestShape{shape("event_alliances", noSuffix, "event")},
		expecting: expectEvent,
		display:   displayFull,
	},
	"years_participated": {
		shapes:    []requestShape{shape("team_years_participated", noSuffix, "team")},
		expecting: expectTeam,
		display:   displayFull,
	},
	"robots": {
		shapes:    []requestShape{shape("team_robots", noSuffix, "team")},
		expecting: expectTeam,
		display:   perElement(displayRobot),
	},
	"media": {
		shapes:    []requestShape{shape("team_media_year", noSuffix, "team", "year")},
		expecting: `"team=<TeamKey>&year=<Year>"`,
		display:   perElement(displayMediaLink),
	},
	"social_media": {
		shapes:    []requestShape{shape("team_social_media", noSuffix, "team")},
		expecting: expectTeam,
		display:   perElement(displaySocialLink),
	},
}

func init() {
	for name, ms := range modelTable {
		ms.name = name
	}
}

// modelNames lists the models in help order
var modelNames = []string{
	"status", "teams", "events", "districts", "matches", "awards", "rankings", "oprs",
	"district_points", "insights", "predictions", "alliances", "years_participated",
	"robots", "media", "social_media",
}

// findShape returns the shape whose keys are exactly the filter set's keys
func (ms *modelSpec) findShape(filters *FilterSet) (rs *requestShape, found bool) {
	for i := range ms.shapes {
		if filters.matches(ms.shapes[i].keys) {
			return &ms.shapes[i], true
		}
	}
	return
}

func (ms *modelSpec) filterError(cause error) error {
	return &CommandError{
		Kind:    ErrInvalidFilter,
		Message: "Invalid filter, expecting " + ms.expecting + ".",
		Cause:   cause,
	}
}
