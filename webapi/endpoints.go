package webapi

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

type (
	// Endpoint is a named TBA v3 request path template. Placeholders are
	// written as {name}.
	Endpoint struct {
		Name     string
		Template string
	}
)

// EndpointTable maps endpoint names to TBA v3 request path templates.
var EndpointTable = map[string]string{
	"status": "status",

	"teams":                   "teams/{page}",
	"teams_year":              "teams/{year}/{page}",
	"team":                    "team/{team}",
	"team_years_participated": "team/{team}/years_participated",
	"team_districts":          "team/{team}/districts",
	"team_robots":             "team/{team}/robots",
	"team_events":             "team/{team}/events",
	"team_events_year":        "team/{team}/events/{year}",
	"team_event_matches":      "team/{team}/event/{event}/matches",
	"team_event_awards":       "team/{team}/event/{event}/awards",
	"team_event_status":       "team/{team}/event/{event}/status",
	"team_awards":             "team/{team}/awards",
	"team_awards_year":        "team/{team}/awards/{year}",
	"team_matches_year":       "team/{team}/matches/{year}",
	"team_media_year":         "team/{team}/media/{year}",
	"team_social_media":       "team/{team}/social_media",

	"events_year":           "events/{year}",
	"event":                 "event/{event}",
	"event_teams":           "event/{event}/teams",
	"event_alliances":       "event/{event}/alliances",
	"event_insights":        "event/{event}/insights",
	"event_oprs":            "event/{event}/oprs",
	"event_predictions":     "event/{event}/predictions",
	"event_rankings":        "event/{event}/rankings",
	"event_district_points": "event/{event}/district_points",
	"event_matches":         "event/{event}/matches",
	"event_awards":          "event/{event}/awards",

	"districts_year":    "districts/{year}",
	"district_teams":    "district/{district}/teams",
	"district_rankings": "district/{district}/rankings",
	"district_events":   "district/{district}/events",

	"match": "match/{match}",
}

// Lookup finds a named endpoint.
func Lookup(name string) (ep Endpoint, exists bool) {
	template, exists := EndpointTable[name]
	if exists {
		ep = Endpoint{Name: name, Template: template}
	}
	return
}

// EndpointNames returns the table's endpoint names, sorted.
func EndpointNames() []string {
	names := make([]string, 0, len(EndpointTable))
	for name := range EndpointTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Params lists the template placeholders in path order.
func (ep Endpoint) Params() []string {
	params := []string{}
	for _, segment := range strings.Split(ep.Template, "/") {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			params = append(params, segment[1:len(segment)-1])
		}
	}
	return params
}

// Path fills the template placeholders from args and appends the optional
// verbosity suffix (keys, simple).
func (ep Endpoint) Path(args map[string]string, suffix string) (path string, err error) {
	segments := strings.Split(ep.Template, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			param := segment[1 : len(segment)-1]
			value, exists := args[param]
			if !exists || value == "" {
				err = fmt.Errorf("endpoint %s: missing argument %q", ep.Name, param)
				return
			}
			segments[i] = url.PathEscape(value)
		}
	}

	path = strings.Join(segments, "/")
	if suffix != "" {
		path += "/" + suffix
	}
	return
}
