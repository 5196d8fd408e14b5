package tbashell

import (
	"fmt"
	"io"
	"sort"
)

const commandHelp = `
Syntax: <Command>
<Command>:
	?				- Print the short help message.
	help				- Print the long help message (with raw request syntax).
	quit				- Exit this program.
	exit				- Exit this program.
	list [<Options>] <Model>	- Retrieve and list model data.
	get <Request>			- Send raw <Request> to the web server.
<Options>:
	-(0|1|2)			- Specifies output verbose level (0: minimum, 1: medium, 2: maximum - default is 1).
<Model>:
	status[?team=<TeamKey>&event=<EventKey>]
	teams[?(year=<Year>|team=<TeamKey>|event=<EventKey>|district=<DistrictKey>)]
	events?(year=<Year>|team=<TeamKey>[&year=<Year>]|event=<EventKey>|district=<DistrictKey>)
	districts?(year=<Year>|team=<TeamKey>)
	matches?(team=<TeamKey>&year=<Year>|event=<EventKey>[&team=<TeamKey>]|match=<MatchKey>)
	awards?(team=<TeamKey>[&year=<Year>]|event=<EventKey>[&team=<TeamKey>])
	rankings?(event=<EventKey>|district=<DistrictKey>)
	oprs?event=<EventKey>
	district_points?event=<EventKey>
	insights?event=<EventKey>
	predictions?event=<EventKey>
	alliances?event=<EventKey>
	years_participated?team=<TeamKey>
	robots?team=<TeamKey>
	media?team=<TeamKey>&year=<Year>
	social_media?team=<TeamKey>
`

const requestHelp = `<Request>:
	status							- TBA Status request.
	teams[/<Year>]/<PageNum>[/simple|keys]			- Team List Request with optional year and verbosity.
	team/<TeamKey>[/simple]					- Single Team Request with optional verbosity.
	team/<TeamKey>/years_participated			- Team Years Participated Request.
	team/<TeamKey>/districts				- Team Districts Request.
	team/<TeamKey>/robots					- Team Robots Request.
	team/<TeamKey>/events[/<Year>][/simple|keys]		- Team Events Request with optional year and verbosity.
	team/<TeamKey>/event/<EventKey>/matches[/simple|keys]	- Team Event Matches Request with optional verbosity.
	team/<TeamKey>/event/<EventKey>/awards			- Team Event Awards Request.
	team/<TeamKey>/event/<EventKey>/status			- Team Event Status Request.
	team/<TeamKey>/awards[/<Year>]				- Team Awards Request with optional year.
	team/<TeamKey>/matches[/<Year>][/simple|keys]		- Team Matches Request with optional year and verbosity.
	team/<TeamKey>/media/<Year>				- Team Media Request.
	team/<TeamKey>/social_media				- Team Social Media Request.
	events/<Year>[/simple|keys]				- Event List Request with optional verbosity.
	event/<EventKey>[/simple]				- Single Event Request with optional verbosity.
	event/<EventKey>/teams[/simple|keys]			- Event Teams Request with optional verbosity.
	event/<EventKey>/alliances				- Event Alliances Request.
	event/<EventKey>/insights				- Event Insights Request.
	event/<EventKey>/oprs					- Event OPR Request.
	event/<EventKey>/predictions				- Event Predictions Request.
	event/<EventKey>/rankings				- Event Rankings Request.
	event/<EventKey>/district_points			- Event District Points Request.
	event/<EventKey>/matches[/simple|keys]			- Event Matches Request with optional verbosity.
	event/<EventKey>/awards					- Event Awards Request.
	districts/<Year>					- District List Request.
	district/<DistrictKey>/teams[/simple|keys]		- District Teams Request with optional verbosity.
	district/<DistrictKey>/rankings				- District Rankings Request.
	district/<DistrictKey>/events[/simple|keys]		- District Events Request with optional verbosity.
	match/<MatchKey>[/simple]				- Match Request with optional verbosity.
`

// printHelp writes the command help, and with long set also the raw
// request syntax and the shell's extra commands.
func (cd *cmdDispatcher) printHelp(w io.Writer, long bool) {
	fmt.Fprint(w, commandHelp)
	if !long {
		return
	}

	fmt.Fprint(w, requestHelp)
	fmt.Fprintln(w, "<Shell>:")
	for _, line := range cd.extraCommands() {
		fmt.Fprintf(w, "\t%s\n", line)
	}
}

// extraCommands describes the commands registered with the command line
// processor, sorted.
func (cd *cmdDispatcher) extraCommands() []string {
	m := cd.cmdLine.Summary()
	named, _ := m["named"].([]any)

	lines := make([]string, 0, len(named))
	for _, cmd := range named {
		m2, ok := cmd.(map[string]any)
		if !ok {
			continue
		}
		primaryMap, _ := m2["primary"].(map[string]string)
		for arg, help := range primaryMap {
			lines = append(lines, fmt.Sprintf("%s\t- %s", arg, help))
		}
	}
	sort.Strings(lines)
	return lines
}
