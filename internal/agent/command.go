package agent

import (
	"errors"
	"strconv"
	"strings"
)

// Kind identifies a parsed command. The set is closed: the router switches
// over every kind, and anything unparseable becomes KindUnknown so the caller
// can fall through to its generic response.
type Kind int

const (
	KindUnknown Kind = iota
	KindScan
	KindHistory
	KindTrades
	KindStatus
	KindDashboard
	KindDashboardAll
	KindConfig
	KindSetupApi
	KindMonitor
	KindHelp
)

// Command is one parsed user command.
type Command struct {
	Kind    Kind
	Pair    string // dashboard, monitor
	Param   string // config
	Value   string // config
	ApiKey  string // setup_api
	Seconds int    // monitor
}

// Parse turns a raw input line into a Command. Verbs are case-insensitive.
// A recognized verb with a malformed argument list yields an error whose text
// is the user-facing correction message; unrecognized input yields
// KindUnknown with no error.
func Parse(input string) (Command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{Kind: KindUnknown}, nil
	}

	verb := strings.ToLower(fields[0])
	switch verb {
	case "scan":
		return Command{Kind: KindScan}, nil
	case "history":
		return Command{Kind: KindHistory}, nil
	case "trades":
		return Command{Kind: KindTrades}, nil
	case "status":
		return Command{Kind: KindStatus}, nil
	case "dashboard_all":
		return Command{Kind: KindDashboardAll}, nil
	case "help":
		return Command{Kind: KindHelp}, nil
	case "dashboard":
		if len(fields) < 2 {
			return Command{}, errors.New("correct format: dashboard [PAIR]")
		}
		return Command{Kind: KindDashboard, Pair: strings.ToUpper(fields[1])}, nil
	case "setup_api":
		if len(fields) < 2 {
			return Command{}, errors.New("correct format: setup_api [api_key]")
		}
		return Command{Kind: KindSetupApi, ApiKey: fields[1]}, nil
	case "config":
		if len(fields) < 3 {
			return Command{}, errors.New("correct format: config [param] [value]")
		}
		return Command{
			Kind:  KindConfig,
			Param: strings.ToLower(fields[1]),
			Value: strings.ToLower(fields[2]),
		}, nil
	case "monitor":
		if len(fields) != 3 {
			return Command{}, errors.New("correct format: monitor [PAIR] [TIME_IN_SECONDS]")
		}
		seconds, err := strconv.Atoi(fields[2])
		if err != nil {
			return Command{}, errors.New("time must be a number in seconds")
		}
		return Command{Kind: KindMonitor, Pair: strings.ToUpper(fields[1]), Seconds: seconds}, nil
	}

	return Command{Kind: KindUnknown}, nil
}
