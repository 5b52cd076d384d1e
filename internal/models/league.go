package models

import (
	"fmt"
	"strings"
)

// League identifies a supported competition. Team keys are scoped to a
// league and are not unique across leagues.
type League string

const (
	LeagueNBA   League = "nba"
	LeagueNHL   League = "nhl"
	LeagueNCAAM League = "ncaam"
)

// Leagues lists all supported leagues in a stable order.
func Leagues() []League {
	return []League{LeagueNBA, LeagueNHL, LeagueNCAAM}
}

// ParseLeague converts a string into a League, accepting any case.
func ParseLeague(s string) (League, error) {
	switch League(strings.ToLower(s)) {
	case LeagueNBA:
		return LeagueNBA, nil
	case LeagueNHL:
		return LeagueNHL, nil
	case LeagueNCAAM:
		return LeagueNCAAM, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLeague, s)
	}
}

// Valid reports whether the league is one of the supported set.
func (l League) Valid() bool {
	switch l {
	case LeagueNBA, LeagueNHL, LeagueNCAAM:
		return true
	}
	return false
}

func (l League) String() string {
	return string(l)
}
