package models

import "strings"

// Sport is the enumerated sport variant. Scoring and tie-break rules hang
// off it in the standings package.
type Sport string

const (
	SportUnknown    Sport = "unknown"
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
)

// Порядок важен: баскетбольные алиасы проверяются первыми.
var sportAliases = []struct {
	alias string
	sport Sport
}{
	{"BALONCESTO", SportBasketball},
	{"BASKET", SportBasketball},
	{"FUTBOL", SportFootball},
	{"FÚTBOL", SportFootball},
	{"FOOTBALL", SportFootball},
	{"SOCCER", SportFootball},
}

// ParseSport maps a free-text sport name onto a Sport. The name only has to
// contain one of the known aliases ("Fútbol 11" is football).
func ParseSport(name string) Sport {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return SportUnknown
	}
	for _, a := range sportAliases {
		if strings.Contains(upper, a.alias) {
			return a.sport
		}
	}
	return SportUnknown
}

func (s Sport) IsValid() bool {
	return s == SportFootball || s == SportBasketball
}
