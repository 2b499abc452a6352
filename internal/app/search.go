// internal/app/search.go
package app

import (
	"strings"

	"github.com/llehouerou/antenna/internal/radiobrowser"
	"github.com/llehouerou/antenna/internal/station"
)

// parseQuery turns the search box text into directory filters. Words of
// the form key:value select a field (tag, country, cc); the remaining
// words form the name.
func parseQuery(q string) radiobrowser.Filters {
	var f radiobrowser.Filters
	var name []string
	for _, word := range strings.Fields(q) {
		key, value, ok := strings.Cut(word, ":")
		if !ok || value == "" {
			name = append(name, word)
			continue
		}
		switch strings.ToLower(key) {
		case "tag":
			f.Tag = value
		case "country":
			f.Country = value
		case "cc", "code":
			f.CountryCode = strings.ToUpper(value)
		default:
			name = append(name, word)
		}
	}
	f.Name = strings.Join(name, " ")
	return f
}

// mergeDiscover joins the top-voted and top-clicked lists, dropping
// stations that appear in both.
func mergeDiscover(voted, clicked []station.Station) []station.Station {
	seen := make(map[string]bool, len(voted)+len(clicked))
	out := make([]station.Station, 0, len(voted)+len(clicked))
	for _, list := range [][]station.Station{voted, clicked} {
		for _, st := range list {
			if seen[st.ID()] {
				continue
			}
			seen[st.ID()] = true
			out = append(out, st)
		}
	}
	return out
}

// suggestionText lists ready-to-type filters for the most popular tags and
// countries. Tags with spaces cannot be typed as one word and are skipped.
func suggestionText(tags []station.Tag, countries []station.Country) string {
	var parts []string
	n := 0
	for _, t := range tags {
		if n == suggestTags {
			break
		}
		if t.Name == "" || strings.ContainsAny(t.Name, " \t") {
			continue
		}
		parts = append(parts, "tag:"+t.Name)
		n++
	}
	n = 0
	for _, c := range countries {
		if n == suggestCountries {
			break
		}
		if c.ISOCode == "" {
			continue
		}
		parts = append(parts, "cc:"+c.ISOCode)
		n++
	}
	return strings.Join(parts, "  ")
}
