// Package accept implements the small slice of HTTP content negotiation the
// GraphQL endpoint needs: ranking an Accept header by quality weight and
// deciding whether the client would rather see HTML than JSON.
package accept

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// qualityPattern matches a q parameter with up to three decimal places,
// anchored inside the parameter block of one Accept entry.
var qualityPattern = regexp.MustCompile(`(^|;)\s*q=(0(\.\d{0,3})?|1(\.0{0,3})?)\s*(;|$)`)

// RankedTypes parses an Accept header value and returns the media type tokens
// ordered by descending quality weight. Entries without a valid q parameter
// weigh 1.0. Ties keep the order in which they appeared. Media type
// parameters are discarded.
func RankedTypes(header string) []string {
	if header == "" {
		header = "*/*"
	}

	type qualified struct {
		mediaType string
		weight    float64
	}

	raw := strings.Split(header, ",")
	entries := make([]qualified, 0, len(raw))
	for _, entry := range raw {
		mediaType, params, hasParams := strings.Cut(entry, ";")
		mediaType = strings.TrimSpace(mediaType)
		weight := 1.0
		if hasParams {
			if m := qualityPattern.FindStringSubmatch(params); m != nil {
				if q, err := strconv.ParseFloat(m[2], 64); err == nil {
					weight = q
				}
			}
		}
		entries = append(entries, qualified{mediaType: mediaType, weight: weight})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].weight > entries[j].weight
	})

	ranked := make([]string, len(entries))
	for i, e := range entries {
		ranked[i] = e.mediaType
	}
	return ranked
}

// WantsHTML reports whether the Accept header ranks text/html ahead of
// application/json. An absent type ranks below any present one, so a header
// naming neither yields false and plain API clients always get JSON.
func WantsHTML(header string) bool {
	ranked := RankedTypes(header)
	return typePriority(ranked, "text/html") > typePriority(ranked, "application/json")
}

func typePriority(ranked []string, mediaType string) int {
	for i, t := range ranked {
		if t == mediaType {
			return len(ranked) - i
		}
	}
	return 0
}
