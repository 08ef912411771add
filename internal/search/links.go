package search

import (
	"net/url"
	"strings"
)

const (
	directionsTemplate = "https://www.google.com/maps/dir/?api=1&destination="
	mapSearchTemplate  = "https://www.google.com/maps/search/?api=1&query="
)

// DirectionsURL deep-links to turn-by-turn directions to address.
func DirectionsURL(address string) string {
	return directionsTemplate + url.QueryEscape(strings.TrimSpace(address))
}

// MapSearchURL deep-links to a map search for text.
func MapSearchURL(text string) string {
	return mapSearchTemplate + url.QueryEscape(strings.TrimSpace(text))
}
