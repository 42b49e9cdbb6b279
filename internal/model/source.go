package model

import "fmt"

// Source identifies a supported storefront.
type Source string

const (
	SourceEpic      Source = "epic"
	SourceSteam     Source = "steam"
	SourceGOG       Source = "gog"
	SourceItchIO    Source = "itchio"
	SourceUbisoft   Source = "ubisoft"
	SourceAmazon    Source = "amazon"
	SourceMicrosoft Source = "microsoft"
)

// AllSources lists every supported storefront in default priority order.
// The order doubles as the deduplication tie-break when no priority is
// configured explicitly.
var AllSources = []Source{
	SourceEpic,
	SourceSteam,
	SourceGOG,
	SourceItchIO,
	SourceUbisoft,
	SourceAmazon,
	SourceMicrosoft,
}

var displayNames = map[Source]string{
	SourceEpic:      "Epic Games Store",
	SourceSteam:     "Steam",
	SourceGOG:       "GOG",
	SourceItchIO:    "itch.io",
	SourceUbisoft:   "Ubisoft Store",
	SourceAmazon:    "Amazon Prime Gaming",
	SourceMicrosoft: "Microsoft Store",
}

// DisplayName returns the storefront's human-readable name.
func (s Source) DisplayName() string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return string(s)
}

// Valid reports whether s is a known storefront.
func (s Source) Valid() bool {
	_, ok := displayNames[s]
	return ok
}

// ParseSource converts a config string to a Source.
func ParseSource(s string) (Source, error) {
	src := Source(s)
	if !src.Valid() {
		return "", fmt.Errorf("unknown source %q", s)
	}
	return src, nil
}
