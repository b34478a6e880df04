package model

import (
	"fmt"
	"strings"
)

// Format est le format de téléchargement d'une piste.
type Format string

const (
	FormatJSON3 Format = "json3"
	FormatXML   Format = "srv1" // timedtext XML "<text start dur>"
	FormatVTT   Format = "vtt"
)

// formatAliases : extensions annoncées par yt-dlp ou les URLs timedtext
var formatAliases = map[string]Format{
	"json3":     FormatJSON3,
	"srv1":      FormatXML,
	"xml":       FormatXML,
	"timedtext": FormatXML,
	"vtt":       FormatVTT,
}

// ParseFormat accepte une extension (casse et espaces ignorés).
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("format de piste inconnu: %q", s)
}

func (f Format) String() string {
	return string(f)
}
