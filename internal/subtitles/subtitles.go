// Package subtitles décode les formats de sous-titres servis par YouTube
// (json3, timedtext XML) en entrées de transcript ordonnées.
package subtitles

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/patrickprogramme/ytranscript/internal/transcript"
	"github.com/patrickprogramme/ytranscript/pkg/model"
)

var (
	ErrEmptyInput        = errors.New("empty subtitle payload")
	ErrUnsupportedFormat = errors.New("unsupported subtitle format")
)

// Decode choisit le parseur selon le format de la piste.
func Decode(format model.Format, data []byte) ([]transcript.Entry, error) {
	switch format {
	case model.FormatJSON3:
		raw, err := ParseJSON3Bytes(data)
		if err != nil {
			return nil, err
		}
		return EntriesFromJSON3(raw), nil
	case model.FormatXML:
		raw, err := ParseTimedText(data)
		if err != nil {
			return nil, err
		}
		return EntriesFromTimedText(raw), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// EntriesFromJSON3 convertit les events json3 en entrées, dans l'ordre.
// Les events sans texte (retours à la ligne, marqueurs de fenêtre) sont ignorés.
func EntriesFromJSON3(raw rawJSON3) []transcript.Entry {
	out := make([]transcript.Entry, 0, len(raw.Events))
	for _, ev := range raw.Events {
		if len(ev.Segs) == 0 || ev.IsNewlineOnly() {
			continue
		}
		text := cleanText(ev.text())
		if text == "" {
			continue
		}
		out = append(out, transcript.Entry{
			Text:     text,
			Start:    msToSeconds(ev.TStartMs),
			Duration: msToSeconds(ev.DDurationMs),
		})
	}
	return out
}

// EntriesFromTimedText convertit les lignes timedtext ; les entités HTML sont décodées.
func EntriesFromTimedText(raw rawTimedText) []transcript.Entry {
	out := make([]transcript.Entry, 0, len(raw.Lines))
	for _, l := range raw.Lines {
		text := cleanText(html.UnescapeString(l.Text))
		if text == "" {
			continue
		}
		out = append(out, transcript.Entry{
			Text:     text,
			Start:    parseSeconds(l.Start),
			Duration: parseSeconds(l.Dur),
		})
	}
	return out
}

// cleanText remplace les retours à la ligne par des espaces et rogne.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func msToSeconds(ms *int64) float64 {
	if ms == nil {
		return 0
	}
	return float64(*ms) / 1000
}

func parseSeconds(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
