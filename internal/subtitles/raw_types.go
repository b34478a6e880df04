package subtitles

import (
	"encoding/xml"
	"strings"
)

// rawJSON3 représente la structure "brute" telle qu'on la récupère depuis yt-dlp / YouTube json3.
type rawJSON3 struct {
	WireMagic string     `json:"wireMagic,omitempty"`
	Events    []rawEvent `json:"events"`
}

type rawEvent struct {
	TStartMs    *int64   `json:"tStartMs,omitempty"`
	DDurationMs *int64   `json:"dDurationMs,omitempty"`
	AAppend     *int     `json:"aAppend,omitempty"`
	Segs        []rawSeg `json:"segs,omitempty"`
	// On ignore volontairement d'autres champs (wpWinPosId, wWinId, etc.)
}

type rawSeg struct {
	Utf8      string `json:"utf8"`
	TOffsetMs *int64 `json:"tOffsetMs,omitempty"`
}

// IsNewlineOnly indique si l'event est uniquement un retour à la ligne.
// Il retourne true pour des segs qui ne contiennent que "\n", "\\n" ou des espaces.
func (e rawEvent) IsNewlineOnly() bool {
	if len(e.Segs) == 0 {
		return false
	}
	for _, s := range e.Segs {
		t := strings.TrimSpace(s.Utf8)
		if t == "" || t == "\\n" {
			continue
		}
		// si un seg contient du contenu non-newline, il n'est pas "NewlineOnly"
		return false
	}
	return true
}

// text concatène les segs de l'event.
func (e rawEvent) text() string {
	var sb strings.Builder
	for _, s := range e.Segs {
		sb.WriteString(s.Utf8)
	}
	return sb.String()
}

// rawTimedText : format XML "timedtext" (srv1) servi par les baseUrl des captionTracks.
//
//	<transcript><text start="0.5" dur="1.2">Hello &amp;#39;world&amp;#39;</text></transcript>
type rawTimedText struct {
	XMLName xml.Name  `xml:"transcript"`
	Lines   []rawLine `xml:"text"`
}

type rawLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}
