package model

import (
	"fmt"
	"strings"
)

// SubSource représente la provenance d'une piste de sous-titres.
// automatic = générée automatiquement par Youtube (ASR)
// manual = fournie par l'auteur de la vidéo
type SubSource string

const (
	SubSourceUnknown   SubSource = "unknown"
	SubSourceAutomatic SubSource = "automatic"
	SubSourceManual    SubSource = "manual"
)

func (s SubSource) String() string {
	switch s {
	case SubSourceAutomatic:
		return "generated transcript"
	case SubSourceManual:
		return "manually created transcript"
	default:
		return "unknown transcript"
	}
}

// SubtitleTrack décrit une piste de sous-titres associée à une vidéo.
type SubtitleTrack struct {
	Lang   string    `json:"lang"`
	Name   string    `json:"name,omitempty"`
	Format Format    `json:"format,omitempty"`
	URL    string    `json:"url,omitempty"`
	Source SubSource `json:"source,omitempty"`
}

func (s SubtitleTrack) String() string {
	return fmt.Sprintf("SubtitleTrack(lang=%s, format=%s, source=%s)", s.Lang, s.Format, s.Source)
}

// Meta regroupe les métadonnées utiles extraites d'une vidéo YouTube.
type Meta struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Uploader   string          `json:"uploader,omitempty"`
	AutoSubs   []SubtitleTrack `json:"subtitles,omitempty"`
	ManualSubs []SubtitleTrack `json:"manual_subtitles,omitempty"`
}

func (m Meta) HasManualSubs() bool {
	return len(m.ManualSubs) != 0
}

func (m Meta) HasAutoSubs() bool {
	return len(m.AutoSubs) != 0
}

// Tracks retourne toutes les pistes, manuelles d'abord.
func (m Meta) Tracks() []SubtitleTrack {
	out := make([]SubtitleTrack, 0, len(m.ManualSubs)+len(m.AutoSubs))
	out = append(out, m.ManualSubs...)
	out = append(out, m.AutoSubs...)
	return out
}

func (m Meta) String() string {
	return fmt.Sprintf("Meta[ID=%s, Title=%q, Uploader=%s, Subtitles=%d]",
		m.ID, m.Title, m.Uploader, len(m.AutoSubs)+len(m.ManualSubs))
}

// Langs liste les codes langue présents dans tracks, dans l'ordre, sans doublon.
func Langs(tracks []SubtitleTrack) []string {
	seen := make(map[string]struct{}, len(tracks))
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if t.Lang == "" {
			continue
		}
		if _, ok := seen[t.Lang]; ok {
			continue
		}
		seen[t.Lang] = struct{}{}
		out = append(out, t.Lang)
	}
	return out
}

// FormatLangs affiche une liste de langues lisible, "(aucune)" si vide.
func FormatLangs(list []string) string {
	if len(list) == 0 {
		return "(aucune)"
	}
	return strings.Join(list, ", ")
}
