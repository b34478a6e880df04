package yt

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/patrickprogramme/ytranscript/pkg/model"
)

const suffix = "-orig"

// clés de "subtitles" qui ne sont pas des sous-titres
var ignoredManualKeys = map[string]struct{}{
	"live_chat": {},
}

// ParseYTDLP transforme le JSON brut en struct Meta
func ParseYTDLP(raw []byte) (*model.Meta, error) {
	var y ytdlpOutput
	if err := json.Unmarshal(raw, &y); err != nil {
		return nil, fmt.Errorf("unmarshal ytdlp output: %w", err)
	}

	meta := &model.Meta{
		ID:       y.ID,
		Title:    y.Title,
		Uploader: y.Uploader,
	}

	// sous-titres manuels : une piste par langue, au bon format
	meta.ManualSubs = selectManualSubs(y.Subtitles, model.FormatJSON3)

	// sous-titres automatiques : uniquement la piste originale (-orig), pas les traductions
	meta.AutoSubs = selectCaptionOriginal(y.AutomaticCaptions, model.FormatJSON3)

	return meta, nil
}

// selectCaptionOriginal parcourt la map `auto` (automatic_captions) et renvoie
// les pistes dont la clé langue se termine par "-orig" et dont le format
// correspond au paramètre `format`. Le suffixe est retiré du code langue.
func selectCaptionOriginal(auto map[string][]subtitleItem, format model.Format) []model.SubtitleTrack {
	var out []model.SubtitleTrack
	for _, lang := range slices.Sorted(maps.Keys(auto)) {
		// on ne veut que les langues originales : -orig
		if !strings.HasSuffix(lang, suffix) {
			continue
		}
		if st, ok := firstWithFormat(auto[lang], format); ok {
			st.Lang = strings.TrimSuffix(lang, suffix)
			st.Source = model.SubSourceAutomatic
			out = append(out, st)
		}
	}
	return out
}

// selectManualSubs récupère les sous-titres manuels
func selectManualSubs(manual map[string][]subtitleItem, format model.Format) []model.SubtitleTrack {
	var out []model.SubtitleTrack
	for _, lang := range slices.Sorted(maps.Keys(manual)) {
		if _, skip := ignoredManualKeys[lang]; skip {
			continue
		}
		if st, ok := firstWithFormat(manual[lang], format); ok {
			st.Lang = lang
			st.Source = model.SubSourceManual
			out = append(out, st)
		}
	}
	return out
}

// firstWithFormat ne garde qu'une piste par langue
func firstWithFormat(items []subtitleItem, format model.Format) (model.SubtitleTrack, bool) {
	for _, it := range items {
		if it.URL == "" {
			continue
		}
		if pf, err := model.ParseFormat(it.Ext); err == nil && pf == format {
			return model.SubtitleTrack{Name: it.Name, Format: pf, URL: it.URL}, true
		}
	}
	return model.SubtitleTrack{}, false
}
