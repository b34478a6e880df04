package yt

import "log/slog"

type subtitleItem struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ytdlpOutput représente la sortie JSON brute retournée par yt-dlp pour une vidéo.
// Seuls les champs utiles au transcript sont mappés.
//
// Subtitles et AutomaticCaptions sont des maps où :
//   - la clé (string) correspond au code langue de la piste (ex. "fr", "en", "fr-orig").
//   - la valeur ([]subtitleItem) est un slice listant toutes les pistes disponibles pour cette langue,
//     chaque élément contenant au minimum l'extension du fichier (Ext) et l'URL pour le télécharger.
type ytdlpOutput struct {
	ID                string                    `json:"id"`
	Title             string                    `json:"title"`
	Uploader          string                    `json:"uploader"`
	Subtitles         map[string][]subtitleItem `json:"subtitles"`
	AutomaticCaptions map[string][]subtitleItem `json:"automatic_captions"`
}

// ExtractedRaw contient le JSON raw, une liste de lignes d'avertissements
type ExtractedRaw struct {
	JSON     []byte
	Warnings []string
}

// LogWarnings remonte les avertissements de yt-dlp au logger.
func (r *ExtractedRaw) LogWarnings(logger *slog.Logger) {
	for _, w := range r.Warnings {
		logger.Warn("yt-dlp", slog.String("warning", w))
	}
}

// YtDlp représente la commande yt-dlp à exécuter (nom de binaire ou chemin) + args.
type YtDlp struct {
	Name    string
	Path    string // chemin vers l'exe ; vide => Name cherché dans le PATH
	Options ExtractOptions
	run     Runner
	logger  *slog.Logger
}
