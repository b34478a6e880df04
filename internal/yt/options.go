package yt

import (
	"strconv"
	"time"
)

// ExtractOptions : flags d'une extraction de métadonnées (yt-dlp -j).
type ExtractOptions struct {
	ShowWarnings bool
	// SocketTimeout est transmis à --socket-timeout ; 0 => valeur de yt-dlp
	SocketTimeout time.Duration
}

// NewExtractOptions : showWarnings vient du yaml de config (yt_dlp.show_warnings).
func NewExtractOptions(showWarnings bool, socketTimeout time.Duration) ExtractOptions {
	return ExtractOptions{ShowWarnings: showWarnings, SocketTimeout: socketTimeout}
}

// Args construit les arguments de yt-dlp pour url.
// --no-config en tête : les configs locales ne doivent pas modifier la sortie -j.
func (o ExtractOptions) Args(url string) []string {
	args := []string{"--no-config", "-j", "--skip-download", "--no-playlist", "--no-progress", "--no-update"}
	if !o.ShowWarnings {
		args = append(args, "--no-warnings")
	}
	if o.SocketTimeout > 0 {
		args = append(args, "--socket-timeout", strconv.FormatFloat(o.SocketTimeout.Seconds(), 'f', -1, 64))
	}
	return append(args, url)
}
