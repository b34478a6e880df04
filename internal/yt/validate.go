package yt

import "regexp"

var ytRegex = regexp.MustCompile(`(?i)^\s*https?://((www|m)\.)?(youtube\.com/(watch\?|shorts/)|youtu\.be/)`)

// IsYouTubeURL sert à filtrer le contenu du presse-papier.
func IsYouTubeURL(s string) bool {
	return ytRegex.MatchString(s)
}

// WatchURL reconstruit l'URL canonique d'une vidéo.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
