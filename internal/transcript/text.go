package transcript

import "strings"

// ExtractVideoID retourne le contenu situé après le dernier "v=" et avant le
// premier "&" qui suit. Aucune validation : sans "v=", toute l'entrée est
// retournée telle quelle.
// TODO: remplacer par net/url.ParseQuery une fois les URLs youtu.be et
// /shorts/ prises en charge, le découpage actuel les renvoie entières.
func ExtractVideoID(videoURL string) string {
	parts := strings.Split(videoURL, "v=")
	id, _, _ := strings.Cut(parts[len(parts)-1], "&")
	return id
}

// JoinEntries concatène le texte des entrées avec un espace, dans l'ordre reçu.
func JoinEntries(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.Text)
	}
	return strings.Join(parts, " ")
}

// Preview retourne les n premiers caractères (runes) de s, ou s inchangé si
// plus court.
func Preview(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
