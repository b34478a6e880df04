package clipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrEmptyText : on ne copie pas une chaîne vide.
var ErrEmptyText = errors.New("le texte à copier ne peut pas être vide")

// Interface permet de remplacer le presse-papier système dans les tests.
type Interface interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// System est le presse-papier de l'OS (github.com/atotto/clipboard).
type System struct{}

func (System) ReadAll() (string, error) { return ReadAll() }

func (System) WriteAll(text string) error { return WriteAll(text) }

// Available indique si un mécanisme de presse-papier est utilisable
// (xclip/xsel/wl-clipboard sous Linux).
func Available() bool {
	return !clipboard.Unsupported
}

// ReadAll lit le contenu texte du presse-papier, normalisé (BOM, CRLF, espaces).
func ReadAll() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return Normalize(text), nil
}

// WriteAll écrit une chaîne de caractères dans le presse-papier.
// Retourne une erreur si l'opération échoue.
func WriteAll(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	return clipboard.WriteAll(text)
}

// Normalize retire le BOM éventuel, uniformise les fins de ligne et rogne.
func Normalize(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}
