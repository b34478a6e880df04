package subtitles

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
)

// ParseJSON3Bytes parse un blob JSON ([]byte) et retourne la structure rawJSON3.
//
// Utilise json.Decoder en lecture depuis un bytes.Reader quand les données sont
// déjà présentes 100% en mémoire : adapté aux fichiers pas trop volumineux
func ParseJSON3Bytes(b []byte) (rawJSON3, error) {
	if len(b) == 0 {
		return rawJSON3{}, fmt.Errorf("ParseJSON3Bytes: %w", ErrEmptyInput)
	}
	return ParseJSON3Reader(bytes.NewReader(b))
}

// ParseJSON3Reader parse depuis un io.Reader (utile si on veut décoder depuis un flux)
func ParseJSON3Reader(r io.Reader) (rawJSON3, error) {
	var raw rawJSON3
	// Ne pas appeler DisallowUnknownFields() : le JSON contient souvent des champs
	// non mappés qu'on ignore.
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return raw, fmt.Errorf("ParseJSON3Reader: decode error: %w", err)
	}
	return raw, nil
}

// ParseTimedText parse le XML timedtext.
func ParseTimedText(b []byte) (rawTimedText, error) {
	var raw rawTimedText
	if len(bytes.TrimSpace(b)) == 0 {
		return raw, fmt.Errorf("ParseTimedText: %w", ErrEmptyInput)
	}
	if err := xml.Unmarshal(b, &raw); err != nil {
		return raw, fmt.Errorf("ParseTimedText: decode error: %w", err)
	}
	return raw, nil
}
