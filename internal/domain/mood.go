package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Mood is an emotional-state label attached to an entry. The empty mood
// means "not set".
type Mood string

// moodGlyphs maps every label the presentation layer knows to the
// dash-separated code points of its emoji.
var moodGlyphs = map[Mood]string{
	// Expanded taxonomy.
	"Nenhuma Emoção":  "2753",
	"Aborrecimento":   "1f613",
	"Alegria":         "1f642",
	"Alívio":          "1f62e-200d-1f4a8",
	"Amor":            "2764-fe0f",
	"Ansiedade":       "1fae3",
	"Calma":           "1f60c",
	"Confiança":       "1f60e",
	"Constrangimento": "1fae5",
	"Coragem":         "1f60f",
	"Culpa":           "1f615",
	"Decepção":        "1fae0",
	"Desespero":       "1f628",
	"Estresse":        "1f912",
	"Felicidade":      "1f601",
	"Frustração":      "1f62b",
	"Inveja":          "1f644",
	"Medo":            "1f630",
	"Orgulho":         "1f929",
	"Paixão":          "1f60d",
	"Raiva":           "1f621",
	"Satisfação":      "1f973",
	"Sobrecarga":      "1f635-200d-1f4ab",
	"Solidão":         "1f636",
	"Surpresa":        "1f631",
	"Tristeza":        "1f62d",
	"Vergonha":        "1f636-200d-1f32b-fe0f",

	// Home view labels.
	"Feliz":      "1f601",
	"Triste":     "1f622",
	"Animado":    "1f929",
	"Ansioso":    "1f61f",
	"Calmo":      "1f60c",
	"Irritado":   "1f621",
	"Apaixonado": "1f60d",
	"Entediado":  "1f644",

	// Legacy labels.
	"happy": "1f60a",
	"sad":   "1f622",
	"love":  "2764-fe0f",
	"angry": "1f620",
}

// Known reports whether m is one of the enumerated labels.
func (m Mood) Known() bool {
	_, ok := moodGlyphs[m]
	return ok
}

// Icon returns the emoji for m, or "" for unset and unknown labels.
func (m Mood) Icon() string {
	seq, ok := moodGlyphs[m]
	if !ok {
		return ""
	}

	var b strings.Builder
	for _, cp := range strings.Split(seq, "-") {
		r, err := strconv.ParseUint(cp, 16, 32)
		if err != nil {
			return ""
		}
		b.WriteRune(rune(r))
	}
	return b.String()
}

// Moods returns every known label sorted alphabetically.
func Moods() []Mood {
	out := make([]Mood, 0, len(moodGlyphs))
	for m := range moodGlyphs {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
