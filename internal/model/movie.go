package model

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
)

// Movie is a film listed by the booking API.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description,omitempty"`
	Genre       Genres  `json:"genre"`
	Duration    int     `json:"duration,omitempty" validate:"omitempty,gt=0"` // minutes
	ReleaseDate string  `json:"releaseDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Director    string  `json:"director,omitempty"`
	Cast        string  `json:"cast,omitempty"`
	PosterURL   string  `json:"posterUrl,omitempty" validate:"omitempty,url"`
	TrailerURL  string  `json:"trailerUrl,omitempty" validate:"omitempty,url"`
	Rating      float64 `json:"rating,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// Genres is a movie's genre list. The API sends it either as a JSON array
// or as one string delimited by newlines or commas; both decode to a list.
type Genres []string

// UnmarshalJSON accepts a string, an array of strings or null.
func (g *Genres) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*g = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*g = normalizeGenres(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*g = ParseGenres(s)
	return nil
}

// ParseGenres splits a delimited genre string on newlines and commas.
func ParseGenres(s string) Genres {
	return normalizeGenres(strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ',' || r == '\r'
	}))
}

func normalizeGenres(parts []string) Genres {
	out := make(Genres, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
