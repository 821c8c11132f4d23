package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator"
)

// Search text bounds, counted in runes after trimming.
const (
	SearchMinLen = 2
	SearchMaxLen = 100
)

type searchQuery struct {
	Text string `validate:"required,min=2,max=100"`
}

// ValidateSearchQuery checks an explicitly submitted search string and
// returns it trimmed. It runs before any network request; an invalid
// query never reaches a provider.
func ValidateSearchQuery(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	err := validate.Struct(searchQuery{Text: trimmed})
	if err == nil {
		return trimmed, nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "required":
			return "", errors.New("search query cannot be empty")
		case "min":
			return "", errors.New("search query must be at least 2 characters")
		case "max":
			return "", errors.New("search query is too long (maximum 100 characters)")
		}
	}
	return "", errors.New("invalid search query")
}
