package view

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Placeholder is a named substitution slot in a path template.
type Placeholder int

const (
	// PlaceholderUsername is replaced by the login username.
	PlaceholderUsername Placeholder = iota
	// PlaceholderRecipeID is replaced by the recipe id to visit.
	PlaceholderRecipeID
)

// Token returns the literal text of the placeholder in a template.
func (p Placeholder) Token() string {
	switch p {
	case PlaceholderUsername:
		return "<username>"
	case PlaceholderRecipeID:
		return "<recipe_id>"
	default:
		return "<unknown>"
	}
}

// String returns the placeholder token.
func (p Placeholder) String() string {
	return p.Token()
}

// allPlaceholders lists the closed set of known placeholders.
var allPlaceholders = []Placeholder{PlaceholderUsername, PlaceholderRecipeID}

// tokenPattern matches anything shaped like a placeholder.
var tokenPattern = regexp.MustCompile(`<[^<>/?#]*>`)

// Params holds the placeholder values available to the resolver.
// A placeholder with no entry is missing; an empty string counts as missing too.
type Params map[Placeholder]string

// NewParams builds resolver parameters from a username and a recipe id.
// An empty username is left out so templates that need it fail to resolve.
func NewParams(username string, recipeID int) Params {
	p := Params{PlaceholderRecipeID: strconv.Itoa(recipeID)}
	if username != "" {
		p[PlaceholderUsername] = username
	}
	return p
}

// Placeholders returns the known placeholders used by a template, in the
// order they first appear. Unknown tokens are reported as an error.
func Placeholders(template string) ([]Placeholder, error) {
	var out []Placeholder
	seen := make(map[Placeholder]bool)
	for _, tok := range tokenPattern.FindAllString(template, -1) {
		p, ok := lookupPlaceholder(tok)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlaceholder, tok)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

// Resolve turns a view's path template into an absolute URL on base.
//
// Every placeholder is replaced by its path-escaped value. A known
// placeholder without a value yields a *MissingParameterError and an unknown
// "<...>" token yields ErrUnknownPlaceholder, so a returned URL never carries
// an unresolved token. The substituted path is resolved against base by
// RFC 3986 reference resolution.
func Resolve(base *url.URL, d Descriptor, params Params) (*url.URL, error) {
	u, err := ResolveTemplate(base, d.PathTemplate, params)
	if err != nil {
		var mp *MissingParameterError
		if errors.As(err, &mp) {
			mp.View = d.Name
			return nil, mp
		}
		return nil, fmt.Errorf("view %q: %w", d.Name, err)
	}
	return u, nil
}

// ResolveTemplate is Resolve for a bare path template.
func ResolveTemplate(base *url.URL, template string, params Params) (*url.URL, error) {
	if base == nil || !base.IsAbs() || base.Host == "" {
		return nil, ErrInvalidBaseURL
	}
	if _, err := Placeholders(template); err != nil {
		return nil, err
	}

	resolved := template
	for _, p := range allPlaceholders {
		if !strings.Contains(resolved, p.Token()) {
			continue
		}
		v := params[p]
		if v == "" {
			return nil, &MissingParameterError{Placeholder: p}
		}
		resolved = strings.ReplaceAll(resolved, p.Token(), url.PathEscape(v))
	}

	ref, err := url.Parse(resolved)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", resolved, err)
	}
	return base.ResolveReference(ref), nil
}

// CheckParams verifies that every view can be resolved with params,
// without building any URL. It returns the first failure.
func CheckParams(views []Descriptor, params Params) error {
	for _, d := range views {
		needed, err := Placeholders(d.PathTemplate)
		if err != nil {
			return fmt.Errorf("view %q: %w", d.Name, err)
		}
		for _, p := range needed {
			if params[p] == "" {
				return &MissingParameterError{Placeholder: p, View: d.Name}
			}
		}
	}
	return nil
}

func lookupPlaceholder(tok string) (Placeholder, bool) {
	for _, p := range allPlaceholders {
		if p.Token() == tok {
			return p, true
		}
	}
	return 0, false
}
