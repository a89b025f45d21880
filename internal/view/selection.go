package view

import "strings"

// Group tokens accepted by ParseSelection in addition to view names.
const (
	TokenAll       = "all"
	TokenPreLogin  = "pre-login"
	TokenPostLogin = "post-login"
)

// SelectionKind identifies which part of the catalog a selection covers.
type SelectionKind int

const (
	// SelectAll selects every view.
	SelectAll SelectionKind = iota
	// SelectPreLogin selects views that need no session.
	SelectPreLogin
	// SelectPostLogin selects views that need a session.
	SelectPostLogin
	// SelectSingle selects one view by name.
	SelectSingle
)

// String returns the selection kind name.
func (k SelectionKind) String() string {
	switch k {
	case SelectAll:
		return TokenAll
	case SelectPreLogin:
		return TokenPreLogin
	case SelectPostLogin:
		return TokenPostLogin
	case SelectSingle:
		return "single"
	default:
		return "unknown"
	}
}

// Selection is a parsed user selection.
type Selection struct {
	Kind SelectionKind
	// Name is the view name for SelectSingle, empty otherwise.
	Name string
}

// ParseSelection parses a selection token. Group tokens are matched case
// insensitively; anything else is treated as a single view name.
// An empty token selects everything.
func ParseSelection(token string) Selection {
	t := strings.TrimSpace(token)
	switch strings.ToLower(t) {
	case "", TokenAll:
		return Selection{Kind: SelectAll}
	case TokenPreLogin:
		return Selection{Kind: SelectPreLogin}
	case TokenPostLogin:
		return Selection{Kind: SelectPostLogin}
	default:
		return Selection{Kind: SelectSingle, Name: t}
	}
}

// String returns the token the selection was parsed from.
func (s Selection) String() string {
	if s.Kind == SelectSingle {
		return s.Name
	}
	return s.Kind.String()
}

// Plan returns the ordered views a selection covers. A single name that is
// not in the catalog yields an empty plan rather than an error.
func Plan(sel Selection, c *Catalog) []Descriptor {
	switch sel.Kind {
	case SelectAll:
		return c.All()
	case SelectPreLogin:
		return c.PreLogin()
	case SelectPostLogin:
		return c.PostLogin()
	case SelectSingle:
		d, err := c.Find(sel.Name)
		if err != nil {
			return []Descriptor{}
		}
		return []Descriptor{d}
	default:
		return []Descriptor{}
	}
}

// NeedsLogin reports whether any planned view requires a session.
func NeedsLogin(views []Descriptor) bool {
	for _, v := range views {
		if v.LoginRequired {
			return true
		}
	}
	return false
}
