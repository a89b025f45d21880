package view

import (
	"fmt"
	"strings"
)

// Descriptor describes one navigable application view.
type Descriptor struct {
	// Name is the unique identifier used on the command line and in
	// artifact file names.
	Name string `yaml:"name" json:"name"`

	// LoginRequired reports whether the view must be visited with an
	// authenticated session.
	LoginRequired bool `yaml:"login" json:"login"`

	// PathTemplate is the path relative to the base URL. It may contain
	// placeholders such as <username> and <recipe_id>.
	PathTemplate string `yaml:"path" json:"path"`

	// Description is a short human readable summary.
	Description string `yaml:"description" json:"description"`
}

// Catalog is an ordered, immutable collection of views with unique names.
type Catalog struct {
	views []Descriptor
	index map[string]int
}

// NewCatalog builds a catalog from the given views. Declaration order is kept.
func NewCatalog(views ...Descriptor) (*Catalog, error) {
	c := &Catalog{
		views: make([]Descriptor, 0, len(views)),
		index: make(map[string]int, len(views)),
	}
	for _, v := range views {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return nil, ErrEmptyViewName
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateView, name)
		}
		v.Name = name
		c.index[name] = len(c.views)
		c.views = append(c.views, v)
	}
	return c, nil
}

// All returns every view in declaration order.
func (c *Catalog) All() []Descriptor {
	return c.filter(func(Descriptor) bool { return true })
}

// PreLogin returns the views that are visited without a session.
func (c *Catalog) PreLogin() []Descriptor {
	return c.filter(func(d Descriptor) bool { return !d.LoginRequired })
}

// PostLogin returns the views that need an authenticated session.
func (c *Catalog) PostLogin() []Descriptor {
	return c.filter(func(d Descriptor) bool { return d.LoginRequired })
}

// Find returns the view with the given name.
func (c *Catalog) Find(name string) (Descriptor, error) {
	i, ok := c.index[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}
	return c.views[i], nil
}

// Names returns the view names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.views))
	for i, v := range c.views {
		names[i] = v.Name
	}
	return names
}

// Len returns the number of views.
func (c *Catalog) Len() int {
	return len(c.views)
}

func (c *Catalog) filter(keep func(Descriptor) bool) []Descriptor {
	out := make([]Descriptor, 0, len(c.views))
	for _, v := range c.views {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
