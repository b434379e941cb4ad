// Package pager computes pagination metadata for a known number of items:
// current and total page, the item range of the current page and the
// rendered navigation links.
package pager

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
)

// Mode selects how the page links window moves with the current page.
type Mode string

const (
	// ModeJumping shows fixed blocks of Delta pages.
	ModeJumping Mode = "Jumping"
	// ModeSliding keeps the current page centred in a window of 2*Delta+1 pages.
	ModeSliding Mode = "Sliding"
)

const (
	DefaultPerPage = 10
	DefaultDelta   = 10
	DefaultURLVar  = "pageID"
	DefaultMode    = ModeJumping

	defaultPrevText = "&lt;&lt; Back"
	defaultNextText = "Next &gt;&gt;"
)

var (
	// ErrMissingTotal is returned when the pager is built before the item count is known.
	ErrMissingTotal = errors.New("pager: total items not set")
	// ErrInvalidOptions wraps validation failures of Options.
	ErrInvalidOptions = errors.New("pager: invalid options")
)

// Options drive pager construction. Zero values are replaced by defaults.
type Options struct {
	TotalItems  *int       `mapstructure:"total_items" validate:"omitempty,gte=0"`
	PerPage     int        `mapstructure:"per_page" validate:"gte=1"`
	CurrentPage int        `mapstructure:"current_page"`
	Mode        Mode       `mapstructure:"mode" validate:"oneof=Jumping Sliding"`
	Delta       int        `mapstructure:"delta" validate:"gte=1"`
	URLVar      string     `mapstructure:"url_var" validate:"required"`
	Path        string     `mapstructure:"path"`
	ExtraVars   url.Values `mapstructure:"-"`
	PrevText    string     `mapstructure:"prev_text"`
	NextText    string     `mapstructure:"next_text"`
	Separator   string     `mapstructure:"separator"`
}

// WithDefaults returns a copy of o with every unset field filled in.
func (o Options) WithDefaults() Options {
	if o.PerPage == 0 {
		o.PerPage = DefaultPerPage
	}
	if o.Delta == 0 {
		o.Delta = DefaultDelta
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.URLVar == "" {
		o.URLVar = DefaultURLVar
	}
	if o.PrevText == "" {
		o.PrevText = defaultPrevText
	}
	if o.NextText == "" {
		o.NextText = defaultNextText
	}
	if o.Separator == "" {
		o.Separator = "&nbsp;"
	}
	return o
}

// WithTotal returns a copy of o carrying the given item count.
func (o Options) WithTotal(total int) Options {
	o.TotalItems = &total
	return o
}

var validate = validator.New()

// Validate checks the options after defaults were applied.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.TotalItems == nil {
		return ErrMissingTotal
	}
	return nil
}
