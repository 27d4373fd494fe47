package sites

import (
	"errors"
	"fmt"
)

var (
	// ErrElementNotFound marks a page whose markup lacks an expected element.
	ErrElementNotFound = errors.New("element not found")
	// ErrUnsupportedSite is returned when a URL matches no entry of the site table.
	ErrUnsupportedSite = errors.New("unsupported site")
)

// SelectorError reports which selector found nothing on which page.
type SelectorError struct {
	Selector string
	URL      string
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("%s: %q on %s", ErrElementNotFound, e.Selector, e.URL)
}

func (e *SelectorError) Unwrap() error { return ErrElementNotFound }

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL     string
	Code    int
	Snippet string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d body: %s", e.URL, e.Code, e.Snippet)
}
