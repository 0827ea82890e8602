package types

import (
	"fmt"
)

// FetchError reports a failed feed download: network error, timeout, or a
// non-2xx response. Status is zero when no response was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetchError(url string, status int, err error) *FetchError {
	return &FetchError{URL: url, Status: status, Err: err}
}

// ParseError reports a feed payload that is not a well-formed syndication
// document or lacks the expected channel/item structure.
type ParseError struct {
	Feed string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse feed %s: %v", e.Feed, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func NewParseError(feed string, err error) *ParseError {
	return &ParseError{Feed: feed, Err: err}
}

func IsFetchError(err error) bool {
	_, ok := err.(*FetchError)
	return ok
}

func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}
