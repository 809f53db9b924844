package domain

import (
	"errors"
	"fmt"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSearching
	PhaseFound
	PhaseEmpty
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSearching:
		return "searching"
	case PhaseFound:
		return "found"
	case PhaseEmpty:
		return "empty"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// A Notice is the transient notification raised by the last search
// attempt.
type Notice struct {
	Level NoticeLevel
	Text  string
}

// A SearchState is the display state of the barcode view.
//
// Err is the persistent inline message, Notice the transient one.
type SearchState struct {
	Barcode  string
	Loading  bool
	Err      string
	Products []Product
	Phase    Phase
	Notice   *Notice
}

// Reject records a submission refused before any request was issued.
// Results of the previous search stay visible.
func (s *SearchState) Reject(err error) {
	msg := ErrorMessage(err)
	s.Err = msg
	s.Notice = &Notice{Level: NoticeWarning, Text: msg}
}

// Begin resets the state for a new search of barcode.
func (s *SearchState) Begin(barcode string) {
	s.Barcode = barcode
	s.Err = ""
	s.Products = nil
	s.Notice = nil
	s.Loading = true
	s.Phase = PhaseSearching
}

// Finish applies the outcome of the search started by Begin.
func (s *SearchState) Finish(ps []Product, err error) {
	s.Loading = false

	switch {
	case err != nil:
		s.fail(err)
	case len(ps) == 0:
		s.fail(ErrNoProducts)
	default:
		s.Products = ps
		s.Err = ""
		s.Phase = PhaseFound
		s.Notice = &Notice{
			Level: NoticeSuccess,
			Text:  fmt.Sprintf("Found %d product(s)", len(ps)),
		}
	}
}

// Clear drops everything the view holds, as on teardown.
func (s *SearchState) Clear() {
	*s = SearchState{}
}

func (s *SearchState) fail(err error) {
	msg := ErrorMessage(err)
	s.Products = nil
	s.Err = msg

	if errors.Is(err, ErrNoProducts) {
		s.Phase = PhaseEmpty
		s.Notice = &Notice{Level: NoticeWarning, Text: msg}
		return
	}
	s.Phase = PhaseFailed
	s.Notice = &Notice{Level: NoticeError, Text: msg}
}

// Clone returns a copy that shares no slices with s.
func (s SearchState) Clone() SearchState {
	c := s
	if s.Products != nil {
		c.Products = make([]Product, len(s.Products))
		copy(c.Products, s.Products)
	}
	if s.Notice != nil {
		n := *s.Notice
		c.Notice = &n
	}
	return c
}
