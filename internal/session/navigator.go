package session

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned for a navigation not allowed from the
// current page.
var ErrInvalidTransition = errors.New("invalid page transition")

// Page is the screen a session is looking at.
type Page int

const (
	Ordering Page = iota
	History
)

func (p Page) String() string {
	switch p {
	case Ordering:
		return "ordering"
	case History:
		return "history"
	default:
		return fmt.Sprintf("Page(%d)", int(p))
	}
}

// Navigator is the two-state Ordering/History switch. The zero value is on
// the Ordering page.
type Navigator struct {
	page Page
}

func (n *Navigator) Page() Page {
	return n.page
}

// ViewHistory moves Ordering -> History.
func (n *Navigator) ViewHistory() error {
	if n.page != Ordering {
		return fmt.Errorf("%w: view history from %s", ErrInvalidTransition, n.page)
	}
	n.page = History
	return nil
}

// Back moves History -> Ordering.
func (n *Navigator) Back() error {
	if n.page != History {
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, n.page)
	}
	n.page = Ordering
	return nil
}
