package pricing

import (
	"errors"

	"ktmobile/internal/domain"
)

// State of a product-page selection.
type State int

const (
	NoSelection State = iota
	StorageSelected
	ConditionSelected
	Priced
)

func (s State) String() string {
	switch s {
	case NoSelection:
		return "no_selection"
	case StorageSelected:
		return "storage_selected"
	case ConditionSelected:
		return "condition_selected"
	case Priced:
		return "priced"
	}
	return "unknown"
}

var errNoRecord = errors.New("session has no phone record")

// Session tracks one shopper's selection on a product page. Every change
// drops the previous quote; only the current tuple is ever priced.
type Session struct {
	rec     domain.PhoneRecord
	storage string
	grade   domain.Grade
	addons  domain.AddOns
	state   State
	quote   *domain.Quote
}

func NewSession(rec domain.PhoneRecord) *Session {
	return &Session{rec: rec}
}

func (s *Session) State() State            { return s.state }
func (s *Session) Storage() string         { return s.storage }
func (s *Session) Condition() domain.Grade { return s.grade }
func (s *Session) AddOns() domain.AddOns   { return s.addons }

// SelectStorage moves to StorageSelected, or re-prices if a condition is already chosen.
func (s *Session) SelectStorage(storage string) error {
	if !s.rec.HasStorage(storage) {
		return domain.ErrInvalidVariant
	}
	s.storage = storage
	s.quote = nil
	if s.grade == "" {
		s.state = StorageSelected
		return nil
	}
	return s.reprice()
}

// SelectCondition requires a storage first.
func (s *Session) SelectCondition(g domain.Grade) error {
	if !g.Valid() {
		return domain.ErrInvalidVariant
	}
	if s.storage == "" {
		return domain.ErrInvalidVariant
	}
	s.grade = g
	s.quote = nil
	s.state = ConditionSelected
	return s.reprice()
}

// SetAddOns toggles warranty and battery; prices immediately when the tuple is complete.
func (s *Session) SetAddOns(a domain.AddOns) error {
	if _, err := Surcharge(a); err != nil {
		return domain.ErrInvalidVariant
	}
	s.addons = a
	s.quote = nil
	if s.storage == "" || s.grade == "" {
		return nil
	}
	return s.reprice()
}

func (s *Session) reprice() error {
	if s.rec.ID == "" && s.rec.Model == "" {
		return errNoRecord
	}
	q, err := Quote(s.rec, s.storage, s.grade, s.addons)
	if err != nil {
		s.state = ConditionSelected
		return err
	}
	s.quote = &q
	s.state = Priced
	return nil
}

// Quote returns the current quote, or false when the selection is incomplete.
func (s *Session) Quote() (domain.Quote, bool) {
	if s.quote == nil {
		return domain.Quote{}, false
	}
	return *s.quote, true
}
