package models

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrEmailRequired is returned when an email is empty after normalization.
	ErrEmailRequired = errors.New("email is required")
	// ErrUserIDRequired is returned when an operation needs an owning user.
	ErrUserIDRequired = errors.New("user id is required")
)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Every cache key and provider request uses the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BreachRecord describes a single data breach as reported by the breach
// provider. Fields keep the provider's names so records round-trip unchanged.
type BreachRecord struct {
	Name               string   `json:"Name"`
	Title              string   `json:"Title,omitempty"`
	Domain             string   `json:"Domain,omitempty"`
	BreachDate         string   `json:"BreachDate,omitempty"`
	AddedDate          string   `json:"AddedDate,omitempty"`
	ModifiedDate       string   `json:"ModifiedDate,omitempty"`
	PwnCount           int64    `json:"PwnCount,omitempty"`
	Description        string   `json:"Description,omitempty"`
	LogoPath           string   `json:"LogoPath,omitempty"`
	DataClasses        []string `json:"DataClasses,omitempty"`
	IsVerified         bool     `json:"IsVerified"`
	IsFabricated       bool     `json:"IsFabricated"`
	IsSensitive        bool     `json:"IsSensitive"`
	IsRetired          bool     `json:"IsRetired"`
	IsSpamList         bool     `json:"IsSpamList"`
	IsMalware          bool     `json:"IsMalware"`
	IsSubscriptionFree bool     `json:"IsSubscriptionFree"`
}

// PasteRecord references an appearance of an email in a public paste.
type PasteRecord struct {
	Source     string `json:"Source"`
	ID         string `json:"Id"`
	Title      string `json:"Title,omitempty"`
	Date       string `json:"Date,omitempty"`
	EmailCount int    `json:"EmailCount"`
}

// CheckResult is the outcome of an email exposure check, fresh or cached.
type CheckResult struct {
	Email         string         `json:"email"`
	IsCompromised bool           `json:"isCompromised"`
	Breaches      []BreachRecord `json:"breaches"`
	Pastes        []PasteRecord  `json:"pastes"`
	CheckedAt     time.Time      `json:"checkedAt"`
}

// NewCheckResult builds a result with IsCompromised derived from the records.
// Nil slices are replaced with empty ones so serialized results never carry null.
func NewCheckResult(email string, breaches []BreachRecord, pastes []PasteRecord, checkedAt time.Time) CheckResult {
	if breaches == nil {
		breaches = []BreachRecord{}
	}
	if pastes == nil {
		pastes = []PasteRecord{}
	}
	return CheckResult{
		Email:         NormalizeEmail(email),
		IsCompromised: len(breaches) > 0 || len(pastes) > 0,
		Breaches:      breaches,
		Pastes:        pastes,
		CheckedAt:     checkedAt,
	}
}

// BreachCount returns the number of breach records.
func (r CheckResult) BreachCount() int {
	return len(r.Breaches)
}

// PasteCount returns the number of paste records.
func (r CheckResult) PasteCount() int {
	return len(r.Pastes)
}

// BreachNames lists breach names in provider order.
func (r CheckResult) BreachNames() []string {
	names := make([]string, 0, len(r.Breaches))
	for _, b := range r.Breaches {
		names = append(names, b.Name)
	}
	return names
}

// PasswordExposureResult reports whether a password appears in the range
// response and how often it has been seen.
type PasswordExposureResult struct {
	IsCompromised   bool  `json:"isCompromised"`
	OccurrenceCount int64 `json:"occurrenceCount"`
}

// BreachSummary aggregates the cached checks owned by a single user.
type BreachSummary struct {
	TotalEmailsChecked int        `json:"totalEmailsChecked"`
	CompromisedEmails  int        `json:"compromisedEmails"`
	TotalBreaches      int        `json:"totalBreaches"`
	TotalPastes        int        `json:"totalPastes"`
	LastCheckDate      *time.Time `json:"lastCheckDate,omitempty"`
}

// Add folds a cached result into the summary.
func (s *BreachSummary) Add(result CheckResult) {
	s.TotalEmailsChecked++
	if result.IsCompromised {
		s.CompromisedEmails++
	}
	s.TotalBreaches += len(result.Breaches)
	s.TotalPastes += len(result.Pastes)
	if s.LastCheckDate == nil || result.CheckedAt.After(*s.LastCheckDate) {
		checkedAt := result.CheckedAt
		s.LastCheckDate = &checkedAt
	}
}
