package types

import (
	"fmt"
	"strings"
)

// CredentialSet is one configured login, parsed from the delimited
// account string ("user:pass:phoneFragment,user2:..."). The phone
// fragment is matched against the 2FA device list during login.
type CredentialSet struct {
	Username      string
	Password      string
	PhoneFragment string
}

// ParseCredentials splits the configured multi-account string into
// ordered credential sets. Extra ":" separated fields are tolerated
// and ignored.
func ParseCredentials(s string) ([]CredentialSet, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var creds []CredentialSet
	for i, acct := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(acct), ":")
		if len(parts) < 3 {
			return nil, fmt.Errorf("account %d: expected user:pass:phoneFragment, got %d field(s)", i+1, len(parts))
		}
		creds = append(creds, CredentialSet{
			Username:      parts[0],
			Password:      parts[1],
			PhoneFragment: parts[2],
		})
	}
	return creds, nil
}

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// ParseAction normalizes a buy/sell string. Anything else is rejected
// up front rather than reaching the trade ticket.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return ActionBuy, nil
	case "sell":
		return ActionSell, nil
	default:
		return "", fmt.Errorf("unsupported action %q: must be buy or sell", s)
	}
}

// OrderRequest is the immutable order specification applied to every
// discovered account. Amount is shares per symbol.
type OrderRequest struct {
	Action  Action
	Symbols []string
	Amount  int
	DryRun  bool
}

// HoldingRecord is one scraped position row. Repeated symbols append,
// they are never merged.
type HoldingRecord struct {
	Broker   string // session label, e.g. "WELLSFARGO 1"
	Account  string // masked account number
	Symbol   string
	Quantity float64
	Price    float64
}

type OutcomeStatus string

const (
	StatusSubmitted OutcomeStatus = "SUBMITTED"
	StatusDryRun    OutcomeStatus = "DRY"
	StatusFailed    OutcomeStatus = "FAILED"
)

// OrderOutcome is the per (account, symbol) result of one submission
// attempt. Message carries the site's rejection text when extraction
// succeeded.
type OrderOutcome struct {
	Broker  string
	Account string
	Symbol  string
	Action  Action
	Amount  int
	Status  OutcomeStatus
	Message string
}
