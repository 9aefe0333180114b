package models

// AccountView selects how one account's order book is settled.
//
// IsShared marks an account whose position is split 50/50 with a linked account:
// per-trade quantities are halved and bucket totals doubled back.
type AccountView struct {
	Label      string // report section header, e.g. "PEW"
	ClientCode string // broker client code, e.g. "W1573"
	IsShared   bool
}
