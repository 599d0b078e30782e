package loyalty

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/noah-isme/kasir-api/internal/receipt"
)

// EntryKind tags a transaction log entry.
type EntryKind string

const (
	// EntryEarn records credited points.
	EntryEarn EntryKind = "EARN"
	// EntryRedeem records spent points.
	EntryRedeem EntryKind = "REDEEM"
)

// Entry is one append-only transaction log record.
type Entry struct {
	ID          string
	Kind        EntryKind
	Points      int
	Description string
}

// Account tracks a customer's points balance and transaction history.
type Account struct {
	CustomerID string

	balance int
	history []Entry
}

// Balance returns the current points balance.
func (a *Account) Balance() int {
	return a.balance
}

// History returns the transaction log in append order.
func (a *Account) History() []Entry {
	return a.history
}

// CanRedeem reports whether the balance covers the requested points.
func (a *Account) CanRedeem(points int) bool {
	return a.balance >= points
}

func (a *Account) addPoints(points int, description string) {
	a.balance += points
	a.history = append(a.history, Entry{ID: uuid.NewString(), Kind: EntryEarn, Points: points, Description: description})
}

// redeemPoints deducts the points if covered; the only mutation on failure
// is none at all.
func (a *Account) redeemPoints(points int, description string) bool {
	if points > a.balance {
		return false
	}
	a.balance -= points
	a.history = append(a.history, Entry{ID: uuid.NewString(), Kind: EntryRedeem, Points: points, Description: description})
	return true
}

// Program holds the earning/redemption rates and the account registry.
type Program struct {
	// PointsPerUnit is how many points one currency unit of spend earns.
	PointsPerUnit float64
	// CurrencyPerPoint is the currency value redeemed per point.
	CurrencyPerPoint float64

	accounts map[string]*Account
}

// NewProgram constructs a program with the given rates.
func NewProgram(pointsPerUnit, currencyPerPoint float64) *Program {
	return &Program{
		PointsPerUnit:    pointsPerUnit,
		CurrencyPerPoint: currencyPerPoint,
		accounts:         make(map[string]*Account),
	}
}

// CreateAccount registers an account for the customer. Creating an existing
// account is a no-op returning the existing one.
func (p *Program) CreateAccount(customerID string) *Account {
	if account, ok := p.accounts[customerID]; ok {
		return account
	}
	account := &Account{CustomerID: customerID}
	p.accounts[customerID] = account
	return account
}

// Account returns the account for the customer, or nil when unknown.
func (p *Program) Account(customerID string) *Account {
	return p.accounts[customerID]
}

// PointsEarned converts spend into points, truncating toward zero.
func (p *Program) PointsEarned(purchaseAmount float64) int {
	return int(purchaseAmount * p.PointsPerUnit)
}

// RedemptionValue converts points into currency value.
func (p *Program) RedemptionValue(points int) float64 {
	return float64(points) * p.CurrencyPerPoint
}

// EarnPoints credits points for the purchase. Unknown customers earn zero
// and no account is created.
func (p *Program) EarnPoints(customerID string, purchaseAmount float64) int {
	account := p.Account(customerID)
	if account == nil {
		return 0
	}
	points := p.PointsEarned(purchaseAmount)
	account.addPoints(points, fmt.Sprintf("Purchase $%.2f", purchaseAmount))
	return points
}

// RedeemPoints converts points into a cart-wide discount. It returns nil
// without mutation for unknown customers or insufficient balances.
func (p *Program) RedeemPoints(customerID string, points int) *receipt.Discount {
	account := p.Account(customerID)
	if account == nil {
		return nil
	}
	if !account.CanRedeem(points) {
		return nil
	}
	amount := p.RedemptionValue(points)
	if !account.redeemPoints(points, fmt.Sprintf("Redeemed %d points", points)) {
		return nil
	}
	return &receipt.Discount{
		Description: fmt.Sprintf("Loyalty points (%d pts)", points),
		Amount:      -amount,
	}
}

// Result reports the loyalty outcome of one checkout.
type Result struct {
	RedemptionDiscount *receipt.Discount
	PointsEarned       int
	PointsBalance      int
}

// ProcessTransaction runs the per-checkout loyalty sequence: an optional
// redemption first, which on success reduces the working total, then
// unconditional earning on the resulting total. A failed redemption leaves
// the total unreduced but earning still happens.
func (p *Program) ProcessTransaction(cartTotal float64, customerID string, redeemPoints int) Result {
	var result Result
	if redeemPoints > 0 {
		if d := p.RedeemPoints(customerID, redeemPoints); d != nil {
			result.RedemptionDiscount = d
			cartTotal += d.Amount
		}
	}
	result.PointsEarned = p.EarnPoints(customerID, cartTotal)
	if account := p.Account(customerID); account != nil {
		result.PointsBalance = account.Balance()
	}
	return result
}
