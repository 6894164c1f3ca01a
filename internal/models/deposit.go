package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DepositKind distinguishes ordinary bank deposits from tax-advantaged
// retirement accounts.
type DepositKind string

const (
	DepositKindOrdinary   DepositKind = "deposit"
	DepositKindRetirement DepositKind = "retirement"
)

// FixedDeposit is a cash balance or fixed-rate account held outside the
// brokerage positions.
type FixedDeposit struct {
	ID           string      `json:"id"`
	Bank         string      `json:"bank"`
	Amount       float64     `json:"amount"` // principal, in Currency
	Currency     string      `json:"currency"`
	InterestRate float64     `json:"interest_rate"` // annual, percent
	Kind         DepositKind `json:"kind"`
	AnnualFee    float64     `json:"annual_fee,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewFixedDeposit creates a FixedDeposit, validating amount and rate
// invariants at creation time.
func NewFixedDeposit(id, bank string, amount float64, currency string, interestRate float64, kind DepositKind) (*FixedDeposit, error) {
	bank = strings.TrimSpace(bank)
	if bank == "" {
		return nil, fmt.Errorf("deposit bank name is required")
	}
	if math.IsNaN(amount) || amount < 0 {
		return nil, fmt.Errorf("deposit amount must be non-negative, got %v", amount)
	}
	if math.IsNaN(interestRate) || interestRate < 0 {
		return nil, fmt.Errorf("deposit interest rate must be non-negative, got %v", interestRate)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, fmt.Errorf("deposit currency is required")
	}
	if kind == "" {
		kind = DepositKindOrdinary
	}
	if kind != DepositKindOrdinary && kind != DepositKindRetirement {
		return nil, fmt.Errorf("invalid deposit kind '%s'", kind)
	}
	if id == "" {
		id = bank
	}
	now := time.Now()
	return &FixedDeposit{
		ID:           id,
		Bank:         bank,
		Amount:       amount,
		Currency:     currency,
		InterestRate: interestRate,
		Kind:         kind,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ProjectedInterest returns the projected annual interest in the deposit's
// own currency, net of the periodic fee.
func (d *FixedDeposit) ProjectedInterest() float64 {
	return d.Amount*d.InterestRate/100 - d.AnnualFee
}
