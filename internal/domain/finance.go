package domain

import "time"

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a single income or expense entry.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	IsFixed     bool            `json:"isFixed,omitempty"` // recurring
	CreatedAt   time.Time       `json:"createdAt"`
}

// FinancialGoal is a savings target.
type FinancialGoal struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	Deadline      string    `json:"deadline,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	Completed     bool      `json:"completed"`
}

// InvestmentType classifies an investment position.
type InvestmentType string

const (
	InvestmentStocks     InvestmentType = "stocks"
	InvestmentBonds      InvestmentType = "bonds"
	InvestmentCrypto     InvestmentType = "crypto"
	InvestmentRealEstate InvestmentType = "real_estate"
	InvestmentFunds      InvestmentType = "funds"
	InvestmentOther      InvestmentType = "other"
)

// Investment is a position with purchase cost and current value.
type Investment struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         InvestmentType `json:"type"`
	Amount       float64        `json:"amount"`
	CurrentValue float64        `json:"currentValue"`
	PurchaseDate string         `json:"purchaseDate"`
	Description  string         `json:"description,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}
