package backend

import (
	"time"

	"github.com/shopspring/decimal"
)

type Company struct {
	ID        int64      `json:"id,omitempty" entity:"-"`
	Code      string     `json:"code" entity:"required"`
	Name      string     `json:"name" entity:"required"`
	TaxID     string     `json:"tax_id"`
	IsActive  bool       `json:"is_active"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Website   string     `json:"website,omitempty"`
	Address   string     `json:"address,omitempty"`
	Logo      string     `json:"logo,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" entity:"disabled,nocard"`
}

type Bank struct {
	ID      int64  `json:"id,omitempty" entity:"-"`
	Code    string `json:"code" entity:"required"`
	Name    string `json:"name" entity:"required"`
	Prefix  string `json:"prefix" entity:"required"`
	Website string `json:"website,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

type Agency struct {
	ID      int64  `json:"id,omitempty" entity:"-"`
	Code    string `json:"code" entity:"required"`
	Name    string `json:"name" entity:"required"`
	Bank    int64  `json:"bank" entity:"lookup=Bank,required"`
	City    string `json:"city,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type User struct {
	ID          int64  `json:"id,omitempty"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    bool   `json:"is_active"`
	Company     *int64 `json:"company,omitempty"`
}

// PaymentIdentification is a rule recognizing a payment type from the
// label of a bank statement line.
type PaymentIdentification struct {
	ID          int64  `json:"id,omitempty" entity:"-"`
	Bank        int64  `json:"bank" entity:"lookup=Bank,required,order=1"`
	Code        string `json:"code" entity:"required,order=2"`
	Label       string `json:"label" entity:"required,order=3"`
	Pattern     string `json:"pattern" entity:"order=4"`
	Description string `json:"description,omitempty" entity:"order=5,nolist"`
	IsActive    bool   `json:"is_active" entity:"order=6"`
}

// BankLedgerEntry is a line of a bank statement. Dates are kept in the
// backend's YYYY-MM-DD form.
type BankLedgerEntry struct {
	ID                    int64           `json:"id,omitempty" entity:"-"`
	Bank                  int64           `json:"bank" entity:"lookup=Bank,required"`
	Company               int64           `json:"company" entity:"lookup=Company,required"`
	AccountNumber         string          `json:"account_number"`
	OperationDate         string          `json:"operation_date" entity:"type=Date,required"`
	ValueDate             string          `json:"value_date,omitempty" entity:"type=Date"`
	Label                 string          `json:"label"`
	Reference             string          `json:"reference,omitempty"`
	Debit                 decimal.Decimal `json:"debit"`
	Credit                decimal.Decimal `json:"credit"`
	PaymentIdentification *int64          `json:"payment_identification,omitempty" entity:"lookup=PaymentIdentification"`
	Reconciled            bool            `json:"reconciled" entity:"disabled"`
}

// Amount returns credit minus debit.
func (e BankLedgerEntry) Amount() decimal.Decimal {
	return e.Credit.Sub(e.Debit)
}

// CustomerLedgerEntry is a line of the customer accounts ledger.
type CustomerLedgerEntry struct {
	ID             int64           `json:"id,omitempty" entity:"-"`
	Company        int64           `json:"company" entity:"lookup=Company,required"`
	Customer       string          `json:"customer" entity:"required"`
	DocumentNumber string          `json:"document_number"`
	DocumentDate   string          `json:"document_date" entity:"type=Date"`
	DueDate        string          `json:"due_date,omitempty" entity:"type=Date"`
	Label          string          `json:"label"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Reconciled     bool            `json:"reconciled" entity:"disabled"`
}

// Amount returns debit minus credit, the amount the customer owes.
func (e CustomerLedgerEntry) Amount() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// ConventionParameter holds the fees negotiated with a bank for one
// payment type.
type ConventionParameter struct {
	ID                    int64           `json:"id,omitempty" entity:"-"`
	Bank                  int64           `json:"bank" entity:"lookup=Bank,required"`
	Company               int64           `json:"company" entity:"lookup=Company,required"`
	PaymentIdentification int64           `json:"payment_identification" entity:"lookup=PaymentIdentification,required"`
	Rate                  decimal.Decimal `json:"rate"`
	FixedFee              decimal.Decimal `json:"fixed_fee"`
	TaxRate               decimal.Decimal `json:"tax_rate"`
	ValidFrom             string          `json:"valid_from,omitempty" entity:"type=Date"`
}

// Commission returns the fee charged on amount, tax included.
func (p ConventionParameter) Commission(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Abs().Mul(p.Rate).Add(p.FixedFee)
	return fee.Add(fee.Mul(p.TaxRate)).Round(2)
}
