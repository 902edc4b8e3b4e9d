package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Reconciliation groups the matching endpoints of one bank, all served
// under the bank's prefix (/{prefix}/match-transactions/ and so on).
type Reconciliation struct {
	c      *Client
	prefix string
}

// Reconciliation returns the endpoints of the bank with the given prefix.
func (c *Client) Reconciliation(bankPrefix string) (*Reconciliation, error) {
	p := strings.Trim(strings.TrimSpace(bankPrefix), "/")
	if p == "" || strings.Contains(p, "/") {
		return nil, fmt.Errorf("backend: invalid bank prefix %q", bankPrefix)
	}
	return &Reconciliation{c: c, prefix: url.PathEscape(p)}, nil
}

func (r *Reconciliation) path(endpoint string) string {
	return "/" + r.prefix + "/" + endpoint + "/"
}

// Period selects the entries of a company over a date range (YYYY-MM-DD).
type Period struct {
	Company  int64  `json:"company"`
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
}

func (p Period) query() url.Values {
	q := url.Values{}
	if p.Company != 0 {
		q.Set("company", fmt.Sprint(p.Company))
	}
	if p.DateFrom != "" {
		q.Set("date_from", p.DateFrom)
	}
	if p.DateTo != "" {
		q.Set("date_to", p.DateTo)
	}
	return q
}

// Match pairs a bank transaction with customer ledger entries.
type Match struct {
	BankEntry       int64           `json:"bank_entry"`
	CustomerEntries []int64         `json:"customer_entries"`
	Amount          decimal.Decimal `json:"amount"`
	Difference      decimal.Decimal `json:"difference"`
}

// MatchResult is the answer of match-transactions.
type MatchResult struct {
	Matched   []Match `json:"matched"`
	Unmatched []int64 `json:"unmatched"`
}

// RecoBankTransaction is a bank transaction ranked for reconciliation.
type RecoBankTransaction struct {
	ID            int64           `json:"id"`
	OperationDate string          `json:"operation_date"`
	Label         string          `json:"label"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentType   string          `json:"payment_type,omitempty"`
	Reconciled    bool            `json:"reconciled"`
	Score         decimal.Decimal `json:"score"`
}

// CustomerTax is a tax line extracted from customer ledger entries.
type CustomerTax struct {
	Customer       string          `json:"customer"`
	DocumentNumber string          `json:"document_number"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
}

// MatchTransactions asks the backend to match bank transactions against
// customer entries over the period.
func (r *Reconciliation) MatchTransactions(ctx context.Context, p Period) (MatchResult, error) {
	var out MatchResult
	err := r.c.Do(ctx, http.MethodPost, r.path("match-transactions"), nil, p, &out)
	return out, err
}

// SortedRecoBankTransactions lists the bank transactions of the period,
// best reconciliation candidates first.
func (r *Reconciliation) SortedRecoBankTransactions(ctx context.Context, p Period) ([]RecoBankTransaction, error) {
	var raw []RecoBankTransaction
	if err := r.c.Do(ctx, http.MethodGet, r.path("sorted-reco-bank-transactions"), p.query(), nil, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = []RecoBankTransaction{}
	}
	return raw, nil
}

// ExtractCustomerTaxes computes the tax lines of the period.
func (r *Reconciliation) ExtractCustomerTaxes(ctx context.Context, p Period) ([]CustomerTax, error) {
	var out []CustomerTax
	if err := r.c.Do(ctx, http.MethodPost, r.path("extract-customer-taxes"), nil, p, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []CustomerTax{}
	}
	return out, nil
}
