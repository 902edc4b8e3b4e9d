package dto

import "bankreco/internal/infrastructure/backend"

// PeriodRequest selects a company's entries over a date range. It is read
// from the query string or the JSON body.
type PeriodRequest struct {
	Company  int64  `form:"company" json:"company" binding:"required,gt=0"`
	DateFrom string `form:"date_from" json:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" json:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// ToPeriod converts to the backend period.
func (r PeriodRequest) ToPeriod() backend.Period {
	return backend.Period{Company: r.Company, DateFrom: r.DateFrom, DateTo: r.DateTo}
}
