// Package pricing derives installment plans from cash prices. All functions
// are pure; bad input (negative, NaN, zero terms) degrades to zero values
// instead of failing, because the numbers here are convenience defaults an
// agent can always override.
package pricing

import (
	"math"

	"github.com/arsavista/teklif-api/internal/models"
)

// Fixed markup schedule for financed purchases: 10% over cash for 12 months,
// 21% over cash for 24 months, half of the plan price down.
const (
	Option1Markup       = 1.10
	Option2Markup       = 1.21
	Option1Installments = 12
	Option2Installments = 24
)

// DeriveOptions computes the two default financing plans for a cash price.
// Plan prices and down payments are rounded to whole lira.
func DeriveOptions(cashPrice float64) (models.InstallmentOption, models.InstallmentOption) {
	cash := sanitize(cashPrice)

	opt1Price := Round(cash * Option1Markup)
	opt2Price := Round(cash * Option2Markup)

	option1 := models.InstallmentOption{
		Price:            opt1Price,
		DownPayment:      Round(opt1Price / 2),
		InstallmentCount: Option1Installments,
	}
	option2 := models.InstallmentOption{
		Price:            opt2Price,
		DownPayment:      Round(opt2Price / 2),
		InstallmentCount: Option2Installments,
	}
	return option1, option2
}

// EmptyOptions returns zeroed plans with the default terms, used when an
// agent wants to offer cash-only.
func EmptyOptions() (models.InstallmentOption, models.InstallmentOption) {
	return models.InstallmentOption{InstallmentCount: Option1Installments},
		models.InstallmentOption{InstallmentCount: Option2Installments}
}

// Monthly returns the monthly installment amount for a plan, or 0 when the
// plan has no installment math (missing price, single payment). Zero is a
// "not applicable" sentinel, not an error.
func Monthly(price, downPayment float64, count int) float64 {
	price = sanitize(price)
	downPayment = sanitize(downPayment)
	if price <= 0 || count <= 1 {
		return 0
	}
	return (price - downPayment) / float64(count)
}

// MonthlyForOption is Monthly applied to a stored plan.
func MonthlyForOption(opt models.InstallmentOption) float64 {
	return Monthly(opt.Price, opt.DownPayment, opt.InstallmentCount)
}

// Round rounds to the nearest whole currency unit. Lira amounts in this
// system never carry kuruş.
func Round(amount float64) float64 {
	return math.Round(sanitize(amount))
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
