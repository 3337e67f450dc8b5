package compensations

import (
	"clinic-service/internal/app/models"
	"clinic-service/internal/pkg/utils"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPeriod        = errors.New("invalid period")
	ErrUnknownPaymentType   = errors.New("unknown payment type")
	ErrMissingPaymentConfig = errors.New("missing payment configuration")
)

const (
	FieldPaymentValue          = "payment_value"
	FieldHybridPercentageValue = "hybrid_percentage_value"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Period is an inclusive range of calendar dates.
type Period struct {
	From time.Time
	To   time.Time
}

func NewPeriod(from, to time.Time) (Period, error) {
	period := Period{
		From: utils.TruncateToDate(from),
		To:   utils.TruncateToDate(to),
	}
	if err := period.Validate(); err != nil {
		return Period{}, err
	}
	return period, nil
}

func (p Period) Validate() error {
	if p.From.After(p.To) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidPeriod, utils.FormatDate(p.From), utils.FormatDate(p.To))
	}
	return nil
}

func (p Period) Contains(date time.Time) bool {
	date = utils.TruncateToDate(date)
	return !date.Before(p.From) && !date.After(p.To)
}

type Result struct {
	PeriodRevenue      decimal.Decimal
	CompensationAmount decimal.Decimal
	PlansConsidered    int
	PlansSkipped       int
	MatchedItems       int
	// DefaultedFields names payment settings that were missing or not finite
	// and counted as 0.
	DefaultedFields []string
}

// Calculator computes a doctor's compensation for a period. It holds no
// state besides its settings and is safe for concurrent use.
type Calculator struct {
	// StrictPaymentConfig turns missing payment settings into
	// ErrMissingPaymentConfig instead of defaulting them to 0.
	StrictPaymentConfig bool
}

func NewCalculator(strictPaymentConfig bool) *Calculator {
	return &Calculator{StrictPaymentConfig: strictPaymentConfig}
}

// ResolveServiceID picks the line item's canonical service identifier,
// trying service_id, then id, then the legacy serviceId field.
func ResolveServiceID(item models.PlanLineItem) (models.FlexibleID, bool) {
	for _, candidate := range []models.FlexibleID{item.ServiceID, item.ID, item.LegacyServiceID} {
		if !candidate.IsEmpty() {
			return candidate, true
		}
	}
	return "", false
}

// FinalPrice is price × quantity × (1 − discount/100). Quantity defaults to 1
// and discount to 0. Out of range values are not clamped.
func FinalPrice(item models.PlanLineItem) decimal.Decimal {
	quantity := one
	if item.Quantity != nil {
		quantity = decimalFromFloat(*item.Quantity)
	}
	discount := decimal.Zero
	if item.Discount != nil {
		discount = decimalFromFloat(*item.Discount)
	}
	return decimalFromFloat(item.Price).
		Mul(quantity).
		Mul(one.Sub(discount.Div(hundred)))
}

// IsQualifyingPlan reports whether a plan is paid with a payment date inside the period.
func IsQualifyingPlan(plan models.TreatmentPlan, period Period) bool {
	if plan.PaymentStatus != models.PaymentStatusPaid {
		return false
	}
	paymentDate, ok := plan.PaymentDate.Time()
	if !ok {
		return false
	}
	return period.Contains(paymentDate)
}

func (c *Calculator) Calculate(doctor models.Doctor, period Period, plans []models.TreatmentPlan) (Result, error) {
	if err := period.Validate(); err != nil {
		return Result{}, err
	}
	if !doctor.PaymentType.IsValid() {
		return Result{}, fmt.Errorf("%w %q", ErrUnknownPaymentType, doctor.PaymentType)
	}

	var result Result
	paymentValue, hybridPercentageValue, err := c.paymentSettings(doctor, &result)
	if err != nil {
		return Result{}, err
	}

	services := doctor.ServiceSet()
	revenue := decimal.Zero
	for _, plan := range plans {
		if !IsQualifyingPlan(plan, period) {
			result.PlansSkipped++
			continue
		}
		result.PlansConsidered++

		for _, item := range plan.Services {
			serviceID, ok := ResolveServiceID(item)
			if !ok {
				continue
			}
			if _, credited := services[serviceID]; !credited {
				continue
			}
			result.MatchedItems++
			revenue = revenue.Add(FinalPrice(item))
		}
	}

	result.PeriodRevenue = revenue
	switch doctor.PaymentType {
	case models.PaymentTypePercentage:
		result.CompensationAmount = revenue.Mul(paymentValue).Div(hundred)
	case models.PaymentTypeFixed:
		result.CompensationAmount = paymentValue
	case models.PaymentTypeHybrid:
		result.CompensationAmount = paymentValue.Add(revenue.Mul(hybridPercentageValue).Div(hundred))
	}
	return result, nil
}

type paymentSetting struct {
	field string
	value *float64
	into  *decimal.Decimal
}

func (c *Calculator) paymentSettings(doctor models.Doctor, result *Result) (paymentValue, hybridPercentageValue decimal.Decimal, err error) {
	settings := []paymentSetting{{FieldPaymentValue, doctor.PaymentValue, &paymentValue}}
	if doctor.PaymentType == models.PaymentTypeHybrid {
		settings = append(settings, paymentSetting{FieldHybridPercentageValue, doctor.HybridPercentageValue, &hybridPercentageValue})
	}

	for _, setting := range settings {
		if isUsable(setting.value) {
			*setting.into = decimal.NewFromFloat(*setting.value)
			continue
		}
		if c.StrictPaymentConfig {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", ErrMissingPaymentConfig, setting.field)
		}
		result.DefaultedFields = append(result.DefaultedFields, setting.field)
	}
	return paymentValue, hybridPercentageValue, nil
}

// isUsable reports whether a payment setting is present and finite.
func isUsable(value *float64) bool {
	return value != nil && !math.IsNaN(*value) && !math.IsInf(*value, 0)
}

// decimalFromFloat maps NaN and infinities to zero; decimal cannot represent them.
func decimalFromFloat(value float64) decimal.Decimal {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(value)
}
