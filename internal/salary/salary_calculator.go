package salary

import "github.com/shopspring/decimal"

// Payroll arithmetic on fixed-point decimals; every derived amount is rounded
// to two decimal places (half away from zero).
var (
	// monthlyHours assumes 22 working days of 8 hours.
	monthlyHours = decimal.NewFromInt(22 * 8)

	socialSecurityRate = decimal.RequireFromString("0.05")
	socialSecurityCap  = decimal.NewFromInt(750)

	DefaultOvertimeRate = decimal.RequireFromString("1.5")
)

type CalculationInput struct {
	BaseSalary      decimal.Decimal
	OvertimeHours   decimal.Decimal
	OvertimeRate    decimal.Decimal
	Bonus           decimal.Decimal
	Allowances      decimal.Decimal
	Commission      decimal.Decimal
	SocialSecurity  decimal.Decimal
	Tax             decimal.Decimal
	OtherDeductions decimal.Decimal
}

type CalculationResult struct {
	OvertimeAmount decimal.Decimal
	GrossSalary    decimal.Decimal
	NetSalary      decimal.Decimal
}

// HourlyRate is baseSalary spread over the standard 176 monthly hours.
func HourlyRate(baseSalary decimal.Decimal) decimal.Decimal {
	return baseSalary.Div(monthlyHours)
}

// OvertimeAmount is hourlyRate x hours x rate multiplier.
func OvertimeAmount(baseSalary, hours, rate decimal.Decimal) decimal.Decimal {
	return HourlyRate(baseSalary).Mul(hours).Mul(rate).Round(2)
}

// Calculate derives the stored amounts from the raw inputs. Callers never
// supply overtimeAmount, grossSalary or netSalary directly.
func Calculate(in CalculationInput) CalculationResult {
	rate := in.OvertimeRate
	if rate.IsZero() {
		rate = DefaultOvertimeRate
	}

	overtime := OvertimeAmount(in.BaseSalary, in.OvertimeHours, rate)

	gross := in.BaseSalary.
		Add(overtime).
		Add(in.Bonus).
		Add(in.Allowances).
		Add(in.Commission).
		Round(2)

	deductions := in.SocialSecurity.
		Add(in.Tax).
		Add(in.OtherDeductions)

	net := gross.Sub(deductions).Round(2)

	return CalculationResult{
		OvertimeAmount: overtime,
		GrossSalary:    gross,
		NetSalary:      net,
	}
}

// DefaultSocialSecurity is the capped flat-rate deduction used by bulk
// generation: 5% of base salary, at most 750.
func DefaultSocialSecurity(baseSalary decimal.Decimal) decimal.Decimal {
	contribution := baseSalary.Mul(socialSecurityRate).Round(2)
	if contribution.GreaterThan(socialSecurityCap) {
		return socialSecurityCap
	}
	return contribution
}
