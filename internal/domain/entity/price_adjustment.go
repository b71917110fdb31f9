package entity

import "github.com/shopspring/decimal"

// PriceAdjustment is a bulk price change. Implementations are closed to this package.
type PriceAdjustment interface {
	Apply(price decimal.Decimal) decimal.Decimal
	isPriceAdjustment()
}

// AbsoluteAdjustment adds Delta (may be negative) to the current price.
type AbsoluteAdjustment struct {
	Delta decimal.Decimal
}

// PercentageAdjustment scales the current price by Percent/100.
type PercentageAdjustment struct {
	Percent decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

func (a AbsoluteAdjustment) Apply(price decimal.Decimal) decimal.Decimal {
	return clampPrice(price.Add(a.Delta))
}

func (a PercentageAdjustment) Apply(price decimal.Decimal) decimal.Decimal {
	factor := hundred.Add(a.Percent).Div(hundred)
	return clampPrice(price.Mul(factor))
}

func (AbsoluteAdjustment) isPriceAdjustment()   {}
func (PercentageAdjustment) isPriceAdjustment() {}

// clampPrice rounds to cents and floors at zero.
func clampPrice(p decimal.Decimal) decimal.Decimal {
	p = p.Round(2)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}
