package jobcost

import "github.com/shopspring/decimal"

// Recalculate recomputes every derived financial figure from the embedded
// collections. It is a pure function of the document's current state and runs
// on every persist; derived values are never adjusted incrementally, so the
// propagator's replace-then-recompute cycle cannot compound drift.
//
// Profit rules:
//   - a regular line contributes (sellingPrice - costPrice) * quantity only
//     when its cost price is positive; a line with cost <= 0 contributes 0
//     (and is likewise excluded from material cost)
//   - a deduction line (negative selling price) always contributes, using its
//     own cost price with 0 as the default
//   - total other expenses are subtracted at the end
func (jc *JobCost) Recalculate() {
	revenue := decimal.Zero
	materialCost := decimal.Zero
	profit := decimal.Zero

	for _, item := range jc.InvoiceItems {
		lineRevenue := item.Quantity.Mul(item.SellingPrice)
		revenue = revenue.Add(lineRevenue)

		switch {
		case item.IsDeduction():
			cost := item.CostPrice
			if cost.LessThanOrEqual(decimal.Zero) {
				cost = decimal.Zero
			}
			profit = profit.Add(item.SellingPrice.Sub(cost).Mul(item.Quantity))
			if cost.IsPositive() {
				materialCost = materialCost.Add(item.Quantity.Mul(cost))
			}
		case item.CostPrice.IsPositive():
			materialCost = materialCost.Add(item.Quantity.Mul(item.CostPrice))
			profit = profit.Add(item.SellingPrice.Sub(item.CostPrice).Mul(item.Quantity))
		default:
			// uncosted regular line: excluded from profit and material cost
		}
	}

	expenses := decimal.Zero
	for _, e := range jc.Expenses {
		expenses = expenses.Add(e.Amount)
	}

	jc.TotalRevenue = revenue
	jc.MaterialCost = materialCost
	jc.OtherExpenses = expenses
	jc.NetProfit = profit.Sub(expenses)
}
