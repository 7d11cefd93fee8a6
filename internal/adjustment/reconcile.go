package adjustment

import (
	"go-dms/internal/payperiod"
	"go-dms/internal/shared/money"

	"github.com/google/uuid"
)

// Balance is the netted effect of a set of adjustments on one employee (or
// one vehicle) for one period.
type Balance struct {
	Credits float64
	Debits  float64
	Net     float64
}

// AmountInPeriod returns the slice of an adjustment that lands in the given
// period. Most adjustments hit their origination period in full. An advance
// with N installments is spread evenly: 1/N in each of the N consecutive
// periods starting at the origination period, and nothing after that.
func AmountInPeriod(a Adjustment, period payperiod.Period) float64 {
	origin := payperiod.Resolve(a.AdjustmentDate)

	if a.Type == TypeAdvance && a.Installments > 1 {
		for i := 0; i < a.Installments; i++ {
			if origin.Add(i) == period {
				return a.Amount / float64(a.Installments)
			}
		}
		return 0
	}

	if origin == period {
		return a.Amount
	}
	return 0
}

// Reconcile nets credits against debits per employee for a period. Each
// figure is rounded once, after summation.
func Reconcile(adjustments []Adjustment, period payperiod.Period) map[uuid.UUID]Balance {
	balances := make(map[uuid.UUID]Balance)

	for _, a := range adjustments {
		amount := AmountInPeriod(a, period)
		if amount == 0 {
			continue
		}

		b := balances[a.EmployeeID]
		switch {
		case IsCredit(a.Type):
			b.Credits += amount
		case IsDebit(a.Type):
			b.Debits += amount
		default:
			continue
		}
		balances[a.EmployeeID] = b
	}

	for id, b := range balances {
		b.Credits = money.Round2(b.Credits)
		b.Debits = money.Round2(b.Debits)
		b.Net = money.Round2(b.Credits - b.Debits)
		balances[id] = b
	}

	return balances
}

// ReconcileByVehicle nets vehicle-tagged adjustments per vehicle for a
// period, for cost/profit reporting. Rows without a vehicle tag are skipped.
func ReconcileByVehicle(adjustments []Adjustment, period payperiod.Period) map[uuid.UUID]Balance {
	balances := make(map[uuid.UUID]Balance)

	for _, a := range adjustments {
		if a.VehicleID == nil {
			continue
		}
		amount := AmountInPeriod(a, period)
		if amount == 0 {
			continue
		}

		b := balances[*a.VehicleID]
		switch {
		case IsCredit(a.Type):
			b.Credits += amount
		case IsDebit(a.Type):
			b.Debits += amount
		default:
			continue
		}
		balances[*a.VehicleID] = b
	}

	for id, b := range balances {
		b.Credits = money.Round2(b.Credits)
		b.Debits = money.Round2(b.Debits)
		b.Net = money.Round2(b.Credits - b.Debits)
		balances[id] = b
	}

	return balances
}
