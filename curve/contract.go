package curve

//go:generate mockgen -source=contract.go -destination=mocks/contract_mock.go -package=mocks Contract

import (
	"github.com/shopspring/decimal"

	"github.com/meenmo/ratekit/calendar"
)

// Contract is an instrument a curve can be calibrated against.
type Contract interface {
	// SettlementDate is the date whose pillar calibration solves for.
	SettlementDate() calendar.Date

	// ApplyCurve recomputes every curve dependent value of the contract.
	ApplyCurve(c *Curve) error

	// NPV prices the contract against c. The result is not Valid while some
	// cash flow is still unresolved.
	NPV(c *Curve) (decimal.NullDecimal, error)
}
