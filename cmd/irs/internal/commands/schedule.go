package commands

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/meenmo/ratekit/swap"
)

type PeriodOutput struct {
	Index      int                 `json:"index"`
	Since      string              `json:"since"`
	Until      string              `json:"until"`
	Settlement string              `json:"settlement"`
	Payment    decimal.NullDecimal `json:"payment"`
}

type ScheduleOutput struct {
	ID             string         `json:"id"`
	SettlementDate string         `json:"settlement_date"`
	FixedLeg       []PeriodOutput `json:"fixed_leg"`
	FloatLeg       []PeriodOutput `json:"float_leg"`
	Chronological  []int          `json:"chronological"`
}

func (a *app) scheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Print the payment periods of every swap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := a.readTrade()
			if err != nil {
				return err
			}
			cal, jur, err := a.calendar(in)
			if err != nil {
				return err
			}
			contracts, err := in.contracts(cal, jur)
			if err != nil {
				return err
			}

			out := make([]ScheduleOutput, 0, len(contracts))
			for _, c := range contracts {
				out = append(out, scheduleOutput(c))
			}
			return writeJSON(a.stdout, struct {
				Swaps []ScheduleOutput `json:"swaps"`
			}{out})
		},
	}
}

func scheduleOutput(c *swap.Contract) ScheduleOutput {
	out := ScheduleOutput{
		ID:             c.ID().String(),
		SettlementDate: c.SettlementDate().String(),
		FixedLeg:       periodOutputs(c.FixedLeg(), 0),
		FloatLeg:       periodOutputs(c.FloatLeg(), len(c.FixedLeg())),
	}
	for i := range c.Chronological() {
		out.Chronological = append(out.Chronological, i)
	}
	return out
}

func periodOutputs(leg []swap.PaymentPeriod, offset int) []PeriodOutput {
	out := make([]PeriodOutput, 0, len(leg))
	for i, p := range leg {
		out = append(out, PeriodOutput{
			Index:      offset + i,
			Since:      p.Since().String(),
			Until:      p.Until().String(),
			Settlement: p.Settlement.String(),
			Payment:    round(p.Payment),
		})
	}
	return out
}
