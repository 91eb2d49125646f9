package commands

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/meenmo/ratekit/portfolio"
)

type ValuationOutput struct {
	ID      string              `json:"id"`
	PVFixed decimal.NullDecimal `json:"pv_fixed"`
	PVFloat decimal.NullDecimal `json:"pv_float"`
	NPV     decimal.NullDecimal `json:"npv"`
}

type PriceOutput struct {
	Today      string            `json:"today"`
	Valuations []ValuationOutput `json:"valuations"`
	TotalNPV   decimal.Decimal   `json:"total_npv"`
	Incomplete int               `json:"incomplete"`
}

func (a *app) priceCommand() *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Present values of every swap against the curve",
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
			crv, err := in.curve(cal, jur)
			if err != nil {
				return err
			}
			contracts, err := in.contracts(cal, jur)
			if err != nil {
				return err
			}

			instruments := make([]portfolio.Instrument, 0, len(contracts))
			for _, c := range contracts {
				instruments = append(instruments, c)
			}
			vals, err := portfolio.Value(cmd.Context(), crv, instruments,
				portfolio.WithConcurrency(concurrency),
				portfolio.WithMetrics(a.metrics))
			if err != nil {
				return err
			}

			total, missing := portfolio.Total(vals)
			out := PriceOutput{
				Today:      crv.Today().String(),
				Valuations: make([]ValuationOutput, 0, len(vals)),
				TotalNPV:   total.Round(6),
				Incomplete: missing,
			}
			for _, v := range vals {
				out.Valuations = append(out.Valuations, ValuationOutput{
					ID:      v.ID.String(),
					PVFixed: round(v.PVFixed),
					PVFloat: round(v.PVFloat),
					NPV:     round(v.NPV),
				})
			}
			return writeJSON(a.stdout, out)
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "swaps valued in parallel (0 = GOMAXPROCS)")
	return cmd
}

func round(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.Round(6))
}
