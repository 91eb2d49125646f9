package commands

import (
	"slices"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/meenmo/ratekit/config"
	"github.com/meenmo/ratekit/curve"
	"github.com/meenmo/ratekit/swap"
)

type PillarOutput struct {
	Date    string  `json:"date"`
	RatePct float64 `json:"rate"`
}

type CalibrationOutput struct {
	ID             string          `json:"id"`
	Pillar         string          `json:"pillar"`
	RatePct        float64         `json:"rate"`
	DiscountFactor float64         `json:"discount_factor"`
	NPV            decimal.Decimal `json:"npv"`
	Iterations     int             `json:"iterations"`
	Refined        bool            `json:"refined"`
}

type CalibrateOutput struct {
	Today        string              `json:"today"`
	Calibrations []CalibrationOutput `json:"calibrations"`
	Pillars      []PillarOutput      `json:"pillars"`
}

func (a *app) calibrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "calibrate",
		Short: "Bootstrap one pillar per swap, shortest swap first",
		Long: `calibrate solves, swap by swap in order of settlement date, the zero rate of the
pillar at the swap settlement date so that the swap prices at zero NPV. Pillars
from the trade file are kept and used for the dates they cover.`,
		Args: cobra.NoArgs,
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

			slices.SortStableFunc(contracts, func(x, y *swap.Contract) int {
				return x.SettlementDate().Compare(y.SettlementDate())
			})

			out := CalibrateOutput{Today: crv.Today().String()}
			for _, c := range contracts {
				res, err := crv.AdaptToContract(c,
					curve.WithSettings(config.GetConfig().Calibration),
					curve.WithMetrics(a.metrics))
				if err != nil {
					return err
				}
				out.Calibrations = append(out.Calibrations, CalibrationOutput{
					ID:             c.ID().String(),
					Pillar:         res.Pillar.String(),
					RatePct:        res.Rate.Percentage(),
					DiscountFactor: res.DiscountFactor,
					NPV:            res.NPV.Round(6),
					Iterations:     res.Iterations,
					Refined:        res.Refined,
				})
			}
			out.Pillars = pillarOutputs(crv)
			return writeJSON(a.stdout, out)
		},
	}
}

func pillarOutputs(crv *curve.Curve) []PillarOutput {
	out := make([]PillarOutput, 0, crv.Len())
	for d, r := range crv.All() {
		out = append(out, PillarOutput{Date: d.String(), RatePct: r.Percentage()})
	}
	return out
}
