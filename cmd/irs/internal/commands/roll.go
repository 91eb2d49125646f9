package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type RollOutput struct {
	Today   string         `json:"today"`
	Pillars []PillarOutput `json:"pillars"`
}

func (a *app) rollCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "roll",
		Short: "Advance the curve and its pillars by business days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}
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

			for range days {
				if err := crv.RollForward(); err != nil {
					return err
				}
			}
			return writeJSON(a.stdout, RollOutput{
				Today:   crv.Today().String(),
				Pillars: pillarOutputs(crv),
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 1, "number of business days to roll")
	return cmd
}
