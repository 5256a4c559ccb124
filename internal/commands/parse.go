package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/settle/internal/description"
)

type parsedHold struct {
	Code    string `yaml:"code,omitempty"`
	Card    string `yaml:"card"`
	Company string `yaml:"company,omitempty"`
	Amount  string `yaml:"amount"`
}

type parsedCommitted struct {
	Card     string `yaml:"card"`
	Code     string `yaml:"code,omitempty"`
	Path     string `yaml:"path"`
	Company  string `yaml:"company"`
	HoldDate string `yaml:"hold_date"`
	Amount   string `yaml:"amount"`
}

type parsed struct {
	Hold      *parsedHold      `yaml:"hold"`
	Committed *parsedCommitted `yaml:"committed"`
}

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <description>",
		Short: "Show what a transaction description parses into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			p := description.NewParser(cfg.Aliases())

			var out parsed
			h, err := p.ExtractHold(args[0])
			if err != nil {
				return err
			}
			if h != nil {
				out.Hold = &parsedHold{Code: h.Code, Card: h.Card, Company: h.Company, Amount: h.Amount.String()}
			}

			c, err := p.ExtractCommitted(args[0])
			if err != nil {
				return err
			}
			if c != nil {
				out.Committed = &parsedCommitted{
					Card:     c.Card,
					Code:     c.Code,
					Path:     c.Path,
					Company:  c.Company,
					HoldDate: c.HoldDate.Format("2006-01-02"),
					Amount:   c.Amount.String(),
				}
			}

			data, err := yaml.Marshal(out)
			if err != nil {
				return fmt.Errorf("marshaling result: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
