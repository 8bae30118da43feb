package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/buxgalter/internal/workspace"
	"github.com/mesh-intelligence/buxgalter/pkg/metrics"
	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// defaultProjectionDays is the cash-flow horizon when --days is not given.
const defaultProjectionDays = 30

func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Derived financial reports",
	}
	cmd.AddCommand(a.reportVATCmd())
	cmd.AddCommand(a.reportAgingCmd())
	cmd.AddCommand(a.reportValuationCmd())
	cmd.AddCommand(a.reportBudgetCmd())
	cmd.AddCommand(a.reportMatchCmd())
	cmd.AddCommand(a.reportCashFlowCmd())
	return cmd
}

// withSnapshot loads every table and passes the result to fn.
func (a *app) withSnapshot(cmd *cobra.Command, fn func(workspace.Snapshot) error) error {
	ws, done, err := a.openWorkspace()
	if err != nil {
		return err
	}
	defer done()
	snap, err := ws.LoadAll(a.context(cmd))
	if err != nil {
		return err
	}
	return fn(snap)
}

// parseDate reads a yyyy-mm-dd flag, defaulting to today.
func (a *app) parseDate(value string) (time.Time, error) {
	if value == "" {
		return a.today(), nil
	}
	t, err := time.Parse(types.DateLayout, value)
	if err != nil {
		return time.Time{}, userError(fmt.Errorf("date %q: expected yyyy-mm-dd", value))
	}
	return t, nil
}

func (a *app) reportVATCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vat",
		Short: "Output VAT, input VAT and the net amount payable",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSnapshot(cmd, func(s workspace.Snapshot) error {
				r := metrics.VATSummary(s.Invoices, s.Purchases, a.settings.store.VATRate)
				if a.flags.jsonMode {
					return a.printer().JSON(r)
				}
				return a.printer().VAT(r)
			})
		},
	}
}

func (a *app) reportAgingCmd() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "aging",
		Short: "Stock lots grouped by days since receipt",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := a.parseDate(asOf)
			if err != nil {
				return err
			}
			return a.withSnapshot(cmd, func(s workspace.Snapshot) error {
				rows := metrics.InventoryAging(s.Stock, at)
				if a.flags.jsonMode {
					return a.printer().JSON(rows)
				}
				return a.printer().Aging(rows)
			})
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date, yyyy-mm-dd (default: today)")
	return cmd
}

func (a *app) reportValuationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "valuation",
		Short: "Total stock value at cost",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSnapshot(cmd, func(s workspace.Snapshot) error {
				total := metrics.InventoryValuation(s.Stock)
				p := a.printer()
				if a.flags.jsonMode {
					return p.JSON(map[string]int64{"valuation": total})
				}
				return p.Line("Stock valuation: %s so'm (%d lots)", p.Amount(total), len(s.Stock))
			})
		},
	}
}

func (a *app) reportBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget",
		Short: "Budget lines with actual spend as a share of plan",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSnapshot(cmd, func(s workspace.Snapshot) error {
				rows := metrics.BudgetReport(s.Budget)
				if a.flags.jsonMode {
					return a.printer().JSON(rows)
				}
				return a.printer().Budget(rows)
			})
		},
	}
}

func (a *app) reportMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match",
		Short: "Three-way match of purchase orders against supplier invoices",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSnapshot(cmd, func(s workspace.Snapshot) error {
				rows := metrics.MatchPurchases(s.Purchases)
				if a.flags.jsonMode {
					return a.printer().JSON(rows)
				}
				return a.printer().Match(rows)
			})
		},
	}
}

// cashFlowDay is the JSON form of one projection step.
type cashFlowDay struct {
	Day     int    `json:"day"`
	Date    string `json:"date"`
	Balance int64  `json:"balance"`
}

func (a *app) reportCashFlowCmd() *cobra.Command {
	var (
		days    int
		balance int64
		from    string
	)
	cmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Project the balance from invoices due and purchases payable",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 0 {
				return userError(fmt.Errorf("--days must not be negative, got %d", days))
			}
			start, err := a.parseDate(from)
			if err != nil {
				return err
			}
			return a.withSnapshot(cmd, func(s workspace.Snapshot) error {
				seq := metrics.InvoiceCashFlow(balance, s.Invoices, s.Purchases, start, days)
				p := a.printer()
				if a.flags.jsonMode {
					out := make([]cashFlowDay, 0, days)
					for day, b := range seq {
						out = append(out, cashFlowDay{Day: day, Date: start.AddDate(0, 0, day).Format(types.DateLayout), Balance: b})
					}
					return p.JSON(out)
				}
				if err := p.CashFlow(seq); err != nil {
					return err
				}
				if day, low := metrics.LowestBalance(balance, seq); day >= 0 && low < 0 {
					return p.Warn("balance goes negative: lowest %s on day %d", p.Amount(low), day)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", defaultProjectionDays, "number of days to project")
	cmd.Flags().Int64Var(&balance, "balance", 0, "starting balance in so'm")
	cmd.Flags().StringVar(&from, "from", "", "first projected day, yyyy-mm-dd (default: today)")
	return cmd
}
