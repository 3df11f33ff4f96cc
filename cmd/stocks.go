package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/internal/listing"
	"github.com/stocksage/sage/internal/output"
	"github.com/stocksage/sage/pkg/sageapi"
)

// stocksOptions holds dependencies for the stocks and sectors commands.
type stocksOptions struct {
	client   *api.Client
	logger   *zap.Logger
	jsonMode bool
	timeout  time.Duration
}

type stocksFlags struct {
	sector string
	search string
	desc   bool
	page   int
}

// newStocksCmd creates the stocks command with the given options.
func newStocksCmd(opts *stocksOptions) *cobra.Command {
	var flags stocksFlags

	cmd := &cobra.Command{
		Use:   "stocks",
		Short: "List companies",
		Long: `List listed companies, 30 per page, sorted by name.

Examples:
  sage stocks                             # First page, A to Z
  sage stocks --sector "Commercial Bank"  # One sector
  sage stocks --search nabil              # Match symbol or name
  sage stocks --desc --page 2             # Z to A, second page`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStocks(cmd, opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.sector, "sector", "s", "", "Only show companies in this sector")
	cmd.Flags().StringVarP(&flags.search, "search", "q", "", "Case-insensitive match on symbol or name")
	cmd.Flags().BoolVar(&flags.desc, "desc", false, "Sort names Z to A")
	cmd.Flags().IntVarP(&flags.page, "page", "p", 1, "Page number")
	cmd.SilenceUsage = true

	return cmd
}

func runStocks(cmd *cobra.Command, opts *stocksOptions, flags stocksFlags) error {
	ctx, cancel := commandContext(cmd, opts.timeout)
	defer cancel()

	companies, err := opts.client.Companies(ctx)
	if err != nil {
		return err
	}
	companies = listing.ValidCompanies(companies)

	state := listing.NewFilterState().
		WithSector(resolveSector(companies, flags.sector)).
		WithSearch(flags.search).
		WithSort(!flags.desc).
		WithPage(flags.page)

	page := listing.Companies(companies, state)
	if flags.page > page.TotalPages {
		loggerOrNop(opts.logger).Debug("requested page out of range, showing first page",
			zap.Int("requested", flags.page), zap.Int("total_pages", page.TotalPages))
	}

	headers := []string{"Symbol", "Name", "Sector", "Price", "Market Cap"}
	rows := make([][]string, 0, len(page.Items))
	for _, c := range page.Items {
		rows = append(rows, []string{
			c.Symbol,
			sageapi.Truncate(c.Name, 40),
			c.Sector,
			sageapi.FormatNumber(c.MarketPrice),
			sageapi.FormatInteger(c.MarketCapitalization),
		})
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	info := output.PageInfo{
		Page:       page.Page,
		TotalPages: page.TotalPages,
		TotalItems: page.TotalItems,
		Noun:       "companies",
	}
	return formatter.Paged(page, headers, rows, info, "No companies match your filters")
}

// resolveSector maps a user-typed sector onto the exact name used by the
// data, ignoring case. Unknown names are passed through and match nothing.
func resolveSector(companies []sageapi.Company, sector string) string {
	sector = strings.TrimSpace(sector)
	if sector == "" || strings.EqualFold(sector, listing.AllSectors) {
		return ""
	}
	for _, s := range listing.Sectors(companies) {
		if strings.EqualFold(s.Name, sector) {
			return s.Name
		}
	}
	return sector
}

// newSectorsCmd creates the sectors command with the given options.
func newSectorsCmd(opts *stocksOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sectors",
		Short: "List sectors with company counts",
		Long: `List the sectors companies are grouped in, with how many companies each has.

Sectors are derived from the company list. Sectors the backend knows about
but that have no listed companies are shown with a count of 0.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSectors(cmd, opts)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func runSectors(cmd *cobra.Command, opts *stocksOptions) error {
	ctx, cancel := commandContext(cmd, opts.timeout)
	defer cancel()

	companies, catalogue, err := opts.client.CompaniesWithSectors(ctx)
	if err != nil {
		return err
	}

	counts := listing.Sectors(listing.ValidCompanies(companies))
	known := make(map[string]bool, len(counts))
	for _, s := range counts {
		known[strings.ToLower(s.Name)] = true
	}
	for _, s := range catalogue {
		if s.Name != "" && !known[strings.ToLower(s.Name)] {
			counts = append(counts, listing.SectorCount{Name: s.Name})
			known[strings.ToLower(s.Name)] = true
		}
	}

	if len(counts) == 0 {
		return output.New(cmd.OutOrStdout(), opts.jsonMode).Message("No sectors found")
	}

	rows := make([][]string, 0, len(counts))
	for _, s := range counts {
		rows = append(rows, []string{s.Name, fmt.Sprintf("%d", s.Count)})
	}
	return output.New(cmd.OutOrStdout(), opts.jsonMode).Table([]string{"Sector", "Companies"}, rows)
}

func init() {
	opts := &stocksOptions{}
	bind := func(rt *runtime) {
		opts.client = rt.client
		opts.logger = rt.logger
		opts.jsonMode = GetJSONMode()
		opts.timeout = rt.cfg.RequestTimeout()
	}

	rootCmd.AddCommand(bindRuntime(newStocksCmd(opts), bind))
	rootCmd.AddCommand(bindRuntime(newSectorsCmd(opts), bind))
}
