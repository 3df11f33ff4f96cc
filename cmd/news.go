package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/internal/listing"
	"github.com/stocksage/sage/internal/output"
	"github.com/stocksage/sage/pkg/sageapi"
)

// newsOptions holds dependencies for the news commands.
type newsOptions struct {
	client   *api.Client
	jsonMode bool
	timeout  time.Duration
}

type newsFlags struct {
	category string
	page     int
	pageSize int
	details  bool
}

// newNewsCmd creates the news command with the given options.
func newNewsCmd(opts *newsOptions) *cobra.Command {
	var flags newsFlags

	cmd := &cobra.Command{
		Use:   "news",
		Short: "Read market news",
		Long: `Read market news, 9 articles per page.

Categories: all, market, corporate, company.

Examples:
  sage news                        # Latest news, all categories
  sage news --category market      # Market news only
  sage news --page 2 --details     # Second page with article text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := sageapi.ParseCategory(flags.category)
			if err != nil {
				return err
			}
			return runNews(cmd, opts, category, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.category, "category", "c", "all", "News category")
	cmd.Flags().IntVarP(&flags.page, "page", "p", 1, "Page number")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", listing.NewsPageSize, "Articles per page")
	cmd.Flags().BoolVarP(&flags.details, "details", "d", false, "Show article text")
	cmd.SilenceUsage = true

	cmd.AddCommand(newNewsCategoryCmd(opts))
	return cmd
}

// newNewsCategoryCmd creates "news category", the per-category listing
// with 10 articles per page.
func newNewsCategoryCmd(opts *newsOptions) *cobra.Command {
	flags := newsFlags{pageSize: listing.CategoryPageSize}

	cmd := &cobra.Command{
		Use:   "category CATEGORY",
		Short: "Read one news category",
		Long: `Read the news of a single category, 10 articles per page.

Example:
  sage news category corporate --page 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := sageapi.ParseCategory(args[0])
			if err != nil {
				return err
			}
			return runNews(cmd, opts, category, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.page, "page", "p", 1, "Page number")
	cmd.Flags().BoolVarP(&flags.details, "details", "d", false, "Show article text")
	cmd.SilenceUsage = true
	return cmd
}

func runNews(cmd *cobra.Command, opts *newsOptions, category sageapi.Category, flags newsFlags) error {
	if flags.pageSize < 1 {
		return &sageapi.ValidationError{Field: "page-size", Reason: "must be at least 1"}
	}

	ctx, cancel := commandContext(cmd, opts.timeout)
	defer cancel()

	items, err := opts.client.News(ctx, category)
	if err != nil {
		return err
	}

	page := listing.News(items, category, flags.page, flags.pageSize)
	info := output.PageInfo{
		Page:       page.Page,
		TotalPages: page.TotalPages,
		TotalItems: page.TotalItems,
		Noun:       "articles",
	}
	empty := fmt.Sprintf("No %s news available", category)
	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)

	if flags.details && !opts.jsonMode {
		return printNewsDetails(cmd, page, info, empty)
	}

	headers := []string{"Date", "Title", "Source"}
	rows := make([][]string, 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, []string{item.Date, sageapi.Truncate(item.Title, 70), item.Source})
	}
	return formatter.Paged(page, headers, rows, info, empty)
}

func printNewsDetails(cmd *cobra.Command, page listing.Page[sageapi.NewsItem], info output.PageInfo, empty string) error {
	w := cmd.OutOrStdout()
	if page.Empty() {
		_, _ = fmt.Fprintln(w, empty)
	}
	for i, item := range page.Items {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, item.Title)
		_, _ = fmt.Fprintf(w, "%s | %s\n", item.Date, item.Source)
		if text := sageapi.PlainText(item.Content); text != "" {
			_, _ = fmt.Fprintln(w, sageapi.Truncate(text, 400))
		}
		if item.URL != "" {
			_, _ = fmt.Fprintln(w, item.URL)
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", info.Footer())
	return err
}

func init() {
	opts := &newsOptions{}
	bind := func(rt *runtime) {
		opts.client = rt.client
		opts.jsonMode = GetJSONMode()
		opts.timeout = rt.cfg.RequestTimeout()
	}

	newsCmd := bindRuntime(newNewsCmd(opts), bind)
	for _, sub := range newsCmd.Commands() {
		bindRuntime(sub, bind)
	}
	rootCmd.AddCommand(newsCmd)
}
