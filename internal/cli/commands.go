package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mdnkit/go-libmdn/compat/model"
	"github.com/mdnkit/go-libmdn/mdnpath"
	"github.com/mdnkit/go-libmdn/prefetch"
	searchmodel "github.com/mdnkit/go-libmdn/search/model"
	"github.com/spf13/cobra"
)

func newSearchCmd(cfg *Config) *cobra.Command {
	var (
		limit    int
		noCompat bool
	)
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search MDN and show the Baseline status of the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			query := strings.Join(args, " ")
			results, err := s.search.Search(ctx, query, cfg.Language)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No results for %q\n", query)
				return nil
			}
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}

			records := make(map[string]*model.Record)
			if !noCompat {
				if records, err = prefetchRecords(ctx, s, results); err != nil {
					return err
				}
			}

			for i, r := range results {
				title := r.Title
				if rec := records[r.Path]; rec != nil {
					if badge, ok := rec.Baseline.Badge(); ok {
						title += "  [" + badge.Text + "]"
					}
				}
				fmt.Fprintf(out, "%d. %s\n", i+1, title)
				fmt.Fprintf(out, "   %s (%s)\n", r.URL, r.Kind.Label())
				if r.Summary != "" {
					fmt.Fprintf(out, "   %s\n", r.Summary)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results to show")
	cmd.Flags().BoolVar(&noCompat, "no-compat", false, "Do not look up compatibility data")
	return cmd
}

// prefetchRecords resolves the visible results, with the first one
// selected, and returns the records applied for them.
func prefetchRecords(ctx context.Context, s *session, results []searchmodel.Result) (map[string]*model.Record, error) {
	sched, err := prefetch.New(s.compat)
	if err != nil {
		return nil, err
	}
	select {
	case <-sched.Schedule(searchmodel.Paths(results), results[0].Path):
	case <-ctx.Done():
		sched.Close()
		return nil, ctx.Err()
	}
	// Close ends the update stream so it can be drained.
	sched.Close()

	records := make(map[string]*model.Record)
	for u := range sched.Updates() {
		records[u.Path] = u.Record
	}
	return records, nil
}

func newCompatCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "compat [path-or-url]",
		Short: "Show browser compatibility for an MDN document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			res := s.compat.Resolve(ctx, args[0])
			if !res.IsResolved() {
				return ctx.Err()
			}
			writeRecord(cmd.OutOrStdout(), mdnpath.ToPath(args[0]), res.Record())
			return nil
		},
	}
}

func writeRecord(w io.Writer, docPath string, rec *model.Record) {
	fmt.Fprintln(w, docPath)
	if summary := mdnpath.Summary(docPath); summary != "" {
		fmt.Fprintf(w, "%s: %s\n", mdnpath.DocKind(docPath).Label(), summary)
	}
	if rec == nil {
		fmt.Fprintln(w, "No compatibility data")
		return
	}
	fmt.Fprintf(w, "Compat key: %s\n", rec.CompatKey)
	if badge, ok := rec.Baseline.Badge(); ok {
		if rec.BaselineDate != "" {
			fmt.Fprintf(w, "Baseline: %s since %s\n", badge.Text, rec.BaselineDate)
		} else {
			fmt.Fprintf(w, "Baseline: %s\n", badge.Text)
		}
	}
	for _, row := range rec.Browsers {
		fmt.Fprintf(w, "  %-18s %s\n", row.BrowserName, row.SupportText)
	}
}

func newIndexCmd(cfg *Config) *cobra.Command {
	var (
		grep   string
		reload bool
	)
	cmd := &cobra.Command{
		Use:   "index [locale]",
		Short: "Fetch the search index for a locale",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locale := cfg.Language
			if len(args) != 0 {
				if !mdnpath.IsSupportedLanguage(args[0]) {
					return fmt.Errorf("unsupported locale %q", args[0])
				}
				locale = args[0]
			}

			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			fetch := s.index.Fetch
			if reload {
				fetch = s.index.Reload
			}
			items, err := fetch(cmd.Context(), locale)
			if err != nil {
				return fmt.Errorf("cannot load search index: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s search index: %d entries\n", mdnpath.Language(locale).Label(), len(items))
			if grep == "" {
				return nil
			}
			needle := strings.ToLower(grep)
			for _, item := range items {
				if strings.Contains(strings.ToLower(item.Title), needle) {
					fmt.Fprintf(out, "%s\t%s\n", item.Title, item.URL)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&grep, "grep", "", "List entries whose title contains this text")
	cmd.Flags().BoolVar(&reload, "reload", false, "Fetch the index even if the cached one is fresh")
	return cmd
}

func newReloadCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Remove all cached compatibility data and search indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			var errs error
			nCompat, err := s.compat.Purge(ctx)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("compatibility cache: %w", err))
			}
			nIndex, err := s.index.Purge(ctx)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("search index cache: %w", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d compatibility entries and %d search indexes\n", nCompat, nIndex)
			return errs
		},
	}
}
