package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/lp/internal/checker"
	"github.com/nikbrunner/lp/internal/exporter"
	"github.com/nikbrunner/lp/internal/importer"
	"github.com/nikbrunner/lp/internal/model"
	"github.com/nikbrunner/lp/internal/picker"
	"github.com/nikbrunner/lp/internal/search"
	"github.com/spf13/cobra"
)

// loadCLI opens the environment with logs on stderr and loads the links.
func loadCLI(configPath string) (*env, *model.Store, error) {
	e, err := openEnv(configPath, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	store, err := e.links.Load()
	if err != nil {
		e.close()
		return nil, nil, fmt.Errorf("loading links: %w", err)
	}
	return e, store, nil
}

func newAddCmd(configPath *string) *cobra.Command {
	var title, slug string

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Shorten a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, store, err := loadCLI(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			url := strings.TrimSpace(args[0])
			if url == "" {
				return fmt.Errorf("url is required")
			}
			if slug != "" && store.HasShortCode(slug) {
				return fmt.Errorf("short code %q is already taken", slug)
			}

			link := model.NewLink(store, model.NewLinkParams{
				URL:        url,
				Title:      title,
				CustomSlug: slug,
			})
			store.Prepend(link)
			if err := e.links.Save(store); err != nil {
				return fmt.Errorf("saving links: %w", err)
			}

			fmt.Printf("%s -> %s\n", link.ShortURL(e.cfg.ShortDomain), link.OriginalURL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "link title")
	cmd.Flags().StringVarP(&slug, "slug", "s", "", "custom short code")
	return cmd
}

func newListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all links, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, store, err := loadCLI(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			if store.Len() == 0 {
				fmt.Println("No links yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SHORT URL\tCLICKS\tCREATED\tTITLE\tDESTINATION")
			for _, l := range store.Links {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					l.ShortURL(e.cfg.ShortDomain), l.Clicks, l.CreatedAt.Local().Format("2006-01-02"), l.Title, l.OriginalURL)
			}
			return w.Flush()
		},
	}
}

func newFindCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy find a link, then open or copy it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, store, err := loadCLI(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			query := strings.Join(args, " ")
			results := search.FuzzySearchLinks(store.Links, query)
			if len(results) == 0 {
				fmt.Printf("No links found for '%s'\n", query)
				return nil
			}

			p := picker.New(results, query, e.cfg.ShortDomain)
			finalModel, err := tea.NewProgram(p).Run()
			if err != nil {
				return fmt.Errorf("running picker: %w", err)
			}

			finalPicker := finalModel.(picker.Picker)
			if finalPicker.Cancelled() {
				return nil
			}

			link, action := finalPicker.Selected()
			if link == nil {
				return nil
			}

			switch action {
			case picker.ActionCopy:
				short := link.ShortURL(e.cfg.ShortDomain)
				if err := clipboard.WriteAll(short); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Printf("Copied: %s\n", short)
			case picker.ActionOpen:
				fmt.Printf("Opening: %s\n", link.Title)
				return openURL(link.OriginalURL)
			}
			return nil
		},
	}
}

func newSuggestCmd(configPath *string) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "suggest <url>",
		Short: "Ask the AI for short code ideas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*configPath, os.Stderr)
			if err != nil {
				return err
			}
			defer e.close()

			client, err := e.aiClient()
			if err != nil {
				return err
			}

			slugs, err := client.FetchSlugs(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}
			for _, s := range slugs {
				fmt.Println(s)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "context for the suggestions")
	return cmd
}

func newInsightsCmd(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "insights <code>",
		Short: "Ask the AI how to improve a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, store, err := loadCLI(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			link := store.GetLinkByShortCode(args[0])
			if link == nil {
				return fmt.Errorf("no link with short code %q", args[0])
			}

			client, err := e.aiClient()
			if err != nil {
				return err
			}

			insights, err := client.FetchInsights(cmd.Context(), *link)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(insights)
			}
			for _, in := range insights {
				fmt.Printf("[%s] %s\n    %s\n", strings.ToUpper(in.Severity), in.Title, in.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print insights as JSON")
	return cmd
}

func newExportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export links to CSV (or HTML for a .html path)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputPath string
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				var err error
				outputPath, err = exporter.DefaultExportPath(exporter.FormatCSV)
				if err != nil {
					return fmt.Errorf("getting default export path: %w", err)
				}
			}

			e, store, err := loadCLI(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			if err := exporter.WriteFile(store, outputPath, e.cfg.ShortDomain); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}

			fmt.Printf("Exported %d links to %s\n", store.Len(), outputPath)
			return nil
		},
	}
}

func newImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import links from a browser bookmarks file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, store, err := loadCLI(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer file.Close()

			entries, err := importer.ParseHTMLBookmarks(file)
			if err != nil {
				return fmt.Errorf("parsing HTML: %w", err)
			}

			result := importer.Import(store, entries)
			if err := e.links.Save(store); err != nil {
				return fmt.Errorf("saving links: %w", err)
			}

			fmt.Printf("Imported %d links", len(result.Added))
			if result.Skipped > 0 {
				fmt.Printf(" (%d duplicates skipped)", result.Skipped)
			}
			fmt.Println()
			return nil
		},
	}
}

func newCheckCmd(configPath *string) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that every destination still responds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, store, err := loadCLI(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			results := checker.CheckLinks(cmd.Context(), store.Links, checker.Params{
				Concurrency:    e.cfg.CheckConcurrency,
				Timeout:        timeout,
				ExcludeDomains: e.cfg.CheckExcludeDomains,
				OnProgress: func(completed, total int) {
					fmt.Fprintf(os.Stderr, "\rChecking %d/%d", completed, total)
				},
			})
			fmt.Fprintln(os.Stderr)

			failed := 0
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, r := range results {
				if r.Status == checker.Healthy {
					continue
				}
				failed++
				reason := r.Error
				if r.StatusCode != 0 {
					reason = fmt.Sprintf("HTTP %d", r.StatusCode)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Status, r.Link.ShortURL(e.cfg.ShortDomain), reason, r.Link.OriginalURL)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Printf("%d of %d destinations healthy\n", len(results)-failed, len(results))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	return cmd
}
