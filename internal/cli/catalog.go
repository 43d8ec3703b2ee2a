package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"

	"github.com/techwave/datastation/internal/catalog"
	"github.com/techwave/datastation/internal/config"
	"github.com/techwave/datastation/internal/entities"
	"github.com/techwave/datastation/internal/render"
)

// CatalogCommand prints the catalog the same way the list panel would show it.
type CatalogCommand struct {
	Source   string
	Keyword  string
	Category string
	Sort     string
	Top      int
	Locale   string

	Out io.Writer
}

func NewCatalogCommand() *CatalogCommand {
	return &CatalogCommand{Out: os.Stdout}
}

func (cmd *CatalogCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)

	fs.StringVar(&cmd.Source, "source", config.DefaultCatalogSource, "Catalog JSON file or http(s) URL")
	fs.StringVar(&cmd.Keyword, "q", "", "Keyword matched against title and description")
	fs.StringVar(&cmd.Category, "category", string(entities.CategoryAll), "Category to show (all, hardware, tech, industry, agent, aftersale)")
	fs.StringVar(&cmd.Sort, "sort", "", "Sort criterion (newest, hot, name)")
	fs.IntVar(&cmd.Top, "top", 0, "Only print the first N documents (0 prints all)")
	fs.StringVar(&cmd.Locale, "locale", "en", "Locale used for name sorting")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s catalog [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load the PDF catalog and print the filtered document list.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s catalog -source ./data/pdf-list.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s catalog -category tech -sort hot -top 5\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s catalog -q wiring\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Source == "" {
		return fmt.Errorf("source is required")
	}
	if !entities.Category(cmd.Category).IsKnown() {
		return fmt.Errorf("unknown category: %q", cmd.Category)
	}
	if cmd.Sort != "" {
		if _, err := catalog.ParseCriterion(cmd.Sort); err != nil {
			return err
		}
	}
	if cmd.Top < 0 {
		return fmt.Errorf("top must not be negative")
	}
	if _, err := language.Parse(cmd.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", cmd.Locale, err)
	}

	return nil
}

func (cmd *CatalogCommand) Run() error {
	locale, err := language.Parse(cmd.Locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", cmd.Locale, err)
	}

	store := catalog.NewStore(catalog.NewSource(cmd.Source), catalog.WithLocale(locale))
	if _, err := store.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	category := entities.Category(cmd.Category)
	docs := catalog.Search(catalog.FilterByCategory(store.All(), category), cmd.Keyword)
	if cmd.Sort != "" {
		criterion, err := catalog.ParseCriterion(cmd.Sort)
		if err != nil {
			return err
		}
		docs = catalog.Sort(docs, criterion, locale)
	}

	header := render.HeaderFor(category, len(docs))
	fmt.Fprintf(cmd.Out, "=== %s %s ===\n", header.Label, header.TotalLabel)

	if len(docs) == 0 {
		fmt.Fprintf(cmd.Out, "%s\n", render.NoDataText)
		return nil
	}

	if cmd.Top > 0 && len(docs) > cmd.Top {
		docs = docs[:cmd.Top]
	}
	for i, doc := range docs {
		fmt.Fprintf(cmd.Out, "%d. %s [%s] %s updated, %d downloads\n",
			i+1, doc.Title, doc.Category.Label(), doc.UpdateTime, doc.DownloadCount)
		fmt.Fprintf(cmd.Out, "   %s\n", doc.URL)
	}

	return nil
}
