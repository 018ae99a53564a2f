package cmd

import (
	"errors"
	"fmt"

	"github.com/luminabooks/bookadmin/internal/form"
	"github.com/luminabooks/bookadmin/internal/models"
	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	var (
		title    string
		author   string
		category string
		provider string
		model    string
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Generate a marketing description for a book",
		Example: `  bookadmin describe --title "Project Hail Mary" --author "Andy Weir" --category Sci-Fi
  bookadmin describe --title Dune --author "Frank Herbert" --provider ollama`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.Describe.Provider = provider
			}
			if model != "" {
				cfg.Describe.Model = model
			}

			cat, ok := parseCategory(category)
			if !ok {
				return fmt.Errorf("unknown category %q", category)
			}

			gen, err := newGenerator(cfg.Describe)
			if err != nil {
				return err
			}

			f := form.New(&models.Book{Title: title, Author: author, Category: cat})
			if err := f.GenerateDescription(cmd.Context(), gen); err != nil {
				if errors.Is(err, form.ErrTitleAuthorRequired) {
					return fmt.Errorf("--title and --author are required")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.Description)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Book title")
	cmd.Flags().StringVar(&author, "author", "", "Book author")
	cmd.Flags().StringVar(&category, "category", string(models.CategoryFiction), "Book category")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: gemini, openai or ollama (default from DESCRIBE_PROVIDER)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default depends on provider)")

	return cmd
}
