package categories

import (
	"fmt"

	"github.com/julianstephens/trackit/internal/cli"
	"github.com/julianstephens/trackit/internal/validation"
)

type CategoryCmd struct {
	List   CategoryListCmd   `cmd:"" help:"List categories." default:"1"`
	Add    CategoryAddCmd    `cmd:"" help:"Create a category."`
	Rename CategoryRenameCmd `cmd:"" help:"Rename a category."`
	Delete CategoryDeleteCmd `cmd:"" help:"Delete an empty category."`
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}

	categories := repos.Categories.List()
	if len(categories) == 0 {
		ctx.Println("No categories yet. Categories are created when you add a tracker.")
		return nil
	}

	counts := make(map[string]int)
	for _, t := range repos.Trackers.List() {
		counts[t.CategoryID]++
	}
	for _, cat := range categories {
		ctx.Printf("%-38s  %d tracker(s)\n", cat.Title, counts[cat.ID])
	}
	return nil
}

type CategoryAddCmd struct {
	Title string `arg:"" help:"Category title."`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	title, err := validation.Name("title", c.Title)
	if err != nil {
		return err
	}
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}
	if _, exists := repos.Categories.FindByTitle(title); exists {
		ctx.Printf("Category %q already exists\n", title)
		return nil
	}
	if _, err := repos.Categories.GetOrCreate(ctx.Context(), title); err != nil {
		return err
	}
	ctx.Printf("Created category %q\n", title)
	return nil
}

type CategoryRenameCmd struct {
	Category string `arg:"" help:"Current title or id."`
	Title    string `arg:"" help:"New title."`
}

func (c *CategoryRenameCmd) Run(ctx *cli.Context) error {
	title, err := validation.Name("title", c.Title)
	if err != nil {
		return err
	}
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}
	cat, err := ctx.FindCategory(c.Category)
	if err != nil {
		return err
	}
	if err := repos.Categories.Rename(ctx.Context(), cat.ID, title); err != nil {
		return fmt.Errorf("failed to rename %q: %w", cat.Title, err)
	}
	ctx.Printf("Renamed %q to %q\n", cat.Title, title)
	return nil
}

type CategoryDeleteCmd struct {
	Category string `arg:"" help:"Title or id."`
}

func (c *CategoryDeleteCmd) Run(ctx *cli.Context) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}
	cat, err := ctx.FindCategory(c.Category)
	if err != nil {
		return err
	}
	if err := repos.Categories.Delete(ctx.Context(), cat.ID); err != nil {
		return fmt.Errorf("failed to delete %q: %w", cat.Title, err)
	}
	ctx.Printf("Deleted category %q\n", cat.Title)
	return nil
}
