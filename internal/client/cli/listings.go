package cli

import (
	"context"
	"flag"
	"fmt"
)

func (c *Cli) runListings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("listings", flag.ContinueOnError)
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 20, "Results per page")
	category := fs.String("category", "", "Filter by category")
	location := fs.String("location", "", "Filter by location")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := c.market.ListListings(ctx, *page, *limit, *category, *location)
	if err != nil {
		return fmt.Errorf("failed to fetch listings: %w", err)
	}

	if len(result.Listings) == 0 {
		c.io.Println("No listings found.")
		return nil
	}

	c.io.Printf("Listings (page %d, %d total):\n", result.Page, result.Total)
	c.io.Println()
	for _, listing := range result.Listings {
		c.io.Printf("%s  [%s]\n", listing.Title, listing.Status)
		c.io.Printf("  ID:       %s\n", listing.ID)
		c.io.Printf("  Category: %s\n", listing.Category)
		if listing.Location != "" {
			c.io.Printf("  Location: %s\n", listing.Location)
		}
		if listing.Budget != nil {
			c.io.Printf("  Budget:   %.0f-%.0f %s\n", listing.Budget.Min, listing.Budget.Max, listing.Budget.Currency)
		}
		c.io.Println()
	}
	return nil
}
