package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// collection is a storefront collection the brand expects to exist
type collection struct {
	Key         string
	Title       string
	Description string
}

var toxicoCollections = []collection{
	{Key: "loungewear", Title: "Loungewear", Description: "Elevated comfort for the sporting life"},
	{Key: "essentials", Title: "Essentials", Description: "Premium basics, minimal branding"},
	{Key: "captain_adventure", Title: "Captain Adventure", Description: "For the deviant but proper explorer"},
}

// missingCollections returns the brand collections whose title is not in existing
func missingCollections(existing []string) []collection {
	have := make(map[string]bool, len(existing))
	for _, title := range existing {
		have[strings.ToLower(strings.TrimSpace(title))] = true
	}
	var missing []collection
	for _, c := range toxicoCollections {
		if !have[strings.ToLower(c.Title)] {
			missing = append(missing, c)
		}
	}
	return missing
}

func (e *env) shopifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "shopify",
		Usage: "inspect the connected Shopify store",
		Commands: []*cli.Command{
			{
				Name:   "products",
				Usage:  "list every product",
				Action: e.shopifyProducts,
			},
			{
				Name:  "orders",
				Usage: "list orders",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Value: "any", Usage: "open, closed, cancelled or any"},
				},
				Action: e.shopifyOrders,
			},
			{
				Name:  "collections",
				Usage: "list custom collections",
				Commands: []*cli.Command{
					{
						Name:   "ensure",
						Usage:  "create any missing brand collections",
						Action: e.shopifyEnsureCollections,
					},
				},
				Action: e.shopifyCollections,
			},
			{
				Name:  "webhooks",
				Usage: "list webhook subscriptions",
				Commands: []*cli.Command{
					{
						Name:   "register",
						Usage:  "subscribe the required topics to APP_URL",
						Action: e.shopifyRegisterWebhooks,
					},
				},
				Action: e.shopifyWebhooks,
			},
		},
	}
}

func (e *env) shopifyProducts(ctx context.Context, cmd *cli.Command) error {
	client, err := e.storefront(ctx)
	if err != nil {
		return err
	}
	products, err := client.AllProducts(ctx)
	if err != nil {
		return err
	}

	w := e.table()
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tVARIANTS")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.Id, p.Title, p.ProductType, len(p.Variants))
	}
	fmt.Fprintf(w, "\n%d products\n", len(products))
	return w.Flush()
}

func (e *env) shopifyOrders(ctx context.Context, cmd *cli.Command) error {
	client, err := e.storefront(ctx)
	if err != nil {
		return err
	}
	orders, err := client.AllOrders(ctx, cmd.String("status"))
	if err != nil {
		return err
	}

	w := e.table()
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tFINANCIAL\tITEMS")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%v\t%d\n", o.Id, o.Name, o.Email, o.FinancialStatus, len(o.LineItems))
	}
	fmt.Fprintf(w, "\n%d orders\n", len(orders))
	return w.Flush()
}

func (e *env) shopifyCollections(ctx context.Context, cmd *cli.Command) error {
	client, err := e.storefront(ctx)
	if err != nil {
		return err
	}
	collections, err := client.CustomCollections(ctx)
	if err != nil {
		return err
	}

	w := e.table()
	fmt.Fprintln(w, "ID\tTITLE\tHANDLE")
	for _, c := range collections {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.Id, c.Title, c.Handle)
	}
	return w.Flush()
}

func (e *env) shopifyEnsureCollections(ctx context.Context, cmd *cli.Command) error {
	client, err := e.storefront(ctx)
	if err != nil {
		return err
	}
	existing, err := client.CustomCollections(ctx)
	if err != nil {
		return err
	}
	titles := make([]string, 0, len(existing))
	for _, c := range existing {
		titles = append(titles, c.Title)
	}

	missing := missingCollections(titles)
	if len(missing) == 0 {
		fmt.Fprintln(e.out, "all collections present")
		return nil
	}
	for _, c := range missing {
		created, err := client.CreateCustomCollection(ctx, c.Title, "<p>"+c.Description+"</p>", nil)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Key, err)
		}
		fmt.Fprintf(e.out, "created %s (%d)\n", created.Title, created.Id)
	}
	return nil
}

func (e *env) shopifyWebhooks(ctx context.Context, cmd *cli.Command) error {
	client, err := e.storefront(ctx)
	if err != nil {
		return err
	}
	webhooks, err := client.Webhooks(ctx)
	if err != nil {
		return err
	}

	w := e.table()
	fmt.Fprintln(w, "ID\tTOPIC\tADDRESS")
	for _, h := range webhooks {
		fmt.Fprintf(w, "%d\t%s\t%s\n", h.Id, h.Topic, h.Address)
	}
	return w.Flush()
}

func (e *env) shopifyRegisterWebhooks(ctx context.Context, cmd *cli.Command) error {
	cfg, err := e.config()
	if err != nil {
		return err
	}
	client, err := e.storefront(ctx)
	if err != nil {
		return err
	}
	subscriptions, err := client.EnsureWebhooks(ctx, cfg.AppURL)
	if err != nil {
		return err
	}

	w := e.table()
	fmt.Fprintln(w, "ID\tTOPIC\tADDRESS")
	for _, s := range subscriptions {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Topic, s.Address)
	}
	return w.Flush()
}
