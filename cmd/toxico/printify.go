package main

import (
	"context"
	"fmt"
	"strings"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/printify"

	"github.com/urfave/cli/v3"
)

// defaultScanKeywords find the robe and blanket-hoodie lines
var defaultScanKeywords = []string{"robe", "blanket hoodie", "hoodie blanket"}

type productLister interface {
	AllProducts(ctx context.Context, shopID int) ([]printify.Product, error)
}

// scanMatch is a product whose title matched a scan keyword
type scanMatch struct {
	Shop    domain.ProductionShop
	Product printify.Product
	Keyword string
}

// scanProducts searches every shop for products whose title contains one of
// keywords, case-insensitively
func scanProducts(ctx context.Context, client productLister, shops []domain.ProductionShop, keywords []string) ([]scanMatch, error) {
	var matches []scanMatch
	for _, shop := range shops {
		products, err := client.AllProducts(ctx, shop.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop %d: %w", shop.ID, err)
		}
		for _, product := range products {
			if keyword, ok := matchKeyword(product.Title, keywords); ok {
				matches = append(matches, scanMatch{Shop: shop, Product: product, Keyword: keyword})
			}
		}
	}
	return matches, nil
}

func matchKeyword(text string, keywords []string) (string, bool) {
	text = strings.ToLower(text)
	for _, keyword := range keywords {
		if keyword = strings.ToLower(strings.TrimSpace(keyword)); keyword != "" && strings.Contains(text, keyword) {
			return keyword, true
		}
	}
	return "", false
}

// channelShop picks the shop linked to salesChannel
func channelShop(shops []domain.ProductionShop, salesChannel string) (domain.ProductionShop, bool) {
	for _, shop := range shops {
		if shop.SalesChannel == salesChannel {
			return shop, true
		}
	}
	return domain.ProductionShop{}, false
}

func (e *env) printifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "printify",
		Usage: "inspect the Printify account",
		Commands: []*cli.Command{
			{
				Name:   "shops",
				Usage:  "list shops and their sales channels",
				Action: e.printifyShops,
			},
			{
				Name:  "blueprints",
				Usage: "search the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keyword", Usage: "only blueprints whose title contains this"},
				},
				Action: e.printifyBlueprints,
			},
			{
				Name:   "products",
				Usage:  "list products in a shop",
				Flags:  []cli.Flag{shopIDFlag()},
				Action: e.printifyProducts,
			},
			{
				Name:  "scan",
				Usage: "find products by title keyword across every shop",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "keyword", Usage: "repeatable; defaults to robe and blanket hoodie"},
				},
				Action: e.printifyScan,
			},
			{
				Name:  "orders",
				Usage: "list production orders",
				Flags: []cli.Flag{
					shopIDFlag(),
					&cli.IntFlag{Name: "page", Value: 1},
				},
				Action: e.printifyOrders,
			},
			{
				Name:  "shipping",
				Usage: "quote shipping for one variant",
				Flags: []cli.Flag{
					shopIDFlag(),
					&cli.StringFlag{Name: "product-id", Required: true},
					&cli.IntFlag{Name: "variant-id", Required: true},
					&cli.IntFlag{Name: "quantity", Value: 1},
					&cli.StringFlag{Name: "country", Value: domain.DefaultCountryCode},
					&cli.StringFlag{Name: "region"},
					&cli.StringFlag{Name: "zip"},
				},
				Action: e.printifyShipping,
			},
		},
	}
}

func shopIDFlag() cli.Flag {
	return &cli.IntFlag{Name: "shop-id", Usage: "Printify shop id (defaults to the sales channel shop)"}
}

// shopID returns --shop-id or resolves the sales channel shop
func (e *env) shopID(ctx context.Context, cmd *cli.Command, client *printify.Client) (int, error) {
	if id := int(cmd.Int("shop-id")); id != 0 {
		return id, nil
	}
	cfg, err := e.config()
	if err != nil {
		return 0, err
	}
	shops, err := client.Shops(ctx)
	if err != nil {
		return 0, err
	}
	shop, ok := channelShop(shops, cfg.Printify.SalesChannel)
	if !ok {
		return 0, &domain.ConfigurationError{Message: fmt.Sprintf("no Printify shop linked to %q, pass --shop-id", cfg.Printify.SalesChannel)}
	}
	return shop.ID, nil
}

func (e *env) printifyShops(ctx context.Context, cmd *cli.Command) error {
	client, err := e.production()
	if err != nil {
		return err
	}
	shops, err := client.Shops(ctx)
	if err != nil {
		return err
	}

	w := e.table()
	fmt.Fprintln(w, "ID\tTITLE\tCHANNEL")
	for _, shop := range shops {
		fmt.Fprintf(w, "%d\t%s\t%s\n", shop.ID, shop.Title, shop.SalesChannel)
	}
	return w.Flush()
}

func (e *env) printifyBlueprints(ctx context.Context, cmd *cli.Command) error {
	client, err := e.production()
	if err != nil {
		return err
	}
	blueprints, err := client.Blueprints(ctx)
	if err != nil {
		return err
	}

	keyword := cmd.String("keyword")
	w := e.table()
	fmt.Fprintln(w, "ID\tTITLE\tBRAND\tMODEL")
	shown := 0
	for _, bp := range blueprints {
		if keyword != "" {
			if _, ok := matchKeyword(bp.Title, []string{keyword}); !ok {
				continue
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", bp.ID, bp.Title, bp.Brand, bp.Model)
		shown++
	}
	fmt.Fprintf(w, "\n%d of %d blueprints\n", shown, len(blueprints))
	return w.Flush()
}

func (e *env) printifyProducts(ctx context.Context, cmd *cli.Command) error {
	client, err := e.production()
	if err != nil {
		return err
	}
	shopID, err := e.shopID(ctx, cmd, client)
	if err != nil {
		return err
	}
	products, err := client.AllProducts(ctx, shopID)
	if err != nil {
		return err
	}

	w := e.table()
	fmt.Fprintln(w, "ID\tTITLE\tBLUEPRINT\tVARIANTS\tPUBLISHED")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%t\n", p.ID, p.Title, p.BlueprintID, len(p.Variants), p.External != nil)
	}
	return w.Flush()
}

func (e *env) printifyScan(ctx context.Context, cmd *cli.Command) error {
	client, err := e.production()
	if err != nil {
		return err
	}
	keywords := cmd.StringSlice("keyword")
	if len(keywords) == 0 {
		keywords = defaultScanKeywords
	}
	shops, err := client.Shops(ctx)
	if err != nil {
		return err
	}
	matches, err := scanProducts(ctx, client, shops, keywords)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintf(e.out, "no products matching %s in %d shops\n", strings.Join(keywords, ", "), len(shops))
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(e.out, "%s\n", m.Product.Title)
		fmt.Fprintf(e.out, "  id:       %s\n", m.Product.ID)
		fmt.Fprintf(e.out, "  shop:     %s (%d)\n", m.Shop.Title, m.Shop.ID)
		if len(m.Product.Images) > 0 {
			fmt.Fprintf(e.out, "  image:    %s\n", m.Product.Images[0].Src)
		}
		if m.Product.External != nil {
			fmt.Fprintf(e.out, "  external: %s\n", m.Product.External.ID)
		}
	}
	fmt.Fprintf(e.out, "\n%d matches\n", len(matches))
	return nil
}

func (e *env) printifyOrders(ctx context.Context, cmd *cli.Command) error {
	client, err := e.production()
	if err != nil {
		return err
	}
	shopID, err := e.shopID(ctx, cmd, client)
	if err != nil {
		return err
	}
	page, err := client.Orders(ctx, shopID, int(cmd.Int("page")), 0)
	if err != nil {
		return err
	}

	w := e.table()
	fmt.Fprintln(w, "ID\tEXTERNAL\tSTATUS\tITEMS\tSHIPMENTS\tCREATED")
	for _, o := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", o.ID, o.ExternalID, o.Status, len(o.LineItems), len(o.Shipments), o.CreatedAt)
	}
	fmt.Fprintf(w, "\npage %d of %d\n", page.CurrentPage, page.LastPage)
	return w.Flush()
}

func (e *env) printifyShipping(ctx context.Context, cmd *cli.Command) error {
	client, err := e.production()
	if err != nil {
		return err
	}
	shopID, err := e.shopID(ctx, cmd, client)
	if err != nil {
		return err
	}
	quote, err := client.CalculateShipping(ctx, shopID, printify.ShippingRequest{
		LineItems: []printify.ShippingLineItem{{
			ProductID: cmd.String("product-id"),
			VariantID: int(cmd.Int("variant-id")),
			Quantity:  int(cmd.Int("quantity")),
		}},
		AddressTo: printify.ShippingAddress{
			Country: strings.ToUpper(cmd.String("country")),
			Region:  cmd.String("region"),
			Zip:     cmd.String("zip"),
		},
	})
	if err != nil {
		return err
	}

	w := e.table()
	fmt.Fprintln(w, "TIER\tCENTS")
	fmt.Fprintf(w, "standard\t%d\n", quote.Standard)
	fmt.Fprintf(w, "express\t%d\n", quote.Express)
	fmt.Fprintf(w, "priority\t%d\n", quote.Priority)
	fmt.Fprintf(w, "economy\t%d\n", quote.Economy)
	return w.Flush()
}
