package main

import (
	"context"
	"fmt"
	"strconv"

	"iamtoxico-bridge/internal/infrastructure/shopify"

	"github.com/urfave/cli/v3"
)

func (e *env) bridgeCommand() *cli.Command {
	return &cli.Command{
		Name:  "bridge",
		Usage: "run bridge operations by hand",
		Commands: []*cli.Command{
			{
				Name:      "publish",
				Usage:     "publish a Printify product to the Shopify sales channel",
				ArgsUsage: "<printify-product-id>",
				Action:    e.bridgePublish,
			},
			{
				Name:      "sync-order",
				Usage:     "replay order creation for a Shopify order",
				ArgsUsage: "<shopify-order-id>",
				Action:    e.bridgeSyncOrder,
			},
		},
	}
}

func (e *env) bridgePublish(ctx context.Context, cmd *cli.Command) error {
	productID := cmd.Args().First()
	if productID == "" {
		return fmt.Errorf("a Printify product id is required")
	}
	connectors, err := e.connectors(ctx)
	if err != nil {
		return err
	}
	bridge, err := connectors.Bridge()
	if err != nil {
		return err
	}
	result, err := bridge.PublishProduct(ctx, productID)
	if err != nil {
		return err
	}
	e.printResult(result)
	return nil
}

func (e *env) bridgeSyncOrder(ctx context.Context, cmd *cli.Command) error {
	orderID, err := strconv.ParseUint(cmd.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("a numeric Shopify order id is required")
	}
	connectors, err := e.connectors(ctx)
	if err != nil {
		return err
	}
	storefront, err := e.storefront(ctx)
	if err != nil {
		return err
	}
	order, err := storefront.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	bridge, err := connectors.Bridge()
	if err != nil {
		return err
	}
	result, err := bridge.OnOrderCreated(ctx, shopify.ToDomainOrder(*order))
	if err != nil {
		return err
	}
	e.printResult(result)
	return nil
}
