package webhook_handlers

import (
	"context"
	"fmt"

	"iamtoxico-bridge/internal/application"
	"iamtoxico-bridge/internal/domain"
)

// OutcomeLogged marks events that are acknowledged without a bridge action
const OutcomeLogged = "logged"

// BridgeSource yields the live bridge; *application.Connectors implements it
type BridgeSource interface {
	Bridge() (*application.Bridge, error)
}

// runBridge resolves the bridge, runs op and records its result on event
func runBridge(
	ctx context.Context,
	source BridgeSource,
	event *domain.WebhookEvent,
	op func(ctx context.Context, bridge *application.Bridge) (domain.SyncResult, error),
) (domain.SyncResult, error) {
	bridge, err := source.Bridge()
	if err != nil {
		event.Outcome = string(domain.SyncSkipped)
		return domain.Skipped("bridge not connected"), fmt.Errorf("failed to get bridge: %w", err)
	}
	result, err := op(ctx, bridge)
	event.Outcome = string(result.Status)
	return result, err
}
