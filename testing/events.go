package ibctesting

import (
	"errors"
	"slices"

	testifysuite "github.com/stretchr/testify/suite"

	abci "github.com/cometbft/cometbft/abci/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcswap/ibc-swap/modules/apps/100-atomic-swap/types"
)

// ParseOrderIDFromEvents parses events emitted from a MakeSwap call and returns the
// order identifier.
func ParseOrderIDFromEvents(events sdk.Events) (string, error) {
	for _, event := range events {
		if event.Type != types.EventTypeMakeSwap {
			continue
		}
		if attribute, found := attributeByKey(event.Attributes, types.AttributeKeyOrderID); found {
			return attribute.Value, nil
		}
	}
	return "", errors.New("order id event attribute not found")
}

// ParseOrderStatusesFromEvents returns the order statuses announced in events, in
// emission order.
func ParseOrderStatusesFromEvents(events sdk.Events) []string {
	var statuses []string
	for _, event := range events {
		if event.Type != types.EventTypePacket {
			continue
		}
		if attribute, found := attributeByKey(event.Attributes, types.AttributeKeyStatus); found {
			statuses = append(statuses, attribute.Value)
		}
	}
	return statuses
}

// AssertEvents asserts that expected events are present in the actual events.
func AssertEvents(
	suite *testifysuite.Suite,
	expected sdk.Events,
	actual sdk.Events,
) {
	foundEvents := make(map[int]bool)

	for i, expectedEvent := range expected {
		for _, actualEvent := range actual {
			if expectedEvent.Type != actualEvent.Type {
				continue
			}

			attributeMatch := true
			for _, expectedAttr := range expectedEvent.Attributes {
				// any expected attributes that are not contained in the actual events will cause this event
				// not to match
				attributeMatch = attributeMatch && containsAttribute(actualEvent.Attributes, expectedAttr.Key, expectedAttr.Value)
			}

			if attributeMatch {
				foundEvents[i] = true
			}
		}
	}

	for i, expectedEvent := range expected {
		suite.Require().True(foundEvents[i], "event: %s was not found in events", expectedEvent.Type)
	}
}

// containsAttribute returns true if the given key/value pair is contained in the given attributes.
func containsAttribute(attrs []abci.EventAttribute, key, value string) bool {
	return slices.ContainsFunc(attrs, func(attr abci.EventAttribute) bool {
		return attr.Key == key && attr.Value == value
	})
}

// attributeByKey returns the event attribute keyed by the given key and a boolean indicating its presence in the given attributes.
func attributeByKey(attributes []abci.EventAttribute, key string) (abci.EventAttribute, bool) {
	idx := slices.IndexFunc(attributes, func(a abci.EventAttribute) bool { return a.Key == key })
	if idx == -1 {
		return abci.EventAttribute{}, false
	}
	return attributes[idx], true
}
