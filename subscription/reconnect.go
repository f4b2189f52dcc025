package subscription

import (
	"context"

	"opcuacore/services"
	"opcuacore/uaerrors"
)

// recreate re-issues CreateSubscription with this subscription's original
// parameters, updates the local subscriptionId, and re-creates every
// still-live monitored item (grouped by timestampsToReturn — this core
// tracks one timestampsToReturn per subscription, so its monitored items
// are already one group). Items whose re-creation fails are marked
// deleted locally rather than aborting the whole subscription.
func (s *Subscription) recreate(ctx context.Context, conn Conn) error {
	s.mu.Lock()
	params := s.createParams
	oldItems := make([]*MonitoredItem, 0, len(s.items))
	for _, item := range s.items {
		oldItems = append(oldItems, item)
	}
	s.mu.Unlock()

	req := &services.CreateSubscriptionRequest{
		RequestHeader:               conn.NewRequestHeader(),
		RequestedPublishingInterval: params.RequestedPublishingIntervalMS,
		RequestedLifetimeCount:      params.RequestedLifetimeCount,
		RequestedMaxKeepAliveCount:  params.RequestedMaxKeepAliveCount,
		MaxNotificationsPerPublish:  params.MaxNotificationsPerPublish,
		PublishingEnabled:           params.PublishingEnabled,
		Priority:                    params.Priority,
	}
	respVal, err := conn.Call(ctx, req, services.TypeIDCreateSubscriptionResponse)
	resp, ok := respVal.(*services.CreateSubscriptionResponse)
	if err == nil && !ok {
		err = uaerrors.New(uaerrors.KindUnexpected, "unexpected CreateSubscription response type")
	}
	if err != nil {
		s.mu.Lock()
		s.markDeletedLocked()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.subscriptionID = resp.SubscriptionID
	s.revisedPublishingInterval = msToDuration(resp.RevisedPublishingInterval)
	s.revisedLifetimeCount = resp.RevisedLifetimeCount
	s.revisedMaxKeepAliveCount = resp.RevisedMaxKeepAliveCount
	s.deleted = false
	s.items = make(map[uint32]*MonitoredItem)
	s.mu.Unlock()

	if len(oldItems) == 0 {
		return nil
	}

	wireReqs := make([]services.MonitoredItemCreateRequest, len(oldItems))
	for i, item := range oldItems {
		wireReqs[i] = services.MonitoredItemCreateRequest{
			ItemToMonitor: services.ReadValueID{
				NodeID:      item.nodeID,
				AttributeID: item.attributeID,
			},
			MonitoringMode: item.monitoringMode,
			RequestedParameters: services.MonitoringParameters{
				ClientHandle:     item.clientHandle,
				SamplingInterval: item.samplingInterval,
				QueueSize:        item.queueSize,
				DiscardOldest:    item.discardOldest,
			},
		}
	}

	createReq := &services.CreateMonitoredItemsRequest{
		RequestHeader:      conn.NewRequestHeader(),
		SubscriptionID:     s.SubscriptionID(),
		TimestampsToReturn: s.timestampsToReturnSnapshot(),
		ItemsToCreate:      wireReqs,
	}
	createRespVal, err := conn.Call(ctx, createReq, services.TypeIDCreateMonitoredItemsResponse)
	createResp, ok := createRespVal.(*services.CreateMonitoredItemsResponse)
	if err == nil && !ok {
		err = uaerrors.New(uaerrors.KindUnexpected, "unexpected CreateMonitoredItems response type")
	}
	if err != nil {
		// The subscription itself survived; every item is conservatively
		// marked deleted since we don't know which, if any, took hold.
		s.mu.Lock()
		for _, item := range oldItems {
			item.deleted = true
		}
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, result := range createResp.Results {
		item := oldItems[i]
		if !result.StatusCode.IsGood() {
			item.deleted = true
			continue
		}
		item.monitoredItemID = result.MonitoredItemID
		s.items[item.clientHandle] = item
	}

	// Re-apply triggering links among the items that survived re-creation.
	// triggeredItems is keyed by clientHandle, so the new monitoredItemId
	// of each linked item must be looked up after re-creation.
	for _, item := range oldItems {
		if item.deleted || len(item.triggeredItems) == 0 {
			continue
		}
		links := make([]uint32, 0, len(item.triggeredItems))
		for handle := range item.triggeredItems {
			target, ok := s.items[handle]
			if !ok || target.deleted {
				continue
			}
			links = append(links, target.monitoredItemID)
		}
		if len(links) == 0 {
			continue
		}
		req := &services.SetTriggeringRequest{
			RequestHeader:    conn.NewRequestHeader(),
			SubscriptionID:   s.subscriptionID,
			TriggeringItemID: item.monitoredItemID,
			LinksToAdd:       links,
		}
		_, _ = conn.Call(ctx, req, services.TypeIDSetTriggeringResponse)
	}
	return nil
}
