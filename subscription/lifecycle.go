package subscription

import (
	"context"
	"sync/atomic"
	"time"

	"opcuacore/services"
	"opcuacore/ua"
	"opcuacore/uaerrors"
)

// clientHandleCounter is process-wide: clientHandle only has to be unique
// within one conversation, but sharing one monotonic counter across every
// Subscription on a Client is simpler than per-subscription bookkeeping
// and still satisfies that.
var clientHandleCounter uint32

func nextClientHandle() uint32 {
	return atomic.AddUint32(&clientHandleCounter, 1)
}

// CreateParams mirrors CreateSubscriptionRequest's caller-chosen fields;
// Subscription keeps a copy so it can recreate itself after reconnect.
type CreateParams struct {
	RequestedPublishingIntervalMS float64
	RequestedLifetimeCount        uint32
	RequestedMaxKeepAliveCount    uint32
	MaxNotificationsPerPublish    uint32
	PublishingEnabled             bool
	Priority                      byte
}

// Create issues CreateSubscription and returns the resulting
// Subscription, owned by the caller (typically uaclient.Client, which
// keeps it in its subscriptions map keyed by SubscriptionID).
func Create(ctx context.Context, conn Conn, params CreateParams, events Events) (*Subscription, error) {
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
	if err != nil {
		return nil, err
	}
	resp, ok := respVal.(*services.CreateSubscriptionResponse)
	if !ok {
		return nil, uaerrors.New(uaerrors.KindUnexpected, "unexpected CreateSubscription response type")
	}

	s := &Subscription{
		conn:                      conn,
		events:                    events,
		createParams:              params,
		subscriptionID:            resp.SubscriptionID,
		revisedPublishingInterval: msToDuration(resp.RevisedPublishingInterval),
		revisedLifetimeCount:      resp.RevisedLifetimeCount,
		revisedMaxKeepAliveCount:  resp.RevisedMaxKeepAliveCount,
		publishingEnabled:         params.PublishingEnabled,
		timestampsToReturn:        services.TimestampsBoth,
		items:                     make(map[uint32]*MonitoredItem),
	}
	return s, nil
}

// RevisedPublishingInterval is the interval the server actually committed
// to, used by the publish loop's timeoutHint computation.
func (s *Subscription) RevisedPublishingInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revisedPublishingInterval
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// Modify issues ModifySubscription and, on success, updates the locally
// held revised parameters.
func (s *Subscription) Modify(ctx context.Context, params CreateParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkNotDeleted(); err != nil {
		return err
	}

	req := &services.ModifySubscriptionRequest{
		RequestHeader:               s.conn.NewRequestHeader(),
		SubscriptionID:              s.subscriptionID,
		RequestedPublishingInterval: params.RequestedPublishingIntervalMS,
		RequestedLifetimeCount:      params.RequestedLifetimeCount,
		RequestedMaxKeepAliveCount:  params.RequestedMaxKeepAliveCount,
		MaxNotificationsPerPublish:  params.MaxNotificationsPerPublish,
		Priority:                    params.Priority,
	}
	respVal, err := s.conn.Call(ctx, req, services.TypeIDModifySubscriptionResponse)
	if err != nil {
		return err
	}
	resp, ok := respVal.(*services.ModifySubscriptionResponse)
	if !ok {
		return uaerrors.New(uaerrors.KindUnexpected, "unexpected ModifySubscription response type")
	}
	s.createParams = params
	s.revisedPublishingInterval = msToDuration(resp.RevisedPublishingInterval)
	s.revisedLifetimeCount = resp.RevisedLifetimeCount
	s.revisedMaxKeepAliveCount = resp.RevisedMaxKeepAliveCount
	return nil
}

// SetPublishingMode issues SetPublishingMode for this subscription alone.
func (s *Subscription) SetPublishingMode(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkNotDeleted(); err != nil {
		return err
	}
	req := &services.SetPublishingModeRequest{
		RequestHeader:     s.conn.NewRequestHeader(),
		PublishingEnabled: enabled,
		SubscriptionIDs:   []uint32{s.subscriptionID},
	}
	respVal, err := s.conn.Call(ctx, req, services.TypeIDSetPublishingModeResponse)
	if err != nil {
		return err
	}
	resp, ok := respVal.(*services.SetPublishingModeResponse)
	if !ok {
		return uaerrors.New(uaerrors.KindUnexpected, "unexpected SetPublishingMode response type")
	}
	if len(resp.Results) == 1 && resp.Results[0].IsGood() {
		s.publishingEnabled = enabled
	}
	return nil
}

// Delete issues DeleteSubscriptions for this subscription alone and, on
// success, marks it (and every monitored item it owns) deleted.
func (s *Subscription) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return nil
	}
	req := &services.DeleteSubscriptionsRequest{
		RequestHeader:   s.conn.NewRequestHeader(),
		SubscriptionIDs: []uint32{s.subscriptionID},
	}
	respVal, err := s.conn.Call(ctx, req, services.TypeIDDeleteSubscriptionsResponse)
	if err != nil {
		return err
	}
	resp, ok := respVal.(*services.DeleteSubscriptionsResponse)
	if !ok {
		return uaerrors.New(uaerrors.KindUnexpected, "unexpected DeleteSubscriptions response type")
	}
	if len(resp.Results) == 1 && !resp.Results[0].IsGood() {
		return uaerrors.New(uaerrors.KindServiceFault, "DeleteSubscriptions returned %v", resp.Results[0])
	}
	s.markDeletedLocked()
	return nil
}

func (s *Subscription) markDeletedLocked() {
	s.deleted = true
	for _, item := range s.items {
		item.deleted = true
	}
	if s.events.OnDeleted != nil {
		s.events.OnDeleted()
	}
}

// CreateMonitoredItems assigns each request a fresh clientHandle, sends
// CreateMonitoredItems, and adds every item whose result is Good to the
// subscription; items whose result is Bad are returned already marked
// deleted, per spec §4.6.
func (s *Subscription) CreateMonitoredItems(ctx context.Context, reqs []ItemToCreate) ([]*MonitoredItem, error) {
	s.mu.Lock()
	if err := s.checkNotDeleted(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	created := make([]*MonitoredItem, len(reqs))
	wireReqs := make([]services.MonitoredItemCreateRequest, len(reqs))
	for i, r := range reqs {
		handle := nextClientHandle()
		created[i] = &MonitoredItem{
			sub:              s,
			clientHandle:     handle,
			nodeID:           r.NodeID,
			attributeID:      r.AttributeID,
			monitoringMode:   r.MonitoringMode,
			samplingInterval: r.SamplingInterval,
			queueSize:        r.QueueSize,
			discardOldest:    r.DiscardOldest,
			triggeredItems:   make(map[uint32]struct{}),
		}
		wireReqs[i] = services.MonitoredItemCreateRequest{
			ItemToMonitor: services.ReadValueID{
				NodeID:      r.NodeID,
				AttributeID: r.AttributeID,
			},
			MonitoringMode: r.MonitoringMode,
			RequestedParameters: services.MonitoringParameters{
				ClientHandle:     handle,
				SamplingInterval: r.SamplingInterval,
				QueueSize:        r.QueueSize,
				DiscardOldest:    r.DiscardOldest,
			},
		}
	}

	req := &services.CreateMonitoredItemsRequest{
		RequestHeader:      s.conn.NewRequestHeader(),
		SubscriptionID:     s.SubscriptionID(),
		TimestampsToReturn: s.timestampsToReturnSnapshot(),
		ItemsToCreate:      wireReqs,
	}
	respVal, err := s.conn.Call(ctx, req, services.TypeIDCreateMonitoredItemsResponse)
	if err != nil {
		return nil, err
	}
	resp, ok := respVal.(*services.CreateMonitoredItemsResponse)
	if !ok {
		return nil, uaerrors.New(uaerrors.KindUnexpected, "unexpected CreateMonitoredItems response type")
	}
	if len(resp.Results) != len(created) {
		return nil, uaerrors.New(uaerrors.KindUnexpected, "CreateMonitoredItems returned %d results for %d requests", len(resp.Results), len(created))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, result := range resp.Results {
		item := created[i]
		if !result.StatusCode.IsGood() {
			item.deleted = true
			continue
		}
		item.monitoredItemID = result.MonitoredItemID
		s.items[item.clientHandle] = item
	}
	return created, nil
}

// ItemToCreate is the caller-facing request for one new MonitoredItem.
type ItemToCreate struct {
	NodeID           *ua.NodeID
	AttributeID      uint32
	MonitoringMode   services.MonitoringMode
	SamplingInterval float64
	QueueSize        uint32
	DiscardOldest    bool
}

func (s *Subscription) timestampsToReturnSnapshot() services.TimestampsToReturn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timestampsToReturn
}

// ModifyMonitoredItems applies per-item index correlation: only items
// whose result is Good are updated locally.
func (s *Subscription) ModifyMonitoredItems(ctx context.Context, items []*MonitoredItem, params []services.MonitoringParameters) error {
	if len(items) != len(params) {
		return uaerrors.New(uaerrors.KindInvalidArgument, "items and params must have equal length")
	}
	s.mu.Lock()
	if err := s.checkNotDeleted(); err != nil {
		s.mu.Unlock()
		return err
	}
	wireReqs := make([]services.MonitoredItemModifyRequest, len(items))
	for i, item := range items {
		wireReqs[i] = services.MonitoredItemModifyRequest{
			MonitoredItemID:     item.monitoredItemID,
			RequestedParameters: params[i],
		}
	}
	subID := s.subscriptionID
	ttr := s.timestampsToReturn
	s.mu.Unlock()

	req := &services.ModifyMonitoredItemsRequest{
		RequestHeader:      s.conn.NewRequestHeader(),
		SubscriptionID:     subID,
		TimestampsToReturn: ttr,
		ItemsToModify:      wireReqs,
	}
	respVal, err := s.conn.Call(ctx, req, services.TypeIDModifyMonitoredItemsResponse)
	if err != nil {
		return err
	}
	resp, ok := respVal.(*services.ModifyMonitoredItemsResponse)
	if !ok {
		return uaerrors.New(uaerrors.KindUnexpected, "unexpected ModifyMonitoredItems response type")
	}
	if len(resp.Results) != len(items) {
		return uaerrors.New(uaerrors.KindUnexpected, "ModifyMonitoredItems returned %d results for %d items", len(resp.Results), len(items))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, result := range resp.Results {
		if result.StatusCode.IsGood() {
			items[i].samplingInterval = result.RevisedSamplingInterval
			items[i].queueSize = result.RevisedQueueSize
		}
	}
	return nil
}

// SetMonitoringMode applies per-item index correlation: only items whose
// result is Good have their local monitoringMode updated.
func (s *Subscription) SetMonitoringMode(ctx context.Context, items []*MonitoredItem, mode services.MonitoringMode) error {
	s.mu.Lock()
	if err := s.checkNotDeleted(); err != nil {
		s.mu.Unlock()
		return err
	}
	ids := make([]uint32, len(items))
	for i, item := range items {
		ids[i] = item.monitoredItemID
	}
	subID := s.subscriptionID
	s.mu.Unlock()

	req := &services.SetMonitoringModeRequest{
		RequestHeader:    s.conn.NewRequestHeader(),
		SubscriptionID:   subID,
		MonitoringMode:   mode,
		MonitoredItemIDs: ids,
	}
	respVal, err := s.conn.Call(ctx, req, services.TypeIDSetMonitoringModeResponse)
	if err != nil {
		return err
	}
	resp, ok := respVal.(*services.SetMonitoringModeResponse)
	if !ok {
		return uaerrors.New(uaerrors.KindUnexpected, "unexpected SetMonitoringMode response type")
	}
	if len(resp.Results) != len(items) {
		return uaerrors.New(uaerrors.KindUnexpected, "SetMonitoringMode returned %d results for %d items", len(resp.Results), len(items))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, result := range resp.Results {
		if result.IsGood() {
			items[i].monitoringMode = mode
		}
	}
	return nil
}

// DeleteMonitoredItems applies per-item index correlation: only items
// whose result is Good are removed from the subscription's local
// collection and marked deleted.
func (s *Subscription) DeleteMonitoredItems(ctx context.Context, items []*MonitoredItem) error {
	s.mu.Lock()
	if err := s.checkNotDeleted(); err != nil {
		s.mu.Unlock()
		return err
	}
	ids := make([]uint32, len(items))
	for i, item := range items {
		ids[i] = item.monitoredItemID
	}
	subID := s.subscriptionID
	s.mu.Unlock()

	req := &services.DeleteMonitoredItemsRequest{
		RequestHeader:    s.conn.NewRequestHeader(),
		SubscriptionID:   subID,
		MonitoredItemIDs: ids,
	}
	respVal, err := s.conn.Call(ctx, req, services.TypeIDDeleteMonitoredItemsResponse)
	if err != nil {
		return err
	}
	resp, ok := respVal.(*services.DeleteMonitoredItemsResponse)
	if !ok {
		return uaerrors.New(uaerrors.KindUnexpected, "unexpected DeleteMonitoredItems response type")
	}
	if len(resp.Results) != len(items) {
		return uaerrors.New(uaerrors.KindUnexpected, "DeleteMonitoredItems returned %d results for %d items", len(resp.Results), len(items))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, result := range resp.Results {
		if result.IsGood() {
			items[i].deleted = true
			delete(s.items, items[i].clientHandle)
		}
	}
	return nil
}

// SetTriggering maintains the local triggering-link set by diffing the
// response against the request: links the server confirmed added/removed
// (Good result) are reflected locally, rejected ones are not.
func (s *Subscription) SetTriggering(ctx context.Context, triggeringItem *MonitoredItem, toAdd, toRemove []*MonitoredItem) error {
	s.mu.Lock()
	if err := s.checkNotDeleted(); err != nil {
		s.mu.Unlock()
		return err
	}
	addIDs := make([]uint32, len(toAdd))
	for i, item := range toAdd {
		addIDs[i] = item.monitoredItemID
	}
	removeIDs := make([]uint32, len(toRemove))
	for i, item := range toRemove {
		removeIDs[i] = item.monitoredItemID
	}
	subID := s.subscriptionID
	s.mu.Unlock()

	req := &services.SetTriggeringRequest{
		RequestHeader:    s.conn.NewRequestHeader(),
		SubscriptionID:   subID,
		TriggeringItemID: triggeringItem.monitoredItemID,
		LinksToAdd:       addIDs,
		LinksToRemove:    removeIDs,
	}
	respVal, err := s.conn.Call(ctx, req, services.TypeIDSetTriggeringResponse)
	if err != nil {
		return err
	}
	resp, ok := respVal.(*services.SetTriggeringResponse)
	if !ok {
		return uaerrors.New(uaerrors.KindUnexpected, "unexpected SetTriggering response type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, result := range resp.AddResults {
		if i < len(toAdd) && result.IsGood() {
			triggeringItem.triggeredItems[toAdd[i].clientHandle] = struct{}{}
		}
	}
	for i, result := range resp.RemoveResults {
		if i < len(toRemove) && result.IsGood() {
			delete(triggeringItem.triggeredItems, toRemove[i].clientHandle)
		}
	}
	return nil
}
