package subscription

import (
	"context"
	"testing"

	"opcuacore/services"
	"opcuacore/ua"
)

// fakeConn is a minimal Conn that returns pre-canned responses keyed by
// the wire type ID the caller asked for, recording every request so
// tests can assert on what was sent.
type fakeConn struct {
	responses map[uint32]ua.Encodable
	errors    map[uint32]error
	requests  []ua.Encodable
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		responses: make(map[uint32]ua.Encodable),
		errors:    make(map[uint32]error),
	}
}

func (c *fakeConn) NewRequestHeader() *services.RequestHeader {
	return &services.RequestHeader{}
}

func (c *fakeConn) Call(ctx context.Context, req ua.Encodable, respTypeID uint32) (ua.Encodable, error) {
	c.requests = append(c.requests, req)
	if err, ok := c.errors[respTypeID]; ok {
		return nil, err
	}
	return c.responses[respTypeID], nil
}

func testNodeID() *ua.NodeID { return ua.NewNumericNodeID(1, 100) }

func TestCreateBuildsSubscriptionFromResponse(t *testing.T) {
	conn := newFakeConn()
	conn.responses[services.TypeIDCreateSubscriptionResponse] = &services.CreateSubscriptionResponse{
		ResponseHeader:            &services.ResponseHeader{},
		SubscriptionID:            7,
		RevisedPublishingInterval: 500,
		RevisedLifetimeCount:      10,
		RevisedMaxKeepAliveCount:  3,
	}

	sub, err := Create(context.Background(), conn, CreateParams{
		RequestedPublishingIntervalMS: 500,
		RequestedLifetimeCount:        10,
		RequestedMaxKeepAliveCount:    3,
		PublishingEnabled:             true,
	}, Events{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sub.SubscriptionID() != 7 {
		t.Fatalf("SubscriptionID = %d, want 7", sub.SubscriptionID())
	}
	if sub.RevisedPublishingInterval() != msToDuration(500) {
		t.Fatalf("RevisedPublishingInterval = %v, want %v", sub.RevisedPublishingInterval(), msToDuration(500))
	}
}

func TestCreateMonitoredItemsOnlyKeepsGoodResults(t *testing.T) {
	conn := newFakeConn()
	conn.responses[services.TypeIDCreateSubscriptionResponse] = &services.CreateSubscriptionResponse{
		ResponseHeader: &services.ResponseHeader{}, SubscriptionID: 1,
	}
	sub, err := Create(context.Background(), conn, CreateParams{}, Events{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	conn.responses[services.TypeIDCreateMonitoredItemsResponse] = &services.CreateMonitoredItemsResponse{
		ResponseHeader: &services.ResponseHeader{},
		Results: []services.MonitoredItemCreateResult{
			{StatusCode: ua.StatusOK, MonitoredItemID: 11},
			{StatusCode: ua.StatusBadInternalError, MonitoredItemID: 0},
		},
	}

	items, err := sub.CreateMonitoredItems(context.Background(), []ItemToCreate{
		{NodeID: testNodeID(), AttributeID: 13},
		{NodeID: testNodeID(), AttributeID: 13},
	})
	if err != nil {
		t.Fatalf("CreateMonitoredItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items returned, got %d", len(items))
	}
	if items[0].Deleted() {
		t.Fatalf("item with Good status must not be deleted")
	}
	if items[0].MonitoredItemID() != 11 {
		t.Fatalf("MonitoredItemID = %d, want 11", items[0].MonitoredItemID())
	}
	if !items[1].Deleted() {
		t.Fatalf("item with Bad status must be marked deleted")
	}

	sub.mu.Lock()
	_, tracked := sub.items[items[0].ClientHandle()]
	sub.mu.Unlock()
	if !tracked {
		t.Fatalf("surviving item must be tracked under its clientHandle")
	}
}

func TestCreateMonitoredItemsResultCountMismatchErrors(t *testing.T) {
	conn := newFakeConn()
	conn.responses[services.TypeIDCreateSubscriptionResponse] = &services.CreateSubscriptionResponse{
		ResponseHeader: &services.ResponseHeader{}, SubscriptionID: 1,
	}
	sub, _ := Create(context.Background(), conn, CreateParams{}, Events{})

	conn.responses[services.TypeIDCreateMonitoredItemsResponse] = &services.CreateMonitoredItemsResponse{
		ResponseHeader: &services.ResponseHeader{},
		Results:        []services.MonitoredItemCreateResult{{StatusCode: ua.StatusOK}},
	}

	_, err := sub.CreateMonitoredItems(context.Background(), []ItemToCreate{
		{NodeID: testNodeID(), AttributeID: 13},
		{NodeID: testNodeID(), AttributeID: 13},
	})
	if err == nil {
		t.Fatalf("expected an error on results/items length mismatch")
	}
}

func TestDeleteMarksSubscriptionAndItemsDeleted(t *testing.T) {
	conn := newFakeConn()
	conn.responses[services.TypeIDCreateSubscriptionResponse] = &services.CreateSubscriptionResponse{
		ResponseHeader: &services.ResponseHeader{}, SubscriptionID: 9,
	}
	sub, _ := Create(context.Background(), conn, CreateParams{}, Events{})

	conn.responses[services.TypeIDCreateMonitoredItemsResponse] = &services.CreateMonitoredItemsResponse{
		ResponseHeader: &services.ResponseHeader{},
		Results:        []services.MonitoredItemCreateResult{{StatusCode: ua.StatusOK, MonitoredItemID: 5}},
	}
	items, err := sub.CreateMonitoredItems(context.Background(), []ItemToCreate{{NodeID: testNodeID(), AttributeID: 13}})
	if err != nil {
		t.Fatalf("CreateMonitoredItems: %v", err)
	}

	conn.responses[services.TypeIDDeleteSubscriptionsResponse] = &services.DeleteSubscriptionsResponse{
		ResponseHeader: &services.ResponseHeader{},
		Results:        []ua.StatusCode{ua.StatusOK},
	}
	deleted := false
	sub.events.OnDeleted = func() { deleted = true }

	if err := sub.Delete(context.Background()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !sub.Deleted() {
		t.Fatalf("subscription must be marked deleted")
	}
	if !items[0].Deleted() {
		t.Fatalf("monitored items must be marked deleted alongside their subscription")
	}
	if !deleted {
		t.Fatalf("OnDeleted must fire")
	}
}

func TestSetTriggeringTracksLinksByClientHandle(t *testing.T) {
	conn := newFakeConn()
	conn.responses[services.TypeIDCreateSubscriptionResponse] = &services.CreateSubscriptionResponse{
		ResponseHeader: &services.ResponseHeader{}, SubscriptionID: 1,
	}
	sub, _ := Create(context.Background(), conn, CreateParams{}, Events{})

	conn.responses[services.TypeIDCreateMonitoredItemsResponse] = &services.CreateMonitoredItemsResponse{
		ResponseHeader: &services.ResponseHeader{},
		Results: []services.MonitoredItemCreateResult{
			{StatusCode: ua.StatusOK, MonitoredItemID: 1},
			{StatusCode: ua.StatusOK, MonitoredItemID: 2},
		},
	}
	items, err := sub.CreateMonitoredItems(context.Background(), []ItemToCreate{
		{NodeID: testNodeID(), AttributeID: 13},
		{NodeID: testNodeID(), AttributeID: 13},
	})
	if err != nil {
		t.Fatalf("CreateMonitoredItems: %v", err)
	}

	conn.responses[services.TypeIDSetTriggeringResponse] = &services.SetTriggeringResponse{
		ResponseHeader: &services.ResponseHeader{},
		AddResults:     []ua.StatusCode{ua.StatusOK},
	}
	if err := sub.SetTriggering(context.Background(), items[0], []*MonitoredItem{items[1]}, nil); err != nil {
		t.Fatalf("SetTriggering: %v", err)
	}

	sub.mu.Lock()
	_, linked := items[0].triggeredItems[items[1].ClientHandle()]
	sub.mu.Unlock()
	if !linked {
		t.Fatalf("triggered link must be tracked by the target's clientHandle")
	}
}
