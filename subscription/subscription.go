// Package subscription implements the Subscription/MonitoredItem
// lifecycle and NotificationMessage dispatch (spec §4.6): create, modify,
// setPublishingMode, delete, per-item index correlation for
// monitored-item operations, and replay-protected notification dispatch.
// TransferSubscriptions is not wrapped: there is no transfer operation.
//
// This package never imports uaclient: it talks to the session through
// the Conn interface, which uaclient.Client satisfies implicitly. That
// keeps the owning direction (uaclient owns a map of Subscriptions) a
// plain Go import with no cycle, while a Subscription's back-reference to
// its client stays a Conn value, not a concrete *uaclient.Client.
package subscription

import (
	"context"
	"sync"
	"time"

	"opcuacore/services"
	"opcuacore/ua"
	"opcuacore/uaerrors"
)

// Conn is the sliver of uaclient.Client a Subscription needs: header
// stamping plus a round-trip through the active secure conversation.
type Conn interface {
	NewRequestHeader() *services.RequestHeader
	Call(ctx context.Context, req ua.Encodable, respTypeID uint32) (ua.Encodable, error)
}

// Events lets a caller observe per-subscription activity without
// polling; all four are optional.
type Events struct {
	OnValues  func(changed []*MonitoredItem)
	OnEvents  func(changed []*MonitoredItem)
	OnStatus  func(status ua.StatusCode)
	OnDeleted func()
}

// Subscription is one CreateSubscription result plus its monitored
// items. The zero value is not usable; construct via Manager.Create.
type Subscription struct {
	conn   Conn
	events Events

	mu                       sync.Mutex
	createParams             CreateParams
	subscriptionID           uint32
	revisedPublishingInterval time.Duration
	revisedLifetimeCount     uint32
	revisedMaxKeepAliveCount uint32
	publishingEnabled        bool
	timestampsToReturn       services.TimestampsToReturn
	priority                 byte
	status                   ua.StatusCode
	deleted                  bool
	lastPublishTime          time.Time

	items map[uint32]*MonitoredItem // keyed by clientHandle
}

// MonitoredItem holds its originating creation parameters (so the
// reconnect path can recreate it), the server-assigned id, the last
// observed value/event payload, and its triggering links.
type MonitoredItem struct {
	sub *Subscription

	clientHandle     uint32
	monitoredItemID  uint32
	nodeID           *ua.NodeID
	attributeID      uint32
	monitoringMode   services.MonitoringMode
	samplingInterval float64
	queueSize        uint32
	discardOldest    bool

	deleted bool

	LastValue       *ua.DataValue
	LastEventFields []*ua.Variant

	// triggeredItems is keyed by clientHandle (stable across reconnect),
	// not monitoredItemId (reassigned by the server on every re-create).
	triggeredItems map[uint32]struct{}
}

// ClientHandle returns the monotonic client-assigned handle correlating
// this item across create/modify/notification traffic.
func (m *MonitoredItem) ClientHandle() uint32 { return m.clientHandle }

// MonitoredItemID returns the server-assigned id, or 0 before creation
// succeeds.
func (m *MonitoredItem) MonitoredItemID() uint32 { return m.monitoredItemID }

// Deleted reports whether this item has been locally marked deleted: by a
// Bad result at creation, a successful DeleteMonitoredItems response, the
// deletion of its subscription, or a failed reconnect re-creation.
func (m *MonitoredItem) Deleted() bool {
	m.sub.mu.Lock()
	defer m.sub.mu.Unlock()
	return m.deleted
}

// SubscriptionID returns the server-assigned id, or 0 before creation
// succeeds.
func (s *Subscription) SubscriptionID() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscriptionID
}

// Deleted reports whether Delete or a failed reconnect re-creation already
// tore this subscription down locally.
func (s *Subscription) Deleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleted
}

func (s *Subscription) checkNotDeleted() error {
	if s.deleted {
		return uaerrors.New(uaerrors.KindObjectDeleted, "subscription %d is deleted", s.subscriptionID)
	}
	return nil
}
