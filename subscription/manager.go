package subscription

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"

	"opcuacore/services"
)

// Manager owns every live Subscription for one Client, keyed by
// server-assigned subscriptionId. uaclient.Client embeds one; it is the
// "owner holds strong refs" side of the weak-back-reference pattern
// spec §9 describes — Subscription only ever reaches back to its Client
// through the Conn interface, never through a pointer into Manager.
type Manager struct {
	mu   sync.Mutex
	subs map[uint32]*Subscription
}

func NewManager() *Manager {
	return &Manager{subs: make(map[uint32]*Subscription)}
}

// Create creates a new Subscription through conn and registers it.
func (m *Manager) Create(ctx context.Context, conn Conn, params CreateParams, events Events) (*Subscription, error) {
	s, err := Create(ctx, conn, params, events)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.subs[s.SubscriptionID()] = s
	m.mu.Unlock()
	return s, nil
}

// All returns a snapshot of every currently registered subscription.
func (m *Manager) All() []*Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Subscription, 0, len(m.subs))
	for _, s := range m.subs {
		out = append(out, s)
	}
	return out
}

// Dispatch routes one Publish response's NotificationMessage to the
// subscription named by subscriptionId, if still known.
func (m *Manager) Dispatch(subscriptionID uint32, msg *services.NotificationMessage) {
	m.mu.Lock()
	s, ok := m.subs[subscriptionID]
	m.mu.Unlock()
	if ok {
		s.Dispatch(msg)
	}
}

// MinRevisedPublishingInterval reports the smallest revisedPublishingInterval
// across all live subscriptions, for the publish loop's timeoutHint
// computation. Returns (0, false) when there are none.
func (m *Manager) MinRevisedPublishingInterval() (interval int64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var min int64
	found := false
	for _, s := range m.subs {
		d := int64(s.RevisedPublishingInterval())
		if !found || d < min {
			min = d
			found = true
		}
	}
	return min, found
}

// Reconnect re-establishes every known subscription over a fresh
// conversation, per spec §4.6's reconnect path: best-effort
// DeleteSubscriptions against the (now-stale) old ids to discard any
// server-side stragglers, then recreate each subscription and its
// monitored items with their original parameters, grouped by
// timestampsToReturn, re-applying triggering links. Subscriptions whose
// recreation fails are marked deleted locally; every such failure is
// collected and returned together via go-multierror rather than
// stopping at the first one.
func (m *Manager) Reconnect(ctx context.Context, conn Conn) error {
	m.mu.Lock()
	old := make([]*Subscription, 0, len(m.subs))
	for _, s := range m.subs {
		old = append(old, s)
	}
	m.mu.Unlock()

	if len(old) > 0 {
		ids := make([]uint32, len(old))
		for i, s := range old {
			ids[i] = s.SubscriptionID()
		}
		_, _ = conn.Call(ctx, &services.DeleteSubscriptionsRequest{
			RequestHeader:   conn.NewRequestHeader(),
			SubscriptionIDs: ids,
		}, services.TypeIDDeleteSubscriptionsResponse)
	}

	var result *multierror.Error
	fresh := make(map[uint32]*Subscription, len(old))
	for _, s := range old {
		if err := s.recreate(ctx, conn); err != nil {
			result = multierror.Append(result, err)
		}
		if s.Deleted() {
			continue
		}
		fresh[s.SubscriptionID()] = s
	}

	m.mu.Lock()
	m.subs = fresh
	m.mu.Unlock()

	return result.ErrorOrNil()
}
