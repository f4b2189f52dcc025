package uaclient

import (
	"context"
	"time"

	"go.uber.org/zap"

	"opcuacore/services"
)

// publishLoop keeps exactly one Publish request in flight while
// Activated (spec §4.5): it assembles acknowledgements for the previous
// round's notifications, sends the next Publish with a timeoutHint
// derived from the fastest subscription's revisedPublishingInterval, and
// dispatches the response to the subscription it names. A failed Publish
// waits min(publishingInterval) before retrying rather than spinning.
func (c *Client) publishLoop() {
	defer c.loopsDone.Done()

	for {
		select {
		case <-c.stopPublish:
			return
		default:
		}

		interval, ok := c.subs.MinRevisedPublishingInterval()
		if !ok {
			// No subscriptions yet: nothing to publish against. Back off
			// briefly rather than busy-looping until one is created.
			select {
			case <-c.stopPublish:
				return
			case <-time.After(c.cfg.Timeout):
			}
			continue
		}
		publishingInterval := time.Duration(interval)
		timeoutHint := publishingInterval + c.cfg.Timeout

		ctx, cancel := context.WithTimeout(context.Background(), timeoutHint)
		req := &services.PublishRequest{
			RequestHeader:                c.newRequestHeaderWithTimeout(timeoutHint),
			SubscriptionAcknowledgements: c.drainPendingAcks(),
		}
		respVal, err := c.Call(ctx, req, services.TypeIDPublishResponse)
		cancel()
		if err != nil {
			c.logger.Warn("publish failed", zap.Error(err))
			select {
			case <-c.stopPublish:
				return
			case <-time.After(publishingInterval):
			}
			continue
		}

		resp, ok := respVal.(*services.PublishResponse)
		if !ok {
			c.logger.Warn("unexpected Publish response type")
			continue
		}

		if resp.NotificationMessage != nil {
			c.recordPendingAck(resp.SubscriptionID, resp.NotificationMessage.SequenceNumber)
			c.subs.Dispatch(resp.SubscriptionID, resp.NotificationMessage)
		}
	}
}

func (c *Client) recordPendingAck(subscriptionID, sequenceNumber uint32) {
	c.ackMu.Lock()
	c.pendingAcks[subscriptionID] = sequenceNumber
	c.ackMu.Unlock()
}

func (c *Client) drainPendingAcks() []services.SubscriptionAcknowledgement {
	c.ackMu.Lock()
	defer c.ackMu.Unlock()
	if len(c.pendingAcks) == 0 {
		return nil
	}
	acks := make([]services.SubscriptionAcknowledgement, 0, len(c.pendingAcks))
	for subID, seq := range c.pendingAcks {
		acks = append(acks, services.SubscriptionAcknowledgement{SubscriptionID: subID, SequenceNumber: seq})
	}
	c.pendingAcks = make(map[uint32]uint32)
	return acks
}
