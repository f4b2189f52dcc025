package subscription

import (
	"opcuacore/services"
	"opcuacore/ua"
)

// Dispatch applies one Publish/Republish response's NotificationMessage
// to this subscription: replay-protected by publishTime, then fanned out
// across the three notification shapes per spec §4.6.
func (s *Subscription) Dispatch(msg *services.NotificationMessage) {
	s.mu.Lock()
	if !msg.PublishTime.After(s.lastPublishTime) && !s.lastPublishTime.IsZero() {
		s.mu.Unlock()
		return
	}
	s.lastPublishTime = msg.PublishTime
	s.mu.Unlock()

	var changedValues []*MonitoredItem
	var changedEvents []*MonitoredItem

	for _, obj := range msg.NotificationData {
		if obj == nil || obj.Body == nil {
			continue
		}
		switch body := obj.Body.(type) {
		case *services.DataChangeNotification:
			changedValues = append(changedValues, s.applyDataChange(body)...)
		case *services.EventNotificationList:
			changedEvents = append(changedEvents, s.applyEvents(body)...)
		case *services.StatusChangeNotification:
			s.applyStatusChange(body)
		}
	}

	if len(changedValues) > 0 && s.events.OnValues != nil {
		s.events.OnValues(changedValues)
	}
	if len(changedEvents) > 0 && s.events.OnEvents != nil {
		s.events.OnEvents(changedEvents)
	}
}

func (s *Subscription) applyDataChange(n *services.DataChangeNotification) []*MonitoredItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed []*MonitoredItem
	for _, notif := range n.MonitoredItems {
		item, ok := s.items[notif.ClientHandle]
		if !ok {
			continue
		}
		item.LastValue = notif.Value
		changed = append(changed, item)
	}
	return changed
}

func (s *Subscription) applyEvents(n *services.EventNotificationList) []*MonitoredItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed []*MonitoredItem
	for _, fieldList := range n.Events {
		item, ok := s.items[fieldList.ClientHandle]
		if !ok {
			continue
		}
		item.LastEventFields = fieldList.EventFields
		changed = append(changed, item)
	}
	return changed
}

func (s *Subscription) applyStatusChange(n *services.StatusChangeNotification) {
	s.mu.Lock()
	s.status = n.Status
	s.mu.Unlock()
	if s.events.OnStatus != nil {
		s.events.OnStatus(n.Status)
	}
}

// Status returns the subscription's last-observed StatusChangeNotification
// status, or Good before any has arrived.
func (s *Subscription) Status() ua.StatusCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
