package uaclient

import (
	"context"
	"time"

	"go.uber.org/zap"

	"opcuacore/services"
	"opcuacore/ua"
)

// serverStatusCurrentTimeNodeID is Server_ServerStatus_CurrentTime
// (namespace 0, numeric id 2258), the standard no-op keep-alive read
// target every OPC-UA server exposes.
var serverStatusCurrentTimeNodeID = ua.NewNumericNodeID(0, 2258)

// keepAliveLoop reads Server_ServerStatus_CurrentTime every
// keepAliveInterval while the session is Activated. A failed read is
// logged and retried; it never tears the session down (spec §4.5).
func (c *Client) keepAliveLoop() {
	defer c.loopsDone.Done()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopKeepAlive:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
			_, err := c.Call(ctx, &services.ReadRequest{
				RequestHeader:      c.NewRequestHeader(),
				TimestampsToReturn: services.TimestampsNeither,
				NodesToRead: []services.ReadValueID{
					{NodeID: serverStatusCurrentTimeNodeID, AttributeID: attributeIDValue},
				},
			}, services.TypeIDReadResponse)
			cancel()
			if err != nil {
				c.logger.Warn("keep-alive read failed", zap.Error(err))
			}
		}
	}
}

// attributeIDValue is the standard AttributeId for Value (13), the only
// attribute this core's Read calls ever need.
const attributeIDValue = 13
