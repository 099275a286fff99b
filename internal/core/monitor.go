package core

import (
	"github.com/robgonnella/portx/internal/event"
	"github.com/robgonnella/portx/internal/report"
)

// Monitor logs scan lifecycle events until the core is stopped
func (c *Core) Monitor() error {
	evtReceiveChan := make(chan event.Event, 100)

	ids := []int{}

	for _, t := range []event.EventType{
		event.ScanStartedEventType,
		event.ScanCompleteEventType,
		event.ErrorEventType,
		event.FatalErrorEventType,
	} {
		ids = append(ids, c.events.RegisterListener(t, evtReceiveChan))
	}

	defer func() {
		for _, id := range ids {
			c.events.RemoveListener(id)
		}
	}()

	for {
		select {
		case <-c.ctx.Done():
			return c.ctx.Err()
		case evt := <-evtReceiveChan:
			c.handleEvent(evt)
		}
	}
}

// StartDaemon runs Monitor in the background then reports any failure
// recorded while the core was created as a fatal error
func (c *Core) StartDaemon() {
	go c.Monitor()

	if c.startupErr != nil {
		c.events.ReportFatalError(c.startupErr)
	}
}

func (c *Core) handleEvent(evt event.Event) {
	fields := map[string]interface{}{
		"type": evt.Type,
	}

	switch payload := evt.Payload.(type) {
	case event.StartedPayload:
		fields["host"] = payload.Host
		fields["total"] = payload.Total
	case *report.Report:
		fields["id"] = payload.ID
		fields["host"] = payload.Host
		fields["open"] = payload.OpenPorts()
	case error:
		c.logger.Error().Fields(fields).Err(payload).Msg("Event Received")
		return
	}

	c.logger.Debug().Fields(fields).Msg("Event Received")
}
