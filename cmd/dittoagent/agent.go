package main

import (
	"net/http"
	"time"

	"github.com/nerrad567/gray-logic-ditto/internal/client"
	"github.com/nerrad567/gray-logic-ditto/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-ditto/internal/model"
	"github.com/nerrad567/gray-logic-ditto/internal/protocol"
	"github.com/nerrad567/gray-logic-ditto/internal/protocol/things"
)

// connectionAttribute is the thing attribute announcing agent connectivity.
const connectionAttribute = "connection"

// agent is the device side of one thing: it answers live requests and
// reports its connection state.
type agent struct {
	thingID model.NamespacedID
	log     *logging.Logger
	now     func() time.Time
}

func newAgent(thingID model.NamespacedID, log *logging.Logger) *agent {
	return &agent{
		thingID: thingID,
		log:     log,
		now:     time.Now,
	}
}

// handler returns the request handler bound to c.
func (a *agent) handler(c *client.Client) client.Handler {
	return func(requestID string, env *protocol.Envelope) {
		log := a.log.With("request_id", requestID, "ditto_topic", env.Topic.String())

		if requestID == "" {
			log.Debug("one-way message ignored")
			return
		}

		if err := c.Reply(requestID, a.response(env)); err != nil {
			log.Error("reply failed", "error", err)
			return
		}
		log.Info("request answered", "status", http.StatusNoContent)
	}
}

// response builds the 204 answer to req on the outbox of the request subject.
func (a *agent) response(req *protocol.Envelope) *protocol.Envelope {
	thingID := model.NewNamespacedID(req.Topic.Namespace, req.Topic.EntityID)

	opts := []protocol.HeaderOption{protocol.ResponseRequired(false)}
	if req.Headers != nil {
		if id, ok := req.Headers.CorrelationID(); ok {
			opts = append(opts, protocol.CorrelationID(id))
		}
	}

	return things.NewMessage(thingID).
		Outbox(string(req.Topic.Action)).
		Envelope(opts...).
		WithStatus(http.StatusNoContent)
}

// connectionEvent reports the agent as connected since now.
func (a *agent) connectionEvent() *protocol.Envelope {
	return things.NewEvent(a.thingID).
		Attribute(connectionAttribute).
		Modified(map[string]any{
			"status": "connected",
			"since":  a.now().UTC().Format(time.RFC3339),
		}).
		Envelope(protocol.ResponseRequired(false))
}

func (a *agent) onConnect(c *client.Client) {
	if err := c.Send(a.connectionEvent()); err != nil {
		a.log.Error("publishing connection event failed", "error", err)
		return
	}
	a.log.Info("ditto client connected")
}

func (a *agent) onDisconnect(_ *client.Client) {
	a.log.Info("ditto client disconnected")
}
