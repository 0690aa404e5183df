package events

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-hook-gate/internal/pipeline"
	"github.com/MKhiriev/go-hook-gate/internal/registry"
	"github.com/MKhiriev/go-hook-gate/models"
)

// ackHandler builds the handler acknowledging one event. The response
// echoes the payload: parsed JSON as-is, anything else wrapped as
// {"raw": "<body>"} so the sender's debugging view never breaks.
func ackHandler(eventID string) pipeline.Handler {
	return func(rc *pipeline.RequestContext) *pipeline.Response {
		body, err := rc.Body()
		if err != nil {
			rc.Log.Error().Err(err).Msg("error reading request body")
			return pipeline.Error(http.StatusBadRequest, "error reading request body", rc.RID)
		}

		rc.Log.Info().Str("event", eventID).Int("bytes", len(body)).Msg("webhook received")

		return pipeline.JSON(http.StatusOK, models.Ack{
			OK:    true,
			Event: eventID,
			Path:  rc.Req.URL.RequestURI(),
			Data:  ackData(body),
		})
	}
}

// ackData normalizes the echoed payload. An empty body echoes JSON null.
func ackData(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}

	raw, err := json.Marshal(map[string]string{"raw": string(body)})
	if err != nil {
		return json.RawMessage("null")
	}
	return raw
}

// eventRoutes expands event names into their canonical POST routes. Every
// event answers at /webhook/<Event> with the historical /webhooks/<Event>
// alias sharing the id and the enablement decision.
func eventRoutes(names ...string) []registry.Route {
	routes := make([]registry.Route, 0, len(names))
	for _, name := range names {
		routes = append(routes, registry.Route{
			ID:      name,
			Method:  http.MethodPost,
			Path:    "/webhook/" + name,
			Aliases: []string{"/webhooks/" + name},
			Handler: ackHandler(name),
		})
	}
	return routes
}
