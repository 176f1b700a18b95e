package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Dosada05/arena-admin/mapper"
	"github.com/Dosada05/arena-admin/models"
)

// EventFilter narrows ListEvents. Empty fields are not sent.
type EventFilter struct {
	MatchType      models.MatchType
	Status         models.EventStatus
	ApprovalStatus models.ApprovalStatus
	Game           models.Game
}

func (f EventFilter) query() url.Values {
	q := url.Values{}
	if f.MatchType != "" {
		q.Set("match_type", string(f.MatchType))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.ApprovalStatus != "" {
		q.Set("approval_status", string(f.ApprovalStatus))
	}
	if f.Game != "" {
		q.Set("game", string(f.Game))
	}
	return q
}

func (c *Client) eventPath(id string) string {
	return c.eventsPath + "/" + url.PathEscape(id)
}

func decodeEvents(env *models.Envelope) ([]models.Event, error) {
	recs, err := dataAs[[]models.BackendRecord](env)
	if err != nil {
		return nil, err
	}
	return mapper.FromBackendList(recs), nil
}

// decodeEvent returns nil when the server confirmed without echoing the record.
func decodeEvent(env *models.Envelope) (*models.Event, error) {
	rec, err := dataAs[models.BackendRecord](env)
	if err != nil || len(rec) == 0 {
		return nil, err
	}
	e := mapper.FromBackend(rec)
	return &e, nil
}

func (c *Client) ListEvents(ctx context.Context, filter EventFilter) Result[[]models.Event] {
	return call(ctx, c, request{method: http.MethodGet, path: c.eventsPath, query: filter.query()}, decodeEvents)
}

func (c *Client) GetEvent(ctx context.Context, id string) Result[*models.Event] {
	return call(ctx, c, request{method: http.MethodGet, path: c.eventPath(id)}, decodeEvent)
}

// CreateEvent posts a backend-shaped record.
func (c *Client) CreateEvent(ctx context.Context, rec models.BackendRecord) Result[*models.Event] {
	return call(ctx, c, request{method: http.MethodPost, path: c.eventsPath, body: rec}, decodeEvent)
}

// UpdateEvent writes the full record with PUT.
func (c *Client) UpdateEvent(ctx context.Context, id string, rec models.BackendRecord) Result[*models.Event] {
	return call(ctx, c, request{method: http.MethodPut, path: c.eventPath(id), body: rec}, decodeEvent)
}

func (c *Client) DeleteEvent(ctx context.Context, id string) Result[struct{}] {
	return call(ctx, c, request{method: http.MethodDelete, path: c.eventPath(id)}, nothing)
}
