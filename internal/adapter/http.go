package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/utils"
	"github.com/MKhiriev/go-board-sync/models"
)

// BodyHashHeader carries the hex HMAC-SHA256 of the request body when a hash
// key is configured.
const BodyHashHeader = utils.BodyHashHeader

// TraceIDHeader carries the trace id found in the request context.
const TraceIDHeader = utils.TraceIDHeader

type httpRemoteAuthority struct {
	client *utils.HTTPClient

	hashKey string

	logger *logger.Logger
}

// NewHTTPRemoteAuthority constructs the REST implementation of
// [RemoteAuthority]. It normalises adapterCfg.HTTPAddress into a base URL and
// applies the request timeout.
//
// Returns an error if the address is empty or cannot be parsed.
func NewHTTPRemoteAuthority(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (RemoteAuthority, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}
	client := utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout)

	return &httpRemoteAuthority{client: client, hashKey: appCfg.HashKey, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// CreateEntity implements [RemoteAuthority]. It POSTs the entity to
// /api/lists or /api/cards.
func (h *httpRemoteAuthority) CreateEntity(ctx context.Context, entity models.Entity) (models.Entity, error) {
	req, err := h.jsonRequest(ctx, entity)
	if err != nil {
		return models.Entity{}, err
	}

	resp, err := req.Post(collectionPath(entity.Kind))
	if err != nil {
		return models.Entity{}, mapTransportError("create", err)
	}
	if err = mapHTTPError(resp, entity.Kind); err != nil {
		return models.Entity{}, err
	}

	return decodeEntity(resp, entity.Kind)
}

// UpdateEntity implements [RemoteAuthority]. It PUTs the patch to
// /api/{lists|cards}/{id}.
func (h *httpRemoteAuthority) UpdateEntity(ctx context.Context, kind models.EntityKind, id string, patch models.EntityPatch) (models.Entity, error) {
	req, err := h.jsonRequest(ctx, patch)
	if err != nil {
		return models.Entity{}, err
	}

	resp, err := req.Put(itemPath(kind, id))
	if err != nil {
		return models.Entity{}, mapTransportError("update", err)
	}
	if err = mapHTTPError(resp, kind); err != nil {
		return models.Entity{}, err
	}

	return decodeEntity(resp, kind)
}

// DeleteEntity implements [RemoteAuthority].
func (h *httpRemoteAuthority) DeleteEntity(ctx context.Context, kind models.EntityKind, id string) error {
	resp, err := h.request(ctx).
		Delete(itemPath(kind, id))
	if err != nil {
		return mapTransportError("delete", err)
	}

	return mapHTTPError(resp, kind)
}

// Reorder implements [RemoteAuthority]. It POSTs the batch to /api/reorder
// under the "lists" or "cards" key.
func (h *httpRemoteAuthority) Reorder(ctx context.Context, kind models.EntityKind, updates []models.PositionUpdate) error {
	body := models.ReorderRequest{}
	if kind == models.KindCard {
		body.Cards = updates
	} else {
		body.Lists = updates
	}

	req, err := h.jsonRequest(ctx, body)
	if err != nil {
		return err
	}

	resp, err := req.Post("/api/reorder")
	if err != nil {
		return mapTransportError("reorder", err)
	}

	return mapHTTPError(resp, kind)
}

// GetBoard implements [RemoteAuthority].
func (h *httpRemoteAuthority) GetBoard(ctx context.Context) (models.Board, error) {
	resp, err := h.request(ctx).
		Get("/api/board")
	if err != nil {
		return models.Board{}, mapTransportError("get board", err)
	}
	if err = mapHTTPError(resp, models.KindList); err != nil {
		return models.Board{}, err
	}

	var board models.Board
	if err = json.Unmarshal(resp.Body(), &board); err != nil {
		return models.Board{}, fmt.Errorf("%w: %w", ErrDecodingResponse, err)
	}
	// kinds are implied by position in the tree
	for i := range board.Columns {
		board.Columns[i].Kind = models.KindList
		for j := range board.Columns[i].Cards {
			board.Columns[i].Cards[j].Kind = models.KindCard
		}
	}

	return board, nil
}

// Ping implements [RemoteAuthority].
func (h *httpRemoteAuthority) Ping(ctx context.Context) error {
	resp, err := h.request(ctx).
		Get("/api/health")
	if err != nil {
		return mapTransportError("ping", err)
	}

	return mapHTTPError(resp, "")
}

// jsonRequest marshals body once so that the integrity header covers the
// exact bytes on the wire.
func (h *httpRemoteAuthority) jsonRequest(ctx context.Context, body any) (*resty.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req := h.request(ctx).
		SetBody(payload)
	if h.hashKey != "" {
		req.SetHeader(BodyHashHeader, utils.HashBody(payload, h.hashKey))
	}
	return req, nil
}

func (h *httpRemoteAuthority) request(ctx context.Context) *resty.Request {
	return h.client.Request(ctx)
}

func decodeEntity(resp *resty.Response, kind models.EntityKind) (models.Entity, error) {
	var e models.Entity
	if err := json.Unmarshal(resp.Body(), &e); err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrDecodingResponse, err)
	}
	e.Kind = kind
	return e, nil
}

func collectionPath(kind models.EntityKind) string {
	if kind == models.KindCard {
		return "/api/cards"
	}
	return "/api/lists"
}

func itemPath(kind models.EntityKind, id string) string {
	return collectionPath(kind) + "/" + url.PathEscape(id)
}
