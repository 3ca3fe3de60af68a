// Package repository maps each ferry backend REST resource onto a typed Go
// interface. Modules shape requests and decode responses; permission checks,
// pricing and availability stay with the backend.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/domain"
)

// Trashed selects how archived records appear in list results.
type Trashed string

const (
	TrashedExclude Trashed = ""
	TrashedWith    Trashed = "with"
	TrashedOnly    Trashed = "only"
)

// ListQuery carries the pagination and search parameters shared by every list endpoint.
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// ForceDeleteRequest carries the typed confirmation phrase.
type ForceDeleteRequest struct {
	Confirmation string `json:"confirmation"`
}

// MessageResponse is the body of writes that return no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

func list[T any](ctx context.Context, client *apiclient.Client, token, path string, query url.Values) (*domain.Page[T], error) {
	var page domain.Page[T]
	if err := client.Get(ctx, token, path, query, &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return &page, nil
}

// get decodes either a bare entity or a `{data: entity}` wrapper.
func get[T any](ctx context.Context, client *apiclient.Client, token, path string, query url.Values) (*T, error) {
	var raw json.RawMessage
	if err := client.Get(ctx, token, path, query, &raw); err != nil {
		return nil, err
	}
	return unwrapEntity[T](raw, "data")
}

func mutate[T any](ctx context.Context, client *apiclient.Client, token, method, path, key string, body any) (*domain.Mutation[T], error) {
	var raw map[string]json.RawMessage
	if err := client.Send(ctx, token, method, path, body, &raw); err != nil {
		return nil, err
	}
	return decodeMutation[T](raw, key)
}

func upload[T any](ctx context.Context, client *apiclient.Client, token, path, key string, file apiclient.File) (*domain.Mutation[T], error) {
	var raw map[string]json.RawMessage
	if err := client.Upload(ctx, token, path, file, &raw); err != nil {
		return nil, err
	}
	return decodeMutation[T](raw, key)
}

func message(ctx context.Context, client *apiclient.Client, token, method, path string, body any) (string, error) {
	var resp MessageResponse
	if err := client.Send(ctx, token, method, path, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func decodeMutation[T any](raw map[string]json.RawMessage, key string) (*domain.Mutation[T], error) {
	result := &domain.Mutation[T]{}
	if msg, ok := raw["message"]; ok {
		if err := json.Unmarshal(msg, &result.Message); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
	}
	entity, ok := raw[key]
	if !ok {
		entity, ok = raw["data"]
	}
	if ok && string(entity) != "null" {
		var value T
		if err := json.Unmarshal(entity, &value); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		result.Entity = &value
	}
	return result, nil
}

func unwrapEntity[T any](raw json.RawMessage, key string) (*T, error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err == nil {
		if inner, ok := wrapper[key]; ok {
			raw = inner
		}
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	return &value, nil
}

func idPath(base string, id int64, suffix ...string) string {
	path := base + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		path += "/" + s
	}
	return path
}
