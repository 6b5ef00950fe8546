package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-board-sync/models"
)

// Table and column layout shared by the local store and the server
// repository. Lists and cards have the same columns except list_id.
const (
	tableLists = "lists"
	tableCards = "cards"
)

var (
	listColumns = []string{"id", "title", "description", "tags", "position", "version", "last_modified_at"}
	cardColumns = []string{"id", "list_id", "title", "description", "tags", "position", "version", "last_modified_at"}
)

func tableFor(kind models.EntityKind) (string, error) {
	switch kind {
	case models.KindList:
		return tableLists, nil
	case models.KindCard:
		return tableCards, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
}

func columnsFor(kind models.EntityKind) []string {
	if kind == models.KindCard {
		return cardColumns
	}
	return listColumns
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}
	return string(b), nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}

// entityValues returns the column values for e in columnsFor(e.Kind) order.
func entityValues(e models.Entity) ([]any, error) {
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return nil, err
	}
	if e.Kind == models.KindCard {
		return []any{e.ID, e.ListID, e.Title, e.Description, tags, e.Position, e.Version, e.LastModifiedAt}, nil
	}
	return []any{e.ID, e.Title, e.Description, tags, e.Position, e.Version, e.LastModifiedAt}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner, kind models.EntityKind) (models.Entity, error) {
	e := models.Entity{Kind: kind}
	var tags string

	dest := []any{&e.ID, &e.Title, &e.Description, &tags, &e.Position, &e.Version, &e.LastModifiedAt}
	if kind == models.KindCard {
		dest = []any{&e.ID, &e.ListID, &e.Title, &e.Description, &tags, &e.Position, &e.Version, &e.LastModifiedAt}
	}

	if err := row.Scan(dest...); err != nil {
		return models.Entity{}, err
	}

	decoded, err := decodeTags(tags)
	if err != nil {
		return models.Entity{}, err
	}
	e.Tags = decoded
	return e, nil
}

func scanEntities(rows *sql.Rows, kind models.EntityKind) ([]models.Entity, error) {
	entities := make([]models.Entity, 0, 16)
	for rows.Next() {
		e, err := scanEntity(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return entities, nil
}
