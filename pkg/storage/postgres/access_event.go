package postgres

import (
	"accessgate/pkg/domain"
	"accessgate/pkg/storage"
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	accessEventsTable = "access_events"
)

// StoreAccessEvents inserts events. A zero CreatedAt defaults to the insert time.
func (p *PgSQL) StoreAccessEvents(ctx context.Context,
	events ...domain.AccessEvent) ([]domain.AccessEvent, error) {
	if len(events) == 0 {
		return nil, nil
	}

	records := make([]goqu.Record, len(events))
	for i := range events {
		var row PgAccessEvent
		row.FromDomain(events[i])
		rec := goqu.Record{
			"actor_uid":   row.ActorUID,
			"actor_email": row.ActorEmail,
			"kind":        row.Kind,
			"created_at":  goqu.L("CURRENT_TIMESTAMP"),
		}
		if !row.CreatedAt.IsZero() {
			rec["created_at"] = row.CreatedAt
		}
		records[i] = rec
	}

	var result []PgAccessEvent
	if err := p.Builder.Insert(accessEventsTable).
		Rows(records).
		Returning(&PgAccessEvent{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store access events into pg: %w", err)
	}

	out := make([]domain.AccessEvent, 0, len(result))
	for i := range result {
		out = append(out, *result[i].ToDomain())
	}

	return out, nil
}

// AccessEvents returns a page of events after the optional keyset cursor,
// limited by limit. Results are ordered by created_at DESC, id DESC.
func (p *PgSQL) AccessEvents(ctx context.Context,
	cursor storage.AccessEventCursor,
	limit uint) (storage.AccessEvents, error) {
	if limit == 0 {
		return storage.AccessEvents{}, nil
	}

	var w []goqu.Expression
	if !cursor.IsZero() {
		w = append(w, goqu.L("(created_at, id) < (?, ?)", cursor.CreatedAt, uuid.UUID(cursor.ID)))
	}

	// fetch one extra to determine if there is a next page
	fetch := limit + 1
	ds := p.Builder.From(accessEventsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(fetch)

	var rows []PgAccessEvent
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.AccessEvents{}, fmt.Errorf("could not fetch access events from pg: %w", err)
	}

	// if we fetched more than the limit, there is a next page
	var nextCursor *storage.AccessEventCursor
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = &storage.AccessEventCursor{
			CreatedAt: last.CreatedAt,
			ID:        domain.AccessEventID(last.ID),
		}
	}

	events := make([]domain.AccessEvent, 0, len(rows))
	for i := range rows {
		events = append(events, *rows[i].ToDomain())
	}

	return storage.AccessEvents{
		Events:     events,
		NextCursor: nextCursor,
	}, nil
}
