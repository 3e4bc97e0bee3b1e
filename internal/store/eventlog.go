package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"larder-cli/internal/model"
)

// AppendEvent records an audit event in the workspace event log.
// The log is append-only; state mutations and the log are written separately,
// so a crash between the two loses at most the audit row, never state.
func (s Store) AppendEvent(actorID, typ, entityID string, payload any) error {
	ctx := context.Background()

	actorID = strings.TrimSpace(actorID)
	typ = strings.TrimSpace(typ)
	entityID = strings.TrimSpace(entityID)
	if actorID == "" {
		return errors.New("event: missing actor id")
	}
	if typ == "" {
		return errors.New("event: missing type")
	}
	if entityID == "" {
		return errors.New("event: missing entity id")
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	eventID, err := newRandomID("evt")
	if err != nil {
		return err
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO events(event_id, ts_unixms, actor_id, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?, ?)`,
		eventID, time.Now().UTC().UnixMilli(), actorID, typ, entityID, string(pb))
	return err
}

// ListEvents returns the most recent events, newest first. limit <= 0 means all.
func (s Store) ListEvents(limit int) ([]model.Event, error) {
	ctx := context.Background()

	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT event_id, ts_unixms, actor_id, type, entity_id, payload_json FROM events ORDER BY ts_unixms DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var (
			id, actorID, typ, entityID, payloadJSON string
			tsMs                                    int64
		)
		if err := rows.Scan(&id, &tsMs, &actorID, &typ, &entityID, &payloadJSON); err != nil {
			return nil, err
		}
		var payload any
		_ = json.Unmarshal([]byte(payloadJSON), &payload)
		out = append(out, model.Event{
			ID:       id,
			TS:       time.UnixMilli(tsMs).UTC(),
			ActorID:  actorID,
			Type:     typ,
			EntityID: entityID,
			Payload:  payload,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Stable order for equal timestamps.
	sort.SliceStable(out, func(i, j int) bool { return out[i].TS.After(out[j].TS) })
	return out, nil
}
