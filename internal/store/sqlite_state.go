package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"larder-cli/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), "index.sqlite")
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// Pragmas for multi-process local usage. WAL enables one writer + many
	// readers; busy_timeout helps avoid "database is locked" flakiness when
	// the CLI, TUI, and web preview touch the same workspace.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS actors (
			id TEXT PRIMARY KEY,
			role TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			price_cents INTEGER NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL,
			published INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);`,
		`CREATE TABLE IF NOT EXISTS chat_rules (
			id TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS site_copy (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS theme (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			ts_unixms INTEGER NOT NULL,
			actor_id TEXT NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return loadStateFromSQLite(ctx, db)
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	st := &DB{
		Version:   1,
		Actors:    []model.Actor{},
		Products:  []model.Product{},
		Orders:    []model.Order{},
		Reviews:   []model.Review{},
		ChatRules: []model.ChatRule{},
		Copy:      map[string]string{},
	}

	if v, err := readMeta(ctx, db, "version"); err == nil && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			st.Version = n
		}
	}
	if v, err := readMeta(ctx, db, "current_actor_id"); err == nil {
		st.CurrentActorID = strings.TrimSpace(v)
	}

	if err := loadDocs(ctx, db, `SELECT json FROM actors`, func(raw []byte) error {
		var a model.Actor
		if err := json.Unmarshal(raw, &a); err != nil {
			return err
		}
		st.Actors = append(st.Actors, a)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, db, `SELECT json FROM products`, func(raw []byte) error {
		var p model.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		st.Products = append(st.Products, p)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, db, `SELECT json FROM orders`, func(raw []byte) error {
		var o model.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			return err
		}
		st.Orders = append(st.Orders, o)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, db, `SELECT json FROM reviews`, func(raw []byte) error {
		var r model.Review
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		st.Reviews = append(st.Reviews, r)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, db, `SELECT json FROM chat_rules`, func(raw []byte) error {
		var c model.ChatRule
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		st.ChatRules = append(st.ChatRules, c)
		return nil
	}); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT k, v FROM site_copy`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		st.Copy[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	theme, err := loadThemeFromSQLite(ctx, db)
	if err != nil {
		return nil, err
	}
	st.Theme = theme

	return st, nil
}

func loadDocs(ctx context.Context, db *sql.DB, query string, each func(raw []byte) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		if err := each([]byte(raw)); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Theme fields are stored as key/value rows so a partially-written theme
// (from older versions) still loads; fillDefaults completes missing fields.
func loadThemeFromSQLite(ctx context.Context, db *sql.DB) (model.Theme, error) {
	var t model.Theme
	rows, err := db.QueryContext(ctx, `SELECT k, v FROM theme`)
	if err != nil {
		return t, err
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return t, err
		}
		switch k {
		case "primary_color":
			t.PrimaryColor = v
		case "accent_color":
			t.AccentColor = v
		case "background_color":
			t.BackgroundColor = v
		case "text_color":
			t.TextColor = v
		case "heading_font":
			t.HeadingFont = v
		case "body_font":
			t.BodyFont = v
		case "card_radius":
			if n, err := strconv.Atoi(v); err == nil {
				t.CardRadius = n
			}
		case "button_radius":
			if n, err := strconv.Atoi(v); err == nil {
				t.ButtonRadius = n
			}
		}
	}
	return t, rows.Err()
}

func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(st.Version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "current_actor_id", strings.TrimSpace(st.CurrentActorID)); err != nil {
		return err
	}

	// Replace-all strategy: simple and safe for workspace-sized state.
	tables := []string{"actors", "products", "orders", "reviews", "chat_rules", "site_copy", "theme"}
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for _, a := range st.Actors {
		raw, _ := json.Marshal(a)
		if _, err := tx.ExecContext(ctx, `INSERT INTO actors(id, role, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			a.ID, string(a.Role), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, p := range st.Products {
		raw, _ := json.Marshal(p)
		if _, err := tx.ExecContext(ctx, `INSERT INTO products(id, name, category, price_cents, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, strings.TrimSpace(p.Category), p.PriceCents, boolToInt(p.Archived), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, o := range st.Orders {
		raw, _ := json.Marshal(o)
		if _, err := tx.ExecContext(ctx, `INSERT INTO orders(id, status, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			o.ID, string(o.Status), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, r := range st.Reviews {
		raw, _ := json.Marshal(r)
		if _, err := tx.ExecContext(ctx, `INSERT INTO reviews(id, product_id, published, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			r.ID, r.ProductID, boolToInt(r.Published), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, c := range st.ChatRules {
		raw, _ := json.Marshal(c)
		if _, err := tx.ExecContext(ctx, `INSERT INTO chat_rules(id, json, updated_at_unixms) VALUES(?, ?, ?)`,
			c.ID, string(raw), nowMs); err != nil {
			return err
		}
	}
	for k, v := range st.Copy {
		if _, err := tx.ExecContext(ctx, `INSERT INTO site_copy(k, v, updated_at_unixms) VALUES(?, ?, ?)`, k, v, nowMs); err != nil {
			return err
		}
	}
	for k, v := range themeRows(st.Theme) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO theme(k, v, updated_at_unixms) VALUES(?, ?, ?)`, k, v, nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func themeRows(t model.Theme) map[string]string {
	return map[string]string{
		"primary_color":    t.PrimaryColor,
		"accent_color":     t.AccentColor,
		"background_color": t.BackgroundColor,
		"text_color":       t.TextColor,
		"heading_font":     t.HeadingFont,
		"body_font":        t.BodyFont,
		"card_radius":      strconv.Itoa(t.CardRadius),
		"button_radius":    strconv.Itoa(t.ButtonRadius),
	}
}

func readMeta(ctx context.Context, db *sql.DB, key string) (string, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
