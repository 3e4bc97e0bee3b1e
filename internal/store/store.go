package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"larder-cli/internal/model"
)

// DB is the whole-workspace state aggregate. It is loaded from SQLite in one
// shot and saved back transactionally; callers mutate it in memory and Save.
type DB struct {
	Version        int               `json:"version"`
	CurrentActorID string            `json:"currentActorId,omitempty"`
	Actors         []model.Actor     `json:"actors"`
	Products       []model.Product   `json:"products"`
	Orders         []model.Order     `json:"orders"`
	Reviews        []model.Review    `json:"reviews"`
	ChatRules      []model.ChatRule  `json:"chatRules"`
	Copy           map[string]string `json:"copy"`
	Theme          model.Theme       `json:"theme"`
}

type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".larder")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".larder"), nil
}

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	db, err := s.LoadSQLite(context.Background())
	if err != nil {
		return nil, err
	}
	fillDefaults(db)
	return db, nil
}

func (s Store) Save(db *DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	return s.SaveSQLite(context.Background(), db)
}

// fillDefaults guarantees the copy map and theme record are fully populated:
// every known copy key and theme field has a value even when the store
// returned nothing. Loaded values win over defaults.
func fillDefaults(db *DB) {
	if db.Version == 0 {
		db.Version = 1
	}
	if db.Copy == nil {
		db.Copy = map[string]string{}
	}
	for k, v := range DefaultCopy() {
		if strings.TrimSpace(db.Copy[k]) == "" {
			db.Copy[k] = v
		}
	}
	def := DefaultTheme()
	if strings.TrimSpace(db.Theme.PrimaryColor) == "" {
		db.Theme.PrimaryColor = def.PrimaryColor
	}
	if strings.TrimSpace(db.Theme.AccentColor) == "" {
		db.Theme.AccentColor = def.AccentColor
	}
	if strings.TrimSpace(db.Theme.BackgroundColor) == "" {
		db.Theme.BackgroundColor = def.BackgroundColor
	}
	if strings.TrimSpace(db.Theme.TextColor) == "" {
		db.Theme.TextColor = def.TextColor
	}
	if strings.TrimSpace(db.Theme.HeadingFont) == "" {
		db.Theme.HeadingFont = def.HeadingFont
	}
	if strings.TrimSpace(db.Theme.BodyFont) == "" {
		db.Theme.BodyFont = def.BodyFont
	}
	if db.Theme.CardRadius <= 0 {
		db.Theme.CardRadius = def.CardRadius
	}
	if db.Theme.ButtonRadius <= 0 {
		db.Theme.ButtonRadius = def.ButtonRadius
	}
}

func (db *DB) FindActor(id string) (*model.Actor, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Actors {
		if db.Actors[i].ID == id {
			return &db.Actors[i], true
		}
	}
	return nil, false
}

func (db *DB) FindProduct(id string) (*model.Product, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Products {
		if db.Products[i].ID == id {
			return &db.Products[i], true
		}
	}
	return nil, false
}

func (db *DB) FindOrder(id string) (*model.Order, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Orders {
		if db.Orders[i].ID == id {
			return &db.Orders[i], true
		}
	}
	return nil, false
}

func (db *DB) FindReview(id string) (*model.Review, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Reviews {
		if db.Reviews[i].ID == id {
			return &db.Reviews[i], true
		}
	}
	return nil, false
}

// ActiveProducts returns unarchived products sorted by category then name.
func (db *DB) ActiveProducts() []model.Product {
	out := make([]model.Product, 0, len(db.Products))
	for _, p := range db.Products {
		if !p.Archived {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (db *DB) PublishedReviews(productID string) []model.Review {
	var out []model.Review
	for _, r := range db.Reviews {
		if r.ProductID == productID && r.Published {
			out = append(out, r)
		}
	}
	return out
}

func (db *DB) NewActor(name string, role model.Role) (model.Actor, error) {
	id, err := uniqueID(db, "op")
	if err != nil {
		return model.Actor{}, err
	}
	return model.Actor{ID: id, Name: strings.TrimSpace(name), Role: role, CreatedAt: time.Now().UTC()}, nil
}

func (db *DB) NewProduct(name string, priceCents int, createdBy string) (model.Product, error) {
	id, err := uniqueID(db, "prod")
	if err != nil {
		return model.Product{}, err
	}
	now := time.Now().UTC()
	return model.Product{
		ID:         id,
		Name:       strings.TrimSpace(name),
		PriceCents: priceCents,
		Unit:       "each",
		CreatedBy:  strings.TrimSpace(createdBy),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (db *DB) NewOrder(customer string, lines []model.OrderLine) (model.Order, error) {
	id, err := uniqueID(db, "ord")
	if err != nil {
		return model.Order{}, err
	}
	now := time.Now().UTC()
	return model.Order{
		ID:        id,
		Customer:  strings.TrimSpace(customer),
		Lines:     lines,
		Status:    model.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (db *DB) NewReview(productID, author string, rating int, body string) (model.Review, error) {
	id, err := uniqueID(db, "rev")
	if err != nil {
		return model.Review{}, err
	}
	return model.Review{
		ID:        id,
		ProductID: strings.TrimSpace(productID),
		Author:    strings.TrimSpace(author),
		Rating:    rating,
		Body:      strings.TrimSpace(body),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (db *DB) NewChatRule(keywords []string, reply string) (model.ChatRule, error) {
	id, err := uniqueID(db, "rule")
	if err != nil {
		return model.ChatRule{}, err
	}
	return model.ChatRule{ID: id, Keywords: keywords, Reply: strings.TrimSpace(reply)}, nil
}

func uniqueID(db *DB, prefix string) (string, error) {
	for i := 0; i < 10; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			return "", err
		}
		if !idExists(db, id) {
			return id, nil
		}
	}
	return "", errors.New("could not generate a unique id")
}
