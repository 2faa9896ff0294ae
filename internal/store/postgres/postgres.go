// Package postgres implements the shared multi-writer store. All mutations
// round-trip over the network, and row triggers broadcast change events on a
// NOTIFY channel consumed by the listener in listener.go.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Bootstrap applies the schema and notify triggers. Safe to run repeatedly.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, ddl)
	return err
}

// Store is the postgres store.Store implementation.
type Store struct {
	db  *sql.DB
	dsn string
	hub *store.Hub
	log zerolog.Logger

	stopListener context.CancelFunc
	listenerDone chan struct{}
}

// New connects, applies the schema, and starts the change-feed listener.
func New(ctx context.Context, dsn string, log zerolog.Logger) (*Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := Bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres bootstrap: %w", err)
	}
	s := &Store{db: db, dsn: dsn, hub: store.NewHub(), log: log}

	lctx, cancel := context.WithCancel(context.Background())
	s.stopListener = cancel
	s.listenerDone = make(chan struct{})
	go s.runListener(lctx)
	return s, nil
}

func (s *Store) ContentItems() store.ContentItems { return &contentItems{s} }
func (s *Store) Campaigns() store.Campaigns       { return &campaigns{s} }
func (s *Store) Comments() store.Comments         { return &comments{s} }
func (s *Store) Products() store.Products         { return &products{s} }
func (s *Store) Voice() store.Voice               { return &voice{s} }

func (s *Store) Watch(_ context.Context, kind store.Kind, filter *store.Filter) (*store.Subscription, error) {
	return s.hub.Subscribe(kind, filter), nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error {
	if s.stopListener != nil {
		s.stopListener()
		<-s.listenerDone
	}
	return s.db.Close()
}

// storeErr maps driver failures onto the model sentinels. Anything that is
// not a missing row is treated as transient; the caller surfaces it and the
// user re-issues the action.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return fmt.Errorf("%w: %v", model.ErrTransient, err)
}

func marshalChannels(ch []string) ([]byte, error) {
	if ch == nil {
		ch = []string{}
	}
	return json.Marshal(ch)
}

// --- ContentItems ---

type contentItems struct{ s *Store }

const itemCols = `id, title, stage, channels, type, campaign_id, date, seq,
    draft_copy, notes, owner, product, drive_url, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*model.ContentItem, error) {
	var it model.ContentItem
	var channels []byte
	if err := row.Scan(
		&it.ID, &it.Title, &it.Stage, &channels, &it.Type, &it.CampaignID,
		&it.Date, &it.Seq, &it.DraftCopy, &it.Notes, &it.Owner, &it.Product,
		&it.DriveURL, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(channels, &it.Channels); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *contentItems) List(ctx context.Context) ([]*model.ContentItem, error) {
	rows, err := c.s.db.QueryContext(ctx,
		`SELECT `+itemCols+` FROM content_items ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []*model.ContentItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, storeErr(err)
		}
		out = append(out, it)
	}
	return out, storeErr(rows.Err())
}

func (c *contentItems) Get(ctx context.Context, id string) (*model.ContentItem, error) {
	it, err := scanItem(c.s.db.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM content_items WHERE id=$1`, id))
	if err != nil {
		return nil, storeErr(err)
	}
	return it, nil
}

func (c *contentItems) Insert(ctx context.Context, item *model.ContentItem) (*model.ContentItem, error) {
	id := item.ID
	if id == "" {
		id = uuid.New().String()
	}
	channels, err := marshalChannels(item.Channels)
	if err != nil {
		return nil, storeErr(err)
	}
	it, err := scanItem(c.s.db.QueryRowContext(ctx, `
        INSERT INTO content_items (id, title, stage, channels, type, campaign_id, date, seq,
            draft_copy, notes, owner, product, drive_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING `+itemCols,
		id, item.Title, item.Stage, channels, item.Type, item.CampaignID,
		item.Date, item.Seq, item.DraftCopy, item.Notes, item.Owner,
		item.Product, item.DriveURL,
	))
	if err != nil {
		return nil, storeErr(err)
	}
	return it, nil
}

func (c *contentItems) Update(ctx context.Context, id string, p model.ContentItemPatch) (*model.ContentItem, error) {
	set := "updated_at=now()"
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		set += fmt.Sprintf(", %s=$%d", col, len(args))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Stage != nil {
		add("stage", *p.Stage)
	}
	if p.Channels != nil {
		channels, err := marshalChannels(*p.Channels)
		if err != nil {
			return nil, storeErr(err)
		}
		add("channels", channels)
	}
	if p.Type != nil {
		add("type", *p.Type)
	}
	if p.CampaignID != nil {
		add("campaign_id", *p.CampaignID)
	}
	if p.Date != nil {
		add("date", *p.Date)
	}
	if p.Seq != nil {
		add("seq", *p.Seq)
	}
	if p.DraftCopy != nil {
		add("draft_copy", *p.DraftCopy)
	}
	if p.Notes != nil {
		add("notes", *p.Notes)
	}
	if p.Owner != nil {
		add("owner", *p.Owner)
	}
	if p.Product != nil {
		add("product", *p.Product)
	}
	if p.DriveURL != nil {
		add("drive_url", *p.DriveURL)
	}

	it, err := scanItem(c.s.db.QueryRowContext(ctx,
		`UPDATE content_items SET `+set+` WHERE id=$1 RETURNING `+itemCols, args...))
	if err != nil {
		return nil, storeErr(err)
	}
	return it, nil
}

func (c *contentItems) Remove(ctx context.Context, id string) error {
	res, err := c.s.db.ExecContext(ctx, `DELETE FROM content_items WHERE id=$1`, id)
	if err != nil {
		return storeErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Campaigns ---

type campaigns struct{ s *Store }

const campaignCols = `id, name, status, channels, drop_date, goal, pillars,
    big_think, key_message, tone, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var cm model.Campaign
	var channels []byte
	if err := row.Scan(
		&cm.ID, &cm.Name, &cm.Status, &channels, &cm.DropDate, &cm.Goal,
		&cm.Pillars, &cm.BigThink, &cm.KeyMessage, &cm.Tone, &cm.CreatedAt, &cm.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(channels, &cm.Channels); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *campaigns) List(ctx context.Context) ([]*model.Campaign, error) {
	rows, err := c.s.db.QueryContext(ctx,
		`SELECT `+campaignCols+` FROM campaigns ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []*model.Campaign
	for rows.Next() {
		cm, err := scanCampaign(rows)
		if err != nil {
			return nil, storeErr(err)
		}
		out = append(out, cm)
	}
	return out, storeErr(rows.Err())
}

func (c *campaigns) Get(ctx context.Context, id string) (*model.Campaign, error) {
	cm, err := scanCampaign(c.s.db.QueryRowContext(ctx,
		`SELECT `+campaignCols+` FROM campaigns WHERE id=$1`, id))
	if err != nil {
		return nil, storeErr(err)
	}
	return cm, nil
}

func (c *campaigns) Insert(ctx context.Context, in *model.Campaign) (*model.Campaign, error) {
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	channels, err := marshalChannels(in.Channels)
	if err != nil {
		return nil, storeErr(err)
	}
	cm, err := scanCampaign(c.s.db.QueryRowContext(ctx, `
        INSERT INTO campaigns (id, name, status, channels, drop_date, goal, pillars,
            big_think, key_message, tone)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING `+campaignCols,
		id, in.Name, in.Status, channels, in.DropDate, in.Goal, in.Pillars,
		in.BigThink, in.KeyMessage, in.Tone,
	))
	if err != nil {
		return nil, storeErr(err)
	}
	return cm, nil
}

func (c *campaigns) Update(ctx context.Context, id string, p model.CampaignPatch) (*model.Campaign, error) {
	set := "updated_at=now()"
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		set += fmt.Sprintf(", %s=$%d", col, len(args))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.Channels != nil {
		channels, err := marshalChannels(*p.Channels)
		if err != nil {
			return nil, storeErr(err)
		}
		add("channels", channels)
	}
	if p.DropDate != nil {
		add("drop_date", *p.DropDate)
	}
	if p.Goal != nil {
		add("goal", *p.Goal)
	}
	if p.Pillars != nil {
		add("pillars", *p.Pillars)
	}
	if p.BigThink != nil {
		add("big_think", *p.BigThink)
	}
	if p.KeyMessage != nil {
		add("key_message", *p.KeyMessage)
	}
	if p.Tone != nil {
		add("tone", *p.Tone)
	}

	cm, err := scanCampaign(c.s.db.QueryRowContext(ctx,
		`UPDATE campaigns SET `+set+` WHERE id=$1 RETURNING `+campaignCols, args...))
	if err != nil {
		return nil, storeErr(err)
	}
	return cm, nil
}

func (c *campaigns) Remove(ctx context.Context, id string) error {
	res, err := c.s.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id=$1`, id)
	if err != nil {
		return storeErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Comments ---

type comments struct{ s *Store }

const commentCols = `id, content_item_id, text, author_id, author_name, created_at`

func scanComment(row interface{ Scan(...any) error }) (*model.Comment, error) {
	var cm model.Comment
	if err := row.Scan(
		&cm.ID, &cm.ContentItemID, &cm.Text, &cm.AuthorID, &cm.AuthorName, &cm.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *comments) ListByItem(ctx context.Context, contentItemID string) ([]*model.Comment, error) {
	rows, err := c.s.db.QueryContext(ctx,
		`SELECT `+commentCols+` FROM comments WHERE content_item_id=$1 ORDER BY created_at, id`,
		contentItemID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []*model.Comment
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, storeErr(err)
		}
		out = append(out, cm)
	}
	return out, storeErr(rows.Err())
}

func (c *comments) Get(ctx context.Context, id string) (*model.Comment, error) {
	cm, err := scanComment(c.s.db.QueryRowContext(ctx,
		`SELECT `+commentCols+` FROM comments WHERE id=$1`, id))
	if err != nil {
		return nil, storeErr(err)
	}
	return cm, nil
}

func (c *comments) Insert(ctx context.Context, in *model.Comment) (*model.Comment, error) {
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	cm, err := scanComment(c.s.db.QueryRowContext(ctx, `
        INSERT INTO comments (id, content_item_id, text, author_id, author_name)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING `+commentCols,
		id, in.ContentItemID, in.Text, in.AuthorID, in.AuthorName,
	))
	if err != nil {
		return nil, storeErr(err)
	}
	return cm, nil
}

func (c *comments) Remove(ctx context.Context, id string) error {
	res, err := c.s.db.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return storeErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Products ---

type products struct{ s *Store }

const productCols = `id, name, roast, color, border, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Roast, &p.Color, &p.Border, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *products) List(ctx context.Context) ([]*model.Product, error) {
	rows, err := c.s.db.QueryContext(ctx,
		`SELECT `+productCols+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, storeErr(err)
		}
		out = append(out, p)
	}
	return out, storeErr(rows.Err())
}

func (c *products) Get(ctx context.Context, id string) (*model.Product, error) {
	p, err := scanProduct(c.s.db.QueryRowContext(ctx,
		`SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if err != nil {
		return nil, storeErr(err)
	}
	return p, nil
}

func (c *products) Insert(ctx context.Context, in *model.Product) (*model.Product, error) {
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	p, err := scanProduct(c.s.db.QueryRowContext(ctx, `
        INSERT INTO products (id, name, roast, color, border)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING `+productCols,
		id, in.Name, in.Roast, in.Color, in.Border,
	))
	if err != nil {
		return nil, storeErr(err)
	}
	return p, nil
}

func (c *products) Remove(ctx context.Context, id string) error {
	res, err := c.s.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return storeErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Voice ---

type voice struct{ s *Store }

func (v *voice) Get(ctx context.Context) (string, error) {
	var doc string
	err := v.s.db.QueryRowContext(ctx, `SELECT doc FROM brand_voice WHERE id=1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultBrandVoice, nil
	}
	if err != nil {
		return "", storeErr(err)
	}
	return doc, nil
}

func (v *voice) Set(ctx context.Context, doc string) error {
	_, err := v.s.db.ExecContext(ctx, `
        INSERT INTO brand_voice (id, doc) VALUES (1, $1)
        ON CONFLICT (id) DO UPDATE SET doc=excluded.doc, updated_at=now()`, doc)
	return storeErr(err)
}
