package postgres

// Schema DDL applied by Bootstrap. Every table carries a row trigger that
// feeds the contentops_changes NOTIFY channel, so every connected listener
// (including the writer's own) observes row-level changes.
const ddl = `
CREATE TABLE IF NOT EXISTS content_items (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    stage       TEXT NOT NULL DEFAULT 'Idea',
    channels    JSONB NOT NULL DEFAULT '[]',
    type        TEXT NOT NULL DEFAULT 'Brewing Guide',
    campaign_id TEXT NOT NULL DEFAULT '',
    date        TEXT NOT NULL DEFAULT '',
    seq         INTEGER NOT NULL DEFAULT 0,
    draft_copy  TEXT NOT NULL DEFAULT '',
    notes       TEXT NOT NULL DEFAULT '',
    owner       TEXT NOT NULL DEFAULT '',
    product     TEXT NOT NULL DEFAULT '',
    drive_url   TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS campaigns (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'Planning',
    channels    JSONB NOT NULL DEFAULT '[]',
    drop_date   TEXT NOT NULL DEFAULT '',
    goal        TEXT NOT NULL DEFAULT '',
    pillars     TEXT NOT NULL DEFAULT '',
    big_think   TEXT NOT NULL DEFAULT '',
    key_message TEXT NOT NULL DEFAULT '',
    tone        TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS comments (
    id              TEXT PRIMARY KEY,
    content_item_id TEXT NOT NULL,
    text            TEXT NOT NULL,
    author_id       TEXT NOT NULL,
    author_name     TEXT NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS comments_content_item_idx ON comments (content_item_id, created_at);

CREATE TABLE IF NOT EXISTS products (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    roast      TEXT NOT NULL,
    color      TEXT NOT NULL,
    border     TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS brand_voice (
    id         SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
    doc        TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE OR REPLACE FUNCTION contentops_notify() RETURNS trigger AS $$
DECLARE
    rec     RECORD;
    payload TEXT;
BEGIN
    IF TG_OP = 'DELETE' THEN
        rec := OLD;
    ELSE
        rec := NEW;
    END IF;
    payload := json_build_object(
        'table', TG_TABLE_NAME,
        'op', lower(TG_OP),
        'id', COALESCE(to_jsonb(rec)->>'id', ''),
        'content_item_id', COALESCE(to_jsonb(rec)->>'content_item_id', '')
    )::text;
    PERFORM pg_notify('contentops_changes', payload);
    RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DO $$
DECLARE
    t TEXT;
BEGIN
    FOREACH t IN ARRAY ARRAY['content_items','campaigns','comments','products','brand_voice'] LOOP
        EXECUTE format('DROP TRIGGER IF EXISTS %I_notify ON %I', t, t);
        EXECUTE format(
            'CREATE TRIGGER %I_notify AFTER INSERT OR UPDATE OR DELETE ON %I FOR EACH ROW EXECUTE FUNCTION contentops_notify()',
            t, t);
    END LOOP;
END;
$$;
`
