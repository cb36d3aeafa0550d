package msglog

// Schema contains the DDL for the session message log.
const Schema = `
CREATE TABLE IF NOT EXISTS messages (
    id                 TEXT PRIMARY KEY,
    tab_id             INTEGER NOT NULL,
    time               INTEGER NOT NULL,
    target_document_id TEXT NOT NULL,
    target_frame_id    INTEGER NOT NULL,
    target_url         TEXT NOT NULL DEFAULT '',
    target_origin      TEXT NOT NULL DEFAULT '',
    target_title       TEXT NOT NULL DEFAULT '',
    source_type        TEXT NOT NULL DEFAULT 'unknown',
    source_document_id TEXT NOT NULL DEFAULT '',
    source_window_id   TEXT NOT NULL DEFAULT '',
    source_origin      TEXT NOT NULL DEFAULT '',
    target_owner       TEXT,
    source_owner       TEXT,
    data_preview       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_messages_tab_time ON messages(tab_id, time DESC);
CREATE INDEX IF NOT EXISTS idx_messages_time ON messages(time DESC);
`
