package database

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    token TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'active',
    monitoring_enabled BOOLEAN NOT NULL DEFAULT false,
    created_at DATETIME NOT NULL,
    last_login_at DATETIME NOT NULL,
    last_email_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS monitoring_rules (
    account_id TEXT PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
    keywords TEXT NOT NULL,
    case_sensitive BOOLEAN NOT NULL DEFAULT false,
    enabled BOOLEAN NOT NULL DEFAULT true,
    channels TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS seen_messages (
    account_id TEXT NOT NULL,
    message_id TEXT NOT NULL,
    seen_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (account_id, message_id)
);

CREATE TABLE IF NOT EXISTS notifications (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    subject TEXT NOT NULL DEFAULT '',
    matched_keyword TEXT NOT NULL,
    received_at DATETIME NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT false,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
    id TEXT PRIMARY KEY,
    action TEXT NOT NULL,
    account_id TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '{}',
    ip_address TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    auto_delete_after_days INTEGER NOT NULL DEFAULT 7,
    default_channels TEXT NOT NULL DEFAULT '["web"]',
    auto_refresh BOOLEAN NOT NULL DEFAULT true,
    refresh_interval_seconds INTEGER NOT NULL DEFAULT 60
);

CREATE INDEX IF NOT EXISTS idx_accounts_created ON accounts(created_at);
CREATE INDEX IF NOT EXISTS idx_seen_account ON seen_messages(account_id);
CREATE INDEX IF NOT EXISTS idx_notifications_account ON notifications(account_id);
CREATE INDEX IF NOT EXISTS idx_audit_account ON audit_log(account_id);
`
