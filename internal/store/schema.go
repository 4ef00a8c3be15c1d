package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    package     TEXT NOT NULL,
    started_at  INTEGER NOT NULL,
    digest      TEXT,
    decisions   INTEGER NOT NULL,
    diagnostics INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_package ON runs(package, started_at);

CREATE TABLE IF NOT EXISTS decisions (
    run_id TEXT NOT NULL,
    file   TEXT NOT NULL,
    start_byte INTEGER NOT NULL,
    end_byte   INTEGER NOT NULL,
    kind   TEXT NOT NULL,
    name   TEXT,
    method INTEGER NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_decisions_run ON decisions(run_id, file, start_byte);
`
