package store

// migration holds a single schema migration with its target version and the
// SQL for each dialect.
type migration struct {
	version  int
	sqlite   string
	postgres string
}

func (m migration) sqlFor(d Dialect) string {
	if d == DialectPostgres {
		return m.postgres
	}
	return m.sqlite
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// Ledger dates are stored as YYYY-MM-DD text in both dialects so that the
// same bound parameters and range comparisons work everywhere.
var migrations = []migration{
	{
		version: 1,
		sqlite: `
CREATE TABLE IF NOT EXISTS tasks (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	active     INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0, 1)),
	deleted    INTEGER NOT NULL DEFAULT 0 CHECK(deleted IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_deleted ON tasks(user_id, deleted);

CREATE TABLE IF NOT EXISTS task_days (
	task_id     INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	day_of_week INTEGER NOT NULL CHECK(day_of_week BETWEEN 1 AND 7),
	PRIMARY KEY (task_id, day_of_week)
);

CREATE INDEX IF NOT EXISTS idx_task_days_day ON task_days(day_of_week);

CREATE TABLE IF NOT EXISTS task_completions (
	task_id   INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	date      TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	priority  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (task_id, date)
);

CREATE INDEX IF NOT EXISTS idx_task_completions_date ON task_completions(date);
`,
		postgres: `
CREATE TABLE IF NOT EXISTS tasks (
	id         BIGSERIAL PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	active     BOOLEAN NOT NULL DEFAULT TRUE,
	deleted    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_deleted ON tasks(user_id, deleted);

CREATE TABLE IF NOT EXISTS task_days (
	task_id     BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	day_of_week INTEGER NOT NULL CHECK(day_of_week BETWEEN 1 AND 7),
	PRIMARY KEY (task_id, day_of_week)
);

CREATE INDEX IF NOT EXISTS idx_task_days_day ON task_days(day_of_week);

CREATE TABLE IF NOT EXISTS task_completions (
	task_id   BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	date      TEXT NOT NULL CHECK(date ~ '^[0-9]{4}-[0-9]{2}-[0-9]{2}$'),
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	priority  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (task_id, date)
);

CREATE INDEX IF NOT EXISTS idx_task_completions_date ON task_completions(date);
`,
	},
	{
		version: 2,
		sqlite: `
ALTER TABLE tasks ADD COLUMN has_subtasks INTEGER NOT NULL DEFAULT 0 CHECK(has_subtasks IN (0, 1));

CREATE TABLE IF NOT EXISTS subtasks (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id    INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	completed  INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	priority   INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_subtasks_task_priority ON subtasks(task_id, priority, id);
`,
		postgres: `
ALTER TABLE tasks ADD COLUMN IF NOT EXISTS has_subtasks BOOLEAN NOT NULL DEFAULT FALSE;

CREATE TABLE IF NOT EXISTS subtasks (
	id         BIGSERIAL PRIMARY KEY,
	task_id    BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	completed  BOOLEAN NOT NULL DEFAULT FALSE,
	priority   INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_subtasks_task_priority ON subtasks(task_id, priority, id);
`,
	},
}
