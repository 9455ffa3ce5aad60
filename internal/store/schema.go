package store

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	id                 TEXT PRIMARY KEY,
	display_id         TEXT NOT NULL,
	candidate_name     TEXT NOT NULL,
	candidate_mobile   TEXT,
	candidate_linkedin TEXT,
	candidate_location TEXT,
	current_ctc        TEXT,
	expected_ctc       TEXT,
	relocation         TEXT,
	resume_text        TEXT,
	resume_hash        TEXT NOT NULL,
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS candidates_resume_hash ON candidates (resume_hash);

CREATE TABLE IF NOT EXISTS analyses (
	id                   TEXT PRIMARY KEY,
	candidate_id         TEXT REFERENCES candidates (id) ON DELETE CASCADE,
	display_id           TEXT NOT NULL UNIQUE,
	role_applied_for     TEXT,
	overall_score        INTEGER,
	ai_recommendation    TEXT,
	three_bullet_summary TEXT NOT NULL DEFAULT '[]',
	career_gap           TEXT,
	analyzed_at          TEXT NOT NULL,
	analysis_data        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS analyses_recommendation ON analyses (ai_recommendation);

CREATE TABLE IF NOT EXISTS candidate_skills (
	id               TEXT PRIMARY KEY,
	candidate_id     TEXT REFERENCES candidates (id) ON DELETE CASCADE,
	skill_name       TEXT NOT NULL,
	years_experience INTEGER,
	depth_score      INTEGER,
	evidence         TEXT
);

CREATE TABLE IF NOT EXISTS company_history (
	id             TEXT PRIMARY KEY,
	candidate_id   TEXT REFERENCES candidates (id) ON DELETE CASCADE,
	company_name   TEXT NOT NULL,
	company_tier   TEXT,
	tier_rationale TEXT,
	tenure_months  INTEGER
);
`
