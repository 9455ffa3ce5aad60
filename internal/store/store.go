package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/spigell/cv-screener/internal/screening"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ErrNotFound is returned when no analysis has the requested candidate id.
var ErrNotFound = errors.New("analysis not found")

// Store persists analysis records in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store path is required")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	// SQLite has a single writer, and ":memory:" lives on one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ResumeHash identifies a résumé text independently of surrounding whitespace.
func ResumeHash(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// SaveAnalysis stores the record with its candidate, skills and companies in
// one transaction and returns the analysis row id.
func (s *Store) SaveAnalysis(ctx context.Context, out *screening.AnalysisOutput) (string, error) {
	if out == nil {
		return "", errors.New("analysis output is required")
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}
	bullets, err := json.Marshal(out.Summary.ThreeBulletSummary)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	basic := out.Basic
	now := s.now().UTC().Format(time.RFC3339)
	candidateID := uuid.NewString()
	analysisID := uuid.NewString()

	_, err = tx.ExecContext(ctx, `INSERT INTO candidates
		(id, display_id, candidate_name, candidate_mobile, candidate_linkedin, candidate_location,
		 current_ctc, expected_ctc, relocation, resume_text, resume_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		candidateID, basic.CandidateID, basic.Name, basic.Mobile, basic.LinkedIn, basic.Location,
		basic.CurrentCTC, basic.ExpectedCTC, basic.Relocation, basic.Resume, ResumeHash(basic.Resume), now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert candidate: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO analyses
		(id, candidate_id, display_id, role_applied_for, overall_score, ai_recommendation,
		 three_bullet_summary, career_gap, analyzed_at, analysis_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysisID, candidateID, basic.CandidateID, basic.RoleAppliedFor, basic.OverallScore,
		string(basic.Recommendation), string(bullets), basic.CareerGap, basic.ScreenedOn, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}

	for _, skill := range out.Summary.Skills {
		_, err = tx.ExecContext(ctx, `INSERT INTO candidate_skills
			(id, candidate_id, skill_name, years_experience, depth_score, evidence)
			VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), candidateID, skill.Name, skill.YearsExperience, skill.DepthScore,
			strings.Join(skill.Evidence, "\n"),
		)
		if err != nil {
			return "", fmt.Errorf("insert skill %s: %w", skill.Name, err)
		}
	}

	for _, company := range out.Summary.Companies {
		_, err = tx.ExecContext(ctx, `INSERT INTO company_history
			(id, candidate_id, company_name, company_tier, tier_rationale, tenure_months)
			VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), candidateID, company.Name, string(company.Tier), company.Rationale, company.TenureMonths,
		)
		if err != nil {
			return "", fmt.Errorf("insert company %s: %w", company.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return analysisID, nil
}

// GetAnalysis returns the stored record for a candidate display id.
func (s *Store) GetAnalysis(ctx context.Context, candidateID string) (*screening.AnalysisOutput, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT analysis_data FROM analyses WHERE display_id = ?`, candidateID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, candidateID)
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}

	var out screening.AnalysisOutput
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("decode analysis %s: %w", candidateID, err)
	}
	return &out, nil
}

type ListFilter struct {
	Recommendation screening.Recommendation
	Limit          int
}

// Summary is one row of the analysis history.
type Summary struct {
	ID             string                   `json:"id"`
	CandidateID    string                   `json:"candidateId"`
	Name           string                   `json:"candidateName"`
	Role           string                   `json:"roleAppliedFor"`
	Score          int                      `json:"overallScore"`
	Recommendation screening.Recommendation `json:"recommendation"`
	CareerGap      string                   `json:"careerGap,omitempty"`
	AnalyzedAt     string                   `json:"analyzedAt"`
}

// ListAnalyses returns the newest analyses first.
func (s *Store) ListAnalyses(ctx context.Context, filter ListFilter) ([]Summary, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	query := `SELECT a.id, a.display_id, c.candidate_name, a.role_applied_for, a.overall_score,
		a.ai_recommendation, a.career_gap, a.analyzed_at
		FROM analyses a JOIN candidates c ON c.id = a.candidate_id`
	args := []any{}
	if filter.Recommendation != "" {
		query += ` WHERE a.ai_recommendation = ?`
		args = append(args, string(filter.Recommendation))
	}
	query += ` ORDER BY a.analyzed_at DESC, a.rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var (
			sum            Summary
			role, gap, rec sql.NullString
		)
		if err := rows.Scan(&sum.ID, &sum.CandidateID, &sum.Name, &role, &sum.Score, &rec, &gap, &sum.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		sum.Role = role.String
		sum.CareerGap = gap.String
		sum.Recommendation = screening.Recommendation(rec.String)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// HasResume reports whether a résumé with this hash was already analyzed
// for role. An empty role matches any role.
func (s *Store) HasResume(ctx context.Context, resumeHash, role string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM analyses a JOIN candidates c ON c.id = a.candidate_id
		WHERE c.resume_hash = ?`
	args := []any{resumeHash}
	if role != "" {
		query += ` AND a.role_applied_for = ?`
		args = append(args, role)
	}
	query += `)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("lookup resume: %w", err)
	}
	return exists, nil
}
