package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"SlotCurator/internal/domain"
	"SlotCurator/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository implements the content repository on Postgres. It is
// the single normalization boundary: whatever field names upstream feeds
// used, candidates leave this package as strict domain.Candidate values.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ContentRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FetchCandidates returns the full eligible pool for a slot. The query
// carries no LIMIT: a capped pool silently starves downstream slots, so
// pagination concerns stay with callers that actually need them.
func (r *PostgresRepository) FetchCandidates(ctx context.Context, slot int, cutoff time.Time) ([]domain.Candidate, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository has no database")
	}

	query, args, err := psql.
		Select("id", "headline", "source", "company", "url", "published_at", "eligible_slots").
		From("candidates").
		Where(sq.Expr("eligible_slots @> ARRAY[?]::int[]", slot)).
		Where(sq.GtOrEq{"published_at": cutoff}).
		OrderBy("published_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidates query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var pool []domain.Candidate
	for rows.Next() {
		var (
			c       domain.Candidate
			company sql.NullString
			slots   pq.Int64Array
		)
		if err := rows.Scan(&c.ID, &c.Headline, &c.Source, &company, &c.URL, &c.PublishedAt, &slots); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Company = company.String
		c.EligibleSlots = make([]int, len(slots))
		for i, n := range slots {
			c.EligibleSlots[i] = int(n)
		}
		pool = append(pool, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("candidates iteration: %w", err)
	}

	return pool, nil
}

// LoadRecentIssues returns issues persisted within the last N days, newest
// first, with their slot picks attached.
func (r *PostgresRepository) LoadRecentIssues(ctx context.Context, days int) ([]domain.Issue, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository has no database")
	}
	if days <= 0 {
		return nil, nil
	}

	query, args, err := psql.
		Select("id", "variant", "issue_date", "subject_line", "status").
		From("issues").
		Where(sq.Expr("created_at >= NOW() - make_interval(days => ?)", days)).
		OrderBy("issue_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build issues query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}
	defer rows.Close()

	var (
		issues []domain.Issue
		ids    []string
		byID   = map[string]int{}
	)
	for rows.Next() {
		var (
			issue   domain.Issue
			subject sql.NullString
		)
		if err := rows.Scan(&issue.ID, &issue.Variant, &issue.IssueDate, &subject, &issue.Status); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issue.SubjectLine = subject.String
		byID[issue.ID] = len(issues)
		ids = append(ids, issue.ID)
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("issues iteration: %w", err)
	}
	if len(issues) == 0 {
		return nil, nil
	}

	if err := r.attachSlots(ctx, ids, byID, issues); err != nil {
		return nil, err
	}

	return issues, nil
}

func (r *PostgresRepository) attachSlots(ctx context.Context, ids []string, byID map[string]int, issues []domain.Issue) error {
	query, args, err := psql.
		Select("issue_id", "slot_number", "candidate_id", "headline", "source", "company").
		From("issue_slots").
		Where(sq.Expr("issue_id = ANY(?)", pq.StringArray(ids))).
		ToSql()
	if err != nil {
		return fmt.Errorf("build slots query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query issue slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			issueID string
			number  int
			pick    domain.SlotPick
			company sql.NullString
		)
		if err := rows.Scan(&issueID, &number, &pick.CandidateID, &pick.Headline, &pick.Source, &company); err != nil {
			return fmt.Errorf("scan issue slot: %w", err)
		}
		pick.Company = company.String
		if idx, ok := byID[issueID]; ok {
			issues[idx].SetSlot(number, pick)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("issue slots iteration: %w", err)
	}

	return nil
}

// PersistIssue writes the issue and its filled slots in one transaction
// and returns the generated identifier.
func (r *PostgresRepository) PersistIssue(ctx context.Context, issue domain.Issue) (string, error) {
	if r.db == nil {
		return "", fmt.Errorf("repository has no database")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.NewString()

	query, args, err := psql.
		Insert("issues").
		Columns("id", "variant", "issue_date", "subject_line", "status").
		Values(id, issue.Variant, issue.IssueDate, issue.SubjectLine, string(issue.Status)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build issue insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert issue: %w", err)
	}

	slotInsert := psql.
		Insert("issue_slots").
		Columns("issue_id", "slot_number", "candidate_id", "headline", "source", "company")
	var filled bool
	for n := 1; n <= domain.SlotCount; n++ {
		pick := issue.Slot(n)
		if pick == nil {
			continue
		}
		slotInsert = slotInsert.Values(id, n, pick.CandidateID, pick.Headline, pick.Source, nullable(pick.Company))
		filled = true
	}
	if filled {
		query, args, err = slotInsert.ToSql()
		if err != nil {
			return "", fmt.Errorf("build slots insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return "", fmt.Errorf("insert issue slots: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit issue: %w", err)
	}

	return id, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
