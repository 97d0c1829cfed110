package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, name, is_base_resume, email, phone, location, summary,
work, projects, skills, education, languages, certificates, socials,
source_job_description, source_job_url, source_company_name,
other_extracted_data, analysis, created_at, updated_at`

const insertResume = `
INSERT INTO resumes (id, user_id, name, is_base_resume, email, phone, location, summary,
  work, projects, skills, education, languages, certificates, socials,
  source_job_description, source_job_url, source_company_name,
  other_extracted_data, analysis, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, now(), now())`

func (r *PGRepo) Create(ctx context.Context, resume Resume) (Resume, error) {
	if _, err := r.DB.ExecContext(ctx, insertResume, insertArgs(resume)...); err != nil {
		return Resume{}, fmt.Errorf("insert resume: %w", err)
	}
	return r.GetByID(ctx, resume.ID)
}

// CreateAsBase demotes any current base resume and inserts the new one in
// a single transaction. The partial unique index on (user_id) keeps two
// concurrent promotions from both landing.
func (r *PGRepo) CreateAsBase(ctx context.Context, resume Resume) (Resume, error) {
	resume.IsBaseResume = true
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Resume{}, fmt.Errorf("begin base resume tx: %w", err)
	}
	defer tx.Rollback()

	// Anonymous bases coexist; only a known user's prior base is demoted.
	if resume.UserID != "" {
		const demote = `UPDATE resumes SET is_base_resume = FALSE, updated_at = now()
WHERE user_id = $1 AND is_base_resume`
		if _, err := tx.ExecContext(ctx, demote, resume.UserID); err != nil {
			return Resume{}, fmt.Errorf("demote existing base resume: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, insertResume, insertArgs(resume)...); err != nil {
		return Resume{}, fmt.Errorf("insert base resume: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Resume{}, fmt.Errorf("commit base resume tx: %w", err)
	}
	return r.GetByID(ctx, resume.ID)
}

// PromoteToBase flips the base flag onto an existing row, demoting the
// current base inside the same transaction so the partial unique index
// never sees two bases.
func (r *PGRepo) PromoteToBase(ctx context.Context, userID, id string) (Resume, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Resume{}, fmt.Errorf("begin promote tx: %w", err)
	}
	defer tx.Rollback()

	const demote = `UPDATE resumes SET is_base_resume = FALSE, updated_at = now()
WHERE user_id = $1 AND is_base_resume AND id <> $2`
	if _, err := tx.ExecContext(ctx, demote, userID, id); err != nil {
		return Resume{}, fmt.Errorf("demote existing base resume: %w", err)
	}
	const promote = `UPDATE resumes SET is_base_resume = TRUE, updated_at = now()
WHERE id = $1 AND user_id = $2`
	res, err := tx.ExecContext(ctx, promote, id, userID)
	if err != nil {
		return Resume{}, fmt.Errorf("promote resume: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return Resume{}, ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return Resume{}, fmt.Errorf("commit promote tx: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 LIMIT 1`
	return scanResume(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetBase(ctx context.Context, userID string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 AND is_base_resume LIMIT 1`
	return scanResume(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, resume Resume) (Resume, error) {
	const query = `
UPDATE resumes SET
  name = $2, email = $3, phone = $4, location = $5, summary = $6,
  work = $7, projects = $8, skills = $9, education = $10,
  languages = $11, certificates = $12, socials = $13,
  other_extracted_data = $14, analysis = $15, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.Name,
		nullableString(resume.Email),
		nullableString(resume.Phone),
		nullableString(resume.Location),
		nullableString(resume.Summary),
		jsonOrEmpty(resume.Work),
		jsonOrEmpty(resume.Projects),
		jsonOrEmpty(resume.Skills),
		jsonOrEmpty(resume.Education),
		jsonOrEmpty(resume.Languages),
		jsonOrEmpty(resume.Certificates),
		jsonOrEmpty(resume.Socials),
		nullableString(resume.OtherExtractedData),
		nullableString(resume.Analysis),
	)
	if err != nil {
		return Resume{}, fmt.Errorf("update resume: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return Resume{}, ErrNotFound
	}
	return r.GetByID(ctx, resume.ID)
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM resumes WHERE id = $1 AND NOT is_base_resume`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either missing or protected.
		var isBase bool
		err := r.DB.QueryRowContext(ctx, `SELECT is_base_resume FROM resumes WHERE id = $1`, id).Scan(&isBase)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if isBase {
			return ErrBaseUndeletable
		}
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) FindByContact(ctx context.Context, email, phone string) (Resume, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	switch {
	case email != "" && phone != "":
		query := `SELECT ` + resumeColumns + ` FROM resumes
WHERE lower(email) = lower($1) OR phone = $2
ORDER BY created_at DESC LIMIT 1`
		return scanResume(r.DB.QueryRowContext(ctx, query, email, phone))
	case email != "":
		query := `SELECT ` + resumeColumns + ` FROM resumes
WHERE lower(email) = lower($1)
ORDER BY created_at DESC LIMIT 1`
		return scanResume(r.DB.QueryRowContext(ctx, query, email))
	case phone != "":
		query := `SELECT ` + resumeColumns + ` FROM resumes
WHERE phone = $1
ORDER BY created_at DESC LIMIT 1`
		return scanResume(r.DB.QueryRowContext(ctx, query, phone))
	default:
		return Resume{}, ErrNotFound
	}
}

func insertArgs(resume Resume) []any {
	return []any{
		resume.ID,
		nullableString(resume.UserID),
		resume.Name,
		resume.IsBaseResume,
		nullableString(resume.Email),
		nullableString(resume.Phone),
		nullableString(resume.Location),
		nullableString(resume.Summary),
		jsonOrEmpty(resume.Work),
		jsonOrEmpty(resume.Projects),
		jsonOrEmpty(resume.Skills),
		jsonOrEmpty(resume.Education),
		jsonOrEmpty(resume.Languages),
		jsonOrEmpty(resume.Certificates),
		jsonOrEmpty(resume.Socials),
		nullableString(resume.SourceJobDescription),
		nullableString(resume.SourceJobURL),
		nullableString(resume.SourceCompanyName),
		nullableString(resume.OtherExtractedData),
		nullableString(resume.Analysis),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var userID, email, phone, location, summary sql.NullString
	var jd, jobURL, company, other, analysis sql.NullString
	var work, projects, skills, education, languages, certificates, socials []byte
	err := row.Scan(
		&resume.ID,
		&userID,
		&resume.Name,
		&resume.IsBaseResume,
		&email,
		&phone,
		&location,
		&summary,
		&work,
		&projects,
		&skills,
		&education,
		&languages,
		&certificates,
		&socials,
		&jd,
		&jobURL,
		&company,
		&other,
		&analysis,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	resume.UserID = userID.String
	resume.Email = email.String
	resume.Phone = phone.String
	resume.Location = location.String
	resume.Summary = summary.String
	resume.SourceJobDescription = jd.String
	resume.SourceJobURL = jobURL.String
	resume.SourceCompanyName = company.String
	resume.OtherExtractedData = other.String
	resume.Analysis = analysis.String
	resume.Work = rawOrEmpty(work)
	resume.Projects = rawOrEmpty(projects)
	resume.Skills = rawOrEmpty(skills)
	resume.Education = rawOrEmpty(education)
	resume.Languages = rawOrEmpty(languages)
	resume.Certificates = rawOrEmpty(certificates)
	resume.Socials = rawOrEmpty(socials)
	return resume, nil
}

func rawOrEmpty(b []byte) json.RawMessage {
	if len(b) == 0 {
		return emptyArray
	}
	return json.RawMessage(b)
}

func jsonOrEmpty(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte(emptyArray)
	}
	return []byte(raw)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
