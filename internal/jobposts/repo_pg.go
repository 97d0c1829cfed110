package jobposts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

const jobPostColumns = `id, source_url, company_name, job_title, job_description, apply_link, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, post JobPost) (JobPost, error) {
	const query = `
INSERT INTO job_posts (id, source_url, company_name, job_title, job_description, apply_link, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (source_url) DO UPDATE SET
  company_name = EXCLUDED.company_name,
  job_title = EXCLUDED.job_title,
  job_description = EXCLUDED.job_description,
  apply_link = EXCLUDED.apply_link,
  updated_at = now()
RETURNING ` + jobPostColumns
	return scanJobPost(r.DB.QueryRowContext(ctx, query,
		post.ID,
		post.SourceURL,
		nullableString(post.CompanyName),
		nullableString(post.JobTitle),
		nullableString(post.JobDescription),
		nullableString(post.ApplyLink),
	))
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (JobPost, error) {
	query := `SELECT ` + jobPostColumns + ` FROM job_posts WHERE id = $1 LIMIT 1`
	return scanJobPost(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetBySourceURL(ctx context.Context, sourceURL string) (JobPost, error) {
	query := `SELECT ` + jobPostColumns + ` FROM job_posts WHERE source_url = $1 LIMIT 1`
	return scanJobPost(r.DB.QueryRowContext(ctx, query, sourceURL))
}

func (r *PGRepo) List(ctx context.Context, limit int) ([]JobPost, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + jobPostColumns + ` FROM job_posts ORDER BY created_at DESC LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list job posts: %w", err)
	}
	defer rows.Close()

	var out []JobPost
	for rows.Next() {
		post, err := scanJobPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobPost(row rowScanner) (JobPost, error) {
	var post JobPost
	var company, title, description, applyLink sql.NullString
	err := row.Scan(
		&post.ID,
		&post.SourceURL,
		&company,
		&title,
		&description,
		&applyLink,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JobPost{}, ErrNotFound
		}
		return JobPost{}, err
	}
	post.CompanyName = company.String
	post.JobTitle = title.String
	post.JobDescription = description.String
	post.ApplyLink = applyLink.String
	return post, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
