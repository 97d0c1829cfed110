package bio

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, b Bio) (Bio, error) {
	const query = `
INSERT INTO bios (id, user_id, first_name, last_name, email, phone,
  current_city, current_state, current_country, headline,
  target_roles, target_industries, base_summary,
  base_education, base_languages, base_certificates, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  first_name = EXCLUDED.first_name,
  last_name = EXCLUDED.last_name,
  email = EXCLUDED.email,
  phone = EXCLUDED.phone,
  current_city = EXCLUDED.current_city,
  current_state = EXCLUDED.current_state,
  current_country = EXCLUDED.current_country,
  headline = EXCLUDED.headline,
  target_roles = EXCLUDED.target_roles,
  target_industries = EXCLUDED.target_industries,
  base_summary = EXCLUDED.base_summary,
  base_education = EXCLUDED.base_education,
  base_languages = EXCLUDED.base_languages,
  base_certificates = EXCLUDED.base_certificates,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		b.ID,
		b.UserID,
		nullableString(b.FirstName),
		nullableString(b.LastName),
		nullableString(b.Email),
		nullableString(b.Phone),
		nullableString(b.CurrentCity),
		nullableString(b.CurrentState),
		nullableString(b.CurrentCountry),
		nullableString(b.Headline),
		jsonOrEmpty(b.TargetRoles),
		jsonOrEmpty(b.TargetIndustries),
		nullableString(b.BaseSummary),
		jsonOrEmpty(b.BaseEducation),
		jsonOrEmpty(b.BaseLanguages),
		jsonOrEmpty(b.BaseCertificates),
	)
	if err != nil {
		return Bio{}, fmt.Errorf("upsert bio: %w", err)
	}
	return r.GetByUser(ctx, b.UserID)
}

func (r *PGRepo) GetByUser(ctx context.Context, userID string) (Bio, error) {
	const query = `
SELECT id, user_id, first_name, last_name, email, phone,
  current_city, current_state, current_country, headline,
  target_roles, target_industries, base_summary,
  base_education, base_languages, base_certificates, created_at, updated_at
FROM bios
WHERE user_id = $1
LIMIT 1`
	var b Bio
	var first, last, email, phone, city, state, country, headline, summary sql.NullString
	var roles, industries, education, languages, certificates []byte
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&b.ID,
		&b.UserID,
		&first,
		&last,
		&email,
		&phone,
		&city,
		&state,
		&country,
		&headline,
		&roles,
		&industries,
		&summary,
		&education,
		&languages,
		&certificates,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Bio{}, ErrNotFound
		}
		return Bio{}, err
	}
	b.FirstName = first.String
	b.LastName = last.String
	b.Email = email.String
	b.Phone = phone.String
	b.CurrentCity = city.String
	b.CurrentState = state.String
	b.CurrentCountry = country.String
	b.Headline = headline.String
	b.BaseSummary = summary.String
	b.TargetRoles = rawOrEmpty(roles)
	b.TargetIndustries = rawOrEmpty(industries)
	b.BaseEducation = rawOrEmpty(education)
	b.BaseLanguages = rawOrEmpty(languages)
	b.BaseCertificates = rawOrEmpty(certificates)

	socials, err := r.listSocials(ctx, b.ID)
	if err != nil {
		return Bio{}, err
	}
	b.Socials = socials
	return b, nil
}

func (r *PGRepo) UpsertSocial(ctx context.Context, p SocialProfile) (SocialProfile, error) {
	const query = `
INSERT INTO social_profiles (id, bio_id, network, username, url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (bio_id, network) DO UPDATE SET
  username = EXCLUDED.username,
  url = EXCLUDED.url,
  updated_at = now()
RETURNING id, bio_id, network, username, url, created_at, updated_at`
	var out SocialProfile
	var username sql.NullString
	err := r.DB.QueryRowContext(ctx, query,
		p.ID, p.BioID, p.Network, nullableString(p.Username), p.URL,
	).Scan(&out.ID, &out.BioID, &out.Network, &username, &out.URL, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return SocialProfile{}, fmt.Errorf("upsert social profile: %w", err)
	}
	out.Username = username.String
	return out, nil
}

func (r *PGRepo) DeleteSocial(ctx context.Context, bioID, socialID string) error {
	const query = `DELETE FROM social_profiles WHERE id = $1 AND bio_id = $2`
	res, err := r.DB.ExecContext(ctx, query, socialID, bioID)
	if err != nil {
		return fmt.Errorf("delete social profile: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrSocialNotFound
	}
	return nil
}

func (r *PGRepo) listSocials(ctx context.Context, bioID string) ([]SocialProfile, error) {
	const query = `
SELECT id, bio_id, network, username, url, created_at, updated_at
FROM social_profiles
WHERE bio_id = $1
ORDER BY network`
	rows, err := r.DB.QueryContext(ctx, query, bioID)
	if err != nil {
		return nil, fmt.Errorf("list social profiles: %w", err)
	}
	defer rows.Close()

	var out []SocialProfile
	for rows.Next() {
		var p SocialProfile
		var username sql.NullString
		if err := rows.Scan(&p.ID, &p.BioID, &p.Network, &username, &p.URL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Username = username.String
		out = append(out, p)
	}
	return out, rows.Err()
}

func rawOrEmpty(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("[]")
	}
	return json.RawMessage(b)
}

func jsonOrEmpty(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("[]")
	}
	return []byte(raw)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
