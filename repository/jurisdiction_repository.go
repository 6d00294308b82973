package repository

import (
	"context"
	"strings"

	"ruraldraft-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// JurisdictionRepository resolves the federal court subsection competent for
// a municipality.
type JurisdictionRepository struct {
	db *pgxpool.Pool
}

// NewJurisdictionRepository creates a new jurisdiction repository
func NewJurisdictionRepository(db *pgxpool.Pool) *JurisdictionRepository {
	return &JurisdictionRepository{db: db}
}

// Lookup finds the subsection for city/uf. City matching ignores case and
// accents through the normalized_name column.
func (r *JurisdictionRepository) Lookup(ctx context.Context, city, uf string) (*models.Jurisdiction, error) {
	query := `
		SELECT m.name, m.uf, ss.name, ss.court_city, s.name, ss.has_jef,
			COALESCE(jm.legal_basis, '')
		FROM municipalities m
		JOIN jurisdiction_map jm ON jm.municipality_id = m.id
		JOIN judicial_subsections ss ON ss.id = jm.subsection_id
		JOIN judicial_sections s ON s.id = ss.section_id
		WHERE m.normalized_name = unaccent(lower($1)) AND m.uf = $2
		LIMIT 1`

	j := &models.Jurisdiction{}
	err := r.db.QueryRow(ctx, query, strings.TrimSpace(city), strings.ToUpper(strings.TrimSpace(uf))).Scan(
		&j.City,
		&j.State,
		&j.Subsection,
		&j.CourtCity,
		&j.Section,
		&j.HasJEF,
		&j.LegalBasis,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return j, nil
}
