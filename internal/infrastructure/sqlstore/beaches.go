package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prbeaches/directory/api/internal/public/domain"
)

const (
	kindTag     = "tag"
	kindAmenity = "amenity"
	kindGallery = "gallery"
	kindFeature = "feature"

	// attributeChunk bounds the IN list when loading attributes.
	attributeChunk = 500
)

const beachColumns = `b.id, b.slug, b.name, b.municipality, b.latitude, b.longitude, b.cover_image, b.description,
	b.third_party_rating, b.third_party_count, b.community_rating, b.community_count, b.status, b.created_at, b.updated_at`

// BeachRepository implements application.BeachRepository on a relational store.
type BeachRepository struct {
	store *Store
}

func NewBeachRepository(store *Store) *BeachRepository {
	return &BeachRepository{store: store}
}

// FindPublished runs one query ANDing every stored-column predicate, then loads attributes.
// SQLite's LOWER folds ASCII only, so on SQLite the free-text clause is matched in Go.
func (r *BeachRepository) FindPublished(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Beach, error) {
	text := criteria.Query()
	if r.store.dialect == dialectSQLite {
		criteria = criteria.Without(domain.ConstraintQuery)
	}
	query, args := buildPublishedQuery(criteria)
	beaches, err := r.store.selectBeaches(ctx, r.store.q(), query, args...)
	if err != nil || text == "" || criteria.Has(domain.ConstraintQuery) {
		return beaches, err
	}

	kept := beaches[:0]
	for _, b := range beaches {
		if domain.MatchesQuery(b, text) {
			kept = append(kept, b)
		}
	}
	return kept, nil
}

// FindPublishedByIDs returns published beaches among ids.
func (r *BeachRepository) FindPublishedByIDs(ctx context.Context, ids []string) ([]domain.Beach, error) {
	clean := make([]any, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return nil, nil
	}
	query := `SELECT ` + beachColumns + ` FROM beaches b WHERE b.status = ? AND b.id IN (` + placeholders(len(clean)) + `) ORDER BY b.name, b.id`
	args := append([]any{string(domain.StatePublished)}, clean...)
	return r.store.selectBeaches(ctx, r.store.q(), query, args...)
}

// FindByIDOrSlug returns a beach in any publish state.
func (r *BeachRepository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Beach, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	beaches, err := r.store.selectBeaches(ctx, r.store.q(),
		`SELECT `+beachColumns+` FROM beaches b WHERE b.id = ? OR b.slug = ? ORDER BY CASE WHEN b.id = ? THEN 0 ELSE 1 END LIMIT 1`,
		idOrSlug, idOrSlug, idOrSlug)
	if err != nil {
		return nil, err
	}
	if len(beaches) == 0 {
		return nil, domain.ErrBeachNotFound
	}
	return &beaches[0], nil
}

// Upsert inserts or replaces a beach keyed by slug, including its attributes, in one
// transaction. The stored ID is written back.
func (r *BeachRepository) Upsert(ctx context.Context, beach *domain.Beach) error {
	if err := beach.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if beach.CreatedAt.IsZero() {
		beach.CreatedAt = now
	}
	if beach.UpdatedAt.IsZero() {
		beach.UpdatedAt = now
	}

	return r.store.withTx(ctx, func(q querier) error {
		var existing string
		err := q.queryRow(ctx, `SELECT id FROM beaches WHERE slug = ?`, beach.Slug).Scan(&existing)
		switch {
		case err == nil:
			beach.ID = existing
		case !isNoRows(err):
			return fmt.Errorf("looking up slug %s: %w", beach.Slug, err)
		case strings.TrimSpace(beach.ID) == "":
			beach.ID = uuid.NewString()
		}

		_, err = q.exec(ctx, `
			INSERT INTO beaches (id, slug, name, municipality, latitude, longitude, cover_image, description,
				third_party_rating, third_party_count, community_rating, community_count, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				slug = excluded.slug,
				name = excluded.name,
				municipality = excluded.municipality,
				latitude = excluded.latitude,
				longitude = excluded.longitude,
				cover_image = excluded.cover_image,
				description = excluded.description,
				third_party_rating = excluded.third_party_rating,
				third_party_count = excluded.third_party_count,
				community_rating = excluded.community_rating,
				community_count = excluded.community_count,
				status = excluded.status,
				updated_at = excluded.updated_at`,
			beach.ID, beach.Slug, beach.Name, beach.Municipality, beach.Coordinates.Lat, beach.Coordinates.Lng,
			beach.CoverImage, beach.Description,
			beach.ThirdParty.Value, beach.ThirdParty.Count, beach.Community.Value, beach.Community.Count,
			string(beach.Status), beach.CreatedAt.UnixMilli(), beach.UpdatedAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("upserting beach %s: %w", beach.Slug, err)
		}

		if _, err := q.exec(ctx, `DELETE FROM beach_attributes WHERE beach_id = ?`, beach.ID); err != nil {
			return fmt.Errorf("clearing attributes of %s: %w", beach.Slug, err)
		}
		amenities := make([]string, 0, len(beach.Amenities))
		for _, a := range beach.Amenities {
			amenities = append(amenities, strings.ToLower(strings.TrimSpace(a)))
		}
		for kind, values := range map[string][]string{
			kindTag:     beach.Tags,
			kindAmenity: amenities,
			kindGallery: beach.Gallery,
			kindFeature: beach.Features,
		} {
			if err := insertAttributes(ctx, q, beach.ID, kind, values); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertAttributes(ctx context.Context, q querier, beachID, kind string, values []string) error {
	seen := make(map[string]struct{}, len(values))
	position := 0
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, err := q.exec(ctx,
			`INSERT INTO beach_attributes (beach_id, kind, value, position) VALUES (?, ?, ?, ?)`,
			beachID, kind, v, position); err != nil {
			return fmt.Errorf("inserting %s %q: %w", kind, v, err)
		}
		position++
	}
	return nil
}

// buildPublishedQuery translates criteria to SQL. Vocabulary values, municipality and the
// LIKE pattern are all bound parameters.
func buildPublishedQuery(criteria domain.FilterCriteria) (string, []any) {
	var (
		where = []string{"b.status = ?"}
		args  = []any{string(domain.StatePublished)}
	)

	if municipality := criteria.Municipality(); municipality != "" {
		where = append(where, "b.municipality = ?")
		args = append(args, municipality)
	}
	for _, set := range []struct {
		kind   string
		values []string
	}{
		{kindTag, criteria.Tags()},
		{kindAmenity, criteria.Amenities()},
	} {
		if len(set.values) == 0 {
			continue
		}
		where = append(where, `b.id IN (SELECT beach_id FROM beach_attributes WHERE kind = ? AND value IN (`+
			placeholders(len(set.values))+`) GROUP BY beach_id HAVING COUNT(DISTINCT value) = ?)`)
		args = append(args, set.kind)
		for _, v := range set.values {
			args = append(args, v)
		}
		args = append(args, len(set.values))
	}
	if criteria.Lifeguard() {
		aliases := domain.LifeguardAliases()
		where = append(where, `EXISTS (SELECT 1 FROM beach_attributes a WHERE a.beach_id = b.id AND a.kind = ? AND a.value IN (`+
			placeholders(len(aliases))+`))`)
		args = append(args, kindAmenity)
		for _, v := range aliases {
			args = append(args, v)
		}
	}
	if query := criteria.Query(); query != "" {
		pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
		where = append(where, `(LOWER(b.name) LIKE ? ESCAPE '\' OR LOWER(b.municipality) LIKE ? ESCAPE '\' OR LOWER(b.description) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	return `SELECT ` + beachColumns + ` FROM beaches b WHERE ` + strings.Join(where, " AND ") + ` ORDER BY b.name, b.id`, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// selectBeaches scans beach rows and attaches their attributes.
func (s *Store) selectBeaches(ctx context.Context, q querier, query string, args ...any) ([]domain.Beach, error) {
	rs, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying beaches: %w", err)
	}
	beaches := make([]domain.Beach, 0)
	for rs.Next() {
		b, err := scanBeach(rs)
		if err != nil {
			rs.Close()
			return nil, fmt.Errorf("scanning beach: %w", err)
		}
		beaches = append(beaches, b)
	}
	err = rs.Err()
	rs.Close()
	if err != nil {
		return nil, err
	}

	if err := loadAttributes(ctx, q, beaches); err != nil {
		return nil, err
	}
	return beaches, nil
}

func scanBeach(r row) (domain.Beach, error) {
	var (
		b                     domain.Beach
		status                string
		thirdCount, commCount int64
		createdAt, updatedAt  int64
	)
	err := r.Scan(&b.ID, &b.Slug, &b.Name, &b.Municipality, &b.Coordinates.Lat, &b.Coordinates.Lng,
		&b.CoverImage, &b.Description,
		&b.ThirdParty.Value, &thirdCount, &b.Community.Value, &commCount,
		&status, &createdAt, &updatedAt)
	if err != nil {
		return domain.Beach{}, err
	}
	b.ThirdParty.Count = int(thirdCount)
	b.Community.Count = int(commCount)
	b.Status = domain.PublishState(status)
	b.CreatedAt = time.UnixMilli(createdAt).UTC()
	b.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return b, nil
}

func loadAttributes(ctx context.Context, q querier, beaches []domain.Beach) error {
	if len(beaches) == 0 {
		return nil
	}
	index := make(map[string]int, len(beaches))
	for i := range beaches {
		index[beaches[i].ID] = i
	}

	for start := 0; start < len(beaches); start += attributeChunk {
		end := min(start+attributeChunk, len(beaches))
		args := make([]any, 0, end-start)
		for _, b := range beaches[start:end] {
			args = append(args, b.ID)
		}
		rs, err := q.query(ctx,
			`SELECT beach_id, kind, value FROM beach_attributes WHERE beach_id IN (`+placeholders(len(args))+`) ORDER BY beach_id, kind, position`,
			args...)
		if err != nil {
			return fmt.Errorf("querying attributes: %w", err)
		}
		for rs.Next() {
			var beachID, kind, value string
			if err := rs.Scan(&beachID, &kind, &value); err != nil {
				rs.Close()
				return fmt.Errorf("scanning attribute: %w", err)
			}
			i, ok := index[beachID]
			if !ok {
				continue
			}
			b := &beaches[i]
			switch kind {
			case kindTag:
				b.Tags = append(b.Tags, value)
			case kindAmenity:
				b.Amenities = append(b.Amenities, value)
			case kindGallery:
				b.Gallery = append(b.Gallery, value)
			case kindFeature:
				b.Features = append(b.Features, value)
			}
		}
		err = rs.Err()
		rs.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
