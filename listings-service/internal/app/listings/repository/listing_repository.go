package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"staybnb/listings-service/internal/app/listings/entity"
	"staybnb/pkg/metrics"
)

const (
	serviceName = "listings-service"

	defaultPageSize = 20
)

var listingColumns = []string{
	"l.id", "l.host_id", "l.title", "l.description", "l.photo_thumbnail",
	"l.num_of_beds", "l.cost_per_night", "l.location_type", "l.is_featured", "l.created_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type listingRepository struct {
	db *pgxpool.Pool
}

func NewListingRepository(db *pgxpool.Pool) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing, amenityIDs []string) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "listings")
	defer timer.ObserveDuration()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Insert("listings").
		Columns(
			"id", "host_id", "title", "description", "photo_thumbnail",
			"num_of_beds", "cost_per_night", "location_type", "is_featured", "created_at",
		).
		Values(
			listing.ID, listing.HostID, listing.Title, listing.Description, listing.PhotoThumbnail,
			listing.NumOfBeds, listing.CostPerNight, string(listing.LocationType), listing.IsFeatured, listing.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create listing query failed: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create listing: %w", err)
	}

	amenities, err := r.replaceAmenities(ctx, tx, listing.ID, amenityIDs)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit listing: %w", err)
	}

	listing.Amenities = amenities
	listing.Link()
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "listings")
	defer timer.ObserveDuration()

	query, args, err := psql.Select(listingColumns...).
		From("listings l").
		Where(squirrel.Eq{"l.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get listing query failed: %w", err)
	}

	listing, err := scanListing(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	listings := []entity.Listing{*listing}
	if err := r.attachAmenities(ctx, listings); err != nil {
		return nil, err
	}
	return &listings[0], nil
}

func (r *listingRepository) GetByHost(ctx context.Context, hostID uuid.UUID) ([]entity.Listing, error) {
	return r.selectListings(ctx, psql.Select(listingColumns...).
		From("listings l").
		Where(squirrel.Eq{"l.host_id": hostID}).
		OrderBy("l.created_at DESC"))
}

// List отдает одну страницу кандидатов. Доступность по датам здесь не проверяется,
// ее проверяет сервис по каждому кандидату.
func (r *listingRepository) List(ctx context.Context, filter entity.ListingFilter) ([]entity.Listing, error) {
	query := psql.Select(listingColumns...).From("listings l")

	if filter.NumOfBeds > 0 {
		query = query.Where(squirrel.GtOrEq{"l.num_of_beds": filter.NumOfBeds})
	}

	switch filter.SortBy {
	case entity.SortCostDesc:
		query = query.OrderBy("l.cost_per_night DESC", "l.id")
	default:
		query = query.OrderBy("l.cost_per_night ASC", "l.id")
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	query = query.Limit(uint64(limit)).Offset(uint64((page - 1) * limit))

	return r.selectListings(ctx, query)
}

func (r *listingRepository) GetFeatured(ctx context.Context, limit int) ([]entity.Listing, error) {
	return r.selectListings(ctx, psql.Select(listingColumns...).
		From("listings l").
		Where(squirrel.Eq{"l.is_featured": true}).
		OrderBy("l.created_at DESC").
		Limit(uint64(limit)))
}

func (r *listingRepository) Update(ctx context.Context, listing *entity.Listing, amenityIDs []string) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "listings")
	defer timer.ObserveDuration()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Update("listings").
		SetMap(map[string]interface{}{
			"title":           listing.Title,
			"description":     listing.Description,
			"photo_thumbnail": listing.PhotoThumbnail,
			"num_of_beds":     listing.NumOfBeds,
			"cost_per_night":  listing.CostPerNight,
			"location_type":   string(listing.LocationType),
		}).
		Where(squirrel.Eq{"id": listing.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update listing query failed: %w", err)
	}

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	if amenityIDs != nil {
		amenities, err := r.replaceAmenities(ctx, tx, listing.ID, amenityIDs)
		if err != nil {
			return err
		}
		listing.Amenities = amenities
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit listing: %w", err)
	}

	listing.Link()
	return nil
}

func (r *listingRepository) GetAmenities(ctx context.Context) ([]entity.Amenity, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "amenities")
	defer timer.ObserveDuration()

	rows, err := r.db.Query(ctx, `SELECT id, category, name FROM amenities ORDER BY category, name`)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get amenities: %w", err)
	}
	defer rows.Close()

	amenities := make([]entity.Amenity, 0)
	for rows.Next() {
		var a entity.Amenity
		if err := rows.Scan(&a.ID, &a.Category, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan amenity: %w", err)
		}
		amenities = append(amenities, a)
	}
	return amenities, rows.Err()
}

// replaceAmenities переписывает связи объявления с удобствами внутри транзакции
func (r *listingRepository) replaceAmenities(ctx context.Context, tx pgx.Tx, listingID uuid.UUID, amenityIDs []string) ([]entity.Amenity, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM listing_amenities WHERE listing_id = $1`, listingID); err != nil {
		return nil, fmt.Errorf("failed to clear listing amenities: %w", err)
	}
	if len(amenityIDs) == 0 {
		return []entity.Amenity{}, nil
	}

	insert := psql.Insert("listing_amenities").Columns("listing_id", "amenity_id")
	for _, id := range amenityIDs {
		insert = insert.Values(listingID, id)
	}
	query, args, err := insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build listing amenities query failed: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrUnknownAmenity
		}
		return nil, fmt.Errorf("failed to link amenities: %w", err)
	}

	query, args, err = psql.Select("id", "category", "name").
		From("amenities").
		Where(squirrel.Eq{"id": amenityIDs}).
		OrderBy("category", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build amenities query failed: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load amenities: %w", err)
	}
	defer rows.Close()

	amenities := make([]entity.Amenity, 0, len(amenityIDs))
	for rows.Next() {
		var a entity.Amenity
		if err := rows.Scan(&a.ID, &a.Category, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan amenity: %w", err)
		}
		amenities = append(amenities, a)
	}
	return amenities, rows.Err()
}

func (r *listingRepository) selectListings(ctx context.Context, builder squirrel.SelectBuilder) ([]entity.Listing, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "listings")
	defer timer.ObserveDuration()

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list listings query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	listings := make([]entity.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, *listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	if err := r.attachAmenities(ctx, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// attachAmenities догружает удобства одним запросом на всю страницу
func (r *listingRepository) attachAmenities(ctx context.Context, listings []entity.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(listings))
	index := make(map[uuid.UUID]int, len(listings))
	for i := range listings {
		ids[i] = listings[i].ID
		index[listings[i].ID] = i
		listings[i].Amenities = []entity.Amenity{}
	}

	query, args, err := psql.Select("la.listing_id", "a.id", "a.category", "a.name").
		From("listing_amenities la").
		Join("amenities a ON a.id = la.amenity_id").
		Where(squirrel.Eq{"la.listing_id": ids}).
		OrderBy("a.category", "a.name").
		ToSql()
	if err != nil {
		return fmt.Errorf("build listing amenities query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return fmt.Errorf("failed to load listing amenities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			listingID uuid.UUID
			a         entity.Amenity
		)
		if err := rows.Scan(&listingID, &a.ID, &a.Category, &a.Name); err != nil {
			return fmt.Errorf("failed to scan listing amenity: %w", err)
		}
		if i, ok := index[listingID]; ok {
			listings[i].Amenities = append(listings[i].Amenities, a)
		}
	}
	return rows.Err()
}

func scanListing(row pgx.Row) (*entity.Listing, error) {
	var (
		l            entity.Listing
		locationType string
	)
	err := row.Scan(
		&l.ID, &l.HostID, &l.Title, &l.Description, &l.PhotoThumbnail,
		&l.NumOfBeds, &l.CostPerNight, &locationType, &l.IsFeatured, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.LocationType = entity.LocationType(locationType)
	l.Link()
	return &l, nil
}
