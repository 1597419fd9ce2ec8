package repository

import (
	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

func (r *Repository) CreateEquipment(item *domain.EquipmentItem) error {
	query := `
		INSERT INTO equipment (name, serial, category, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{item.Name, item.Serial, item.Category, item.Note}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&item.ID, &item.IsActive, &item.CreatedAt, &item.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEquipmentByID(id int64) (*domain.EquipmentItem, error) {
	query := `
		SELECT id, name, serial, category, is_active, note, created_at, version
		FROM equipment WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	item := &domain.EquipmentItem{}
	dst := []any{&item.ID, &item.Name, &item.Serial, &item.Category, &item.IsActive, &item.Note, &item.CreatedAt, &item.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return item, nil
}

// GetActiveEquipmentByCategory 按名称排序返回某类别所有在用器材。
// 这个顺序就是可用性查询结果的顺序，必须稳定。
func (r *Repository) GetActiveEquipmentByCategory(category domain.EquipmentCategory) ([]*domain.EquipmentItem, error) {
	query := `
		SELECT id, name, serial, category, is_active, note, created_at, version
		FROM equipment
		WHERE category = $1 AND is_active = TRUE
		ORDER BY name, id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.EquipmentItem, 0)
	for rows.Next() {
		item := &domain.EquipmentItem{}
		dst := []any{&item.ID, &item.Name, &item.Serial, &item.Category, &item.IsActive, &item.Note, &item.CreatedAt, &item.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *Repository) GetAllEquipment(category *domain.EquipmentCategory, activeOnly bool) ([]*domain.EquipmentItem, error) {
	query := `
		SELECT id, name, serial, category, is_active, note, created_at, version
		FROM equipment
		WHERE ($1::text IS NULL OR category = $1)
		AND (NOT $2 OR is_active = TRUE)
		ORDER BY category, name, id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, category, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.EquipmentItem, 0)
	for rows.Next() {
		item := &domain.EquipmentItem{}
		dst := []any{&item.ID, &item.Name, &item.Serial, &item.Category, &item.IsActive, &item.Note, &item.CreatedAt, &item.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *Repository) UpdateEquipment(item *domain.EquipmentItem) error {
	query := `
		UPDATE equipment
		SET
			name = $1,
			serial = $2,
			note = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{item.Name, item.Serial, item.Note, item.IsActive, item.ID, item.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&item.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEquipment(id int64) error {
	query := `
		DELETE FROM equipment WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
