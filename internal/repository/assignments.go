package repository

import (
	"database/sql"
	"errors"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

// InsertAssignmentIfAvailable 在一个事务中完成"检查再写入"：
// 先用 FOR UPDATE 锁住器材行，使同一器材的写入串行化（不同器材互不阻塞），
// 再复查该器材在目标时间段内没有未归还的重叠记录，最后插入。
// 存在重叠记录时返回 domain.ErrEquipmentUnavailable。
func (r *Repository) InsertAssignmentIfAvailable(rec *domain.AssignmentRecord) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 锁住器材行，这是同一器材上唯一需要互斥的地方
	query := `SELECT id FROM equipment WHERE id = $1 FOR UPDATE`

	var equipmentID int64
	if err := tx.QueryRowContext(ctx, query, rec.EquipmentID).Scan(&equipmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUnknownEquipment
		}
		return err
	}

	// 左闭右开的重叠判断，window_end 为 NULL 视为正无穷
	query = `
		SELECT EXISTS (
			SELECT 1 FROM assignments
			WHERE equipment_id = $1
			AND returned_at IS NULL
			AND ($3::timestamptz IS NULL OR window_start < $3)
			AND (window_end IS NULL OR window_end > $2)
		)
	`

	hasOverlap := false
	if err := tx.QueryRowContext(ctx, query, rec.EquipmentID, rec.WindowStart, rec.WindowEnd).Scan(&hasOverlap); err != nil {
		return err
	}

	if hasOverlap {
		return domain.ErrEquipmentUnavailable
	}

	query = `
		INSERT INTO assignments (equipment_id, holder_id, event_id, shift_ref, window_start, window_end, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	args := []any{rec.EquipmentID, rec.HolderID, rec.EventID, rec.ShiftRef, rec.WindowStart, rec.WindowEnd, rec.Note}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.CreatedAt, &rec.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// ReturnAssignment 把记录标记为已归还。
// WHERE 条件里带上 returned_at IS NULL，保证重复归还不会被静默接受。
func (r *Repository) ReturnAssignment(id int64, note string) (*domain.AssignmentRecord, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		UPDATE assignments
		SET returned_at = NOW(), return_note = $2, version = version + 1
		WHERE id = $1 AND returned_at IS NULL
		RETURNING id, equipment_id, holder_id, event_id, shift_ref, window_start, window_end, note, return_note, returned_at, created_at, version
	`

	rec := &domain.AssignmentRecord{}
	dst := []any{&rec.ID, &rec.EquipmentID, &rec.HolderID, &rec.EventID, &rec.ShiftRef, &rec.WindowStart, &rec.WindowEnd, &rec.Note, &rec.ReturnNote, &rec.ReturnedAt, &rec.CreatedAt, &rec.Version}
	err := r.dbpool.QueryRowContext(ctx, query, id, note).Scan(dst...)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// 没有命中行：要么记录不存在，要么已经归还过，需要区分开
	query = `SELECT EXISTS (SELECT 1 FROM assignments WHERE id = $1)`

	isExists := false
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&isExists); err != nil {
		return nil, err
	}

	if isExists {
		return nil, domain.ErrAssignmentReturned
	}
	return nil, domain.ErrAssignmentNotFound
}

type AssignmentFilters struct {
	EquipmentID *int64
	HolderID    *int64
	EventID     *int64
	ActiveOnly  bool
}

func (r *Repository) GetAssignments(filters AssignmentFilters) ([]*domain.AssignmentRecord, error) {
	query := `
		SELECT id, equipment_id, holder_id, event_id, shift_ref, window_start, window_end, note, return_note, returned_at, created_at, version
		FROM assignments
		WHERE ($1::bigint IS NULL OR equipment_id = $1)
		AND ($2::bigint IS NULL OR holder_id = $2)
		AND ($3::bigint IS NULL OR event_id = $3)
		AND (NOT $4 OR returned_at IS NULL)
		ORDER BY window_start DESC, id DESC
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, filters.EquipmentID, filters.HolderID, filters.EventID, filters.ActiveOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// GetActiveAssignmentsByCategory 是可用性计算的数据源：某类别所有未归还的记录
func (r *Repository) GetActiveAssignmentsByCategory(category domain.EquipmentCategory) ([]*domain.AssignmentRecord, error) {
	query := `
		SELECT a.id, a.equipment_id, a.holder_id, a.event_id, a.shift_ref, a.window_start, a.window_end, a.note, a.return_note, a.returned_at, a.created_at, a.version
		FROM assignments a
		JOIN equipment e ON a.equipment_id = e.id
		WHERE e.category = $1 AND a.returned_at IS NULL
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAssignments(rows)
}

func (r *Repository) GetActiveAssignmentsByEvent(eventID int64) ([]*domain.AssignmentRecord, error) {
	query := `
		SELECT id, equipment_id, holder_id, event_id, shift_ref, window_start, window_end, note, return_note, returned_at, created_at, version
		FROM assignments
		WHERE event_id = $1 AND returned_at IS NULL
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// GetOverdueAssignments 找出应还未还的记录，供提醒任务使用
func (r *Repository) GetOverdueAssignments() ([]*domain.OverdueAssignment, error) {
	query := `
		SELECT a.id, a.equipment_id, a.holder_id, a.window_end, u.full_name, u.email, e.name, e.serial
		FROM assignments a
		JOIN users u ON a.holder_id = u.id
		JOIN equipment e ON a.equipment_id = e.id
		WHERE a.returned_at IS NULL
		AND a.window_end IS NOT NULL
		AND a.window_end < NOW()
		ORDER BY a.window_end
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overdue := make([]*domain.OverdueAssignment, 0)
	for rows.Next() {
		o := &domain.OverdueAssignment{}
		dst := []any{&o.AssignmentID, &o.EquipmentID, &o.HolderID, &o.WindowEnd, &o.HolderName, &o.HolderEmail, &o.EquipmentName, &o.Serial}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		overdue = append(overdue, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return overdue, nil
}

func scanAssignments(rows *sql.Rows) ([]*domain.AssignmentRecord, error) {
	records := make([]*domain.AssignmentRecord, 0)
	for rows.Next() {
		rec := &domain.AssignmentRecord{}
		dst := []any{&rec.ID, &rec.EquipmentID, &rec.HolderID, &rec.EventID, &rec.ShiftRef, &rec.WindowStart, &rec.WindowEnd, &rec.Note, &rec.ReturnNote, &rec.ReturnedAt, &rec.CreatedAt, &rec.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
