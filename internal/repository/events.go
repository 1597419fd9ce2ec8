package repository

import (
	"context"
	"database/sql"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

func (r *Repository) CreateEvent(event *domain.Event) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO events (name, description, preset_camera_id, preset_lens_id, preset_adapter_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	args := []any{event.Name, event.Description, event.Preset.CameraID, event.Preset.LensID, event.Preset.AdapterID}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&event.ID, &event.CreatedAt, &event.Version); err != nil {
		return err
	}

	if err := insertEventDays(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func insertEventDays(ctx context.Context, tx *sql.Tx, event *domain.Event) error {
	for i := range event.Days {
		query := `
			INSERT INTO event_days (event_id, date, note)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, event.ID, event.Days[i].Date, event.Days[i].Note).Scan(&event.Days[i].ID); err != nil {
			return err
		}

		for j := range event.Days[i].Shifts {
			shift := &event.Days[i].Shifts[j]
			query = `
				INSERT INTO event_shifts (day_id, holder_id, start_time, end_time, shift_type, note, camera_id, lens_id, adapter_id, sd_card_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING id
			`
			params := []any{
				event.Days[i].ID,
				shift.HolderID,
				shift.StartTime,
				shift.EndTime,
				shift.ShiftType,
				shift.Note,
				shift.Equipment.CameraID,
				shift.Equipment.LensID,
				shift.Equipment.AdapterID,
				shift.Equipment.SDCardID,
			}
			if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *Repository) GetEventByID(id int64) (*domain.Event, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT
			ev.name,
			ev.description,
			ev.preset_camera_id,
			ev.preset_lens_id,
			ev.preset_adapter_id,
			ev.created_at,
			ev.version,
			ed.id,
			ed.date,
			ed.note,
			es.id,
			es.holder_id,
			es.start_time,
			es.end_time,
			es.shift_type,
			es.note,
			es.camera_id,
			es.lens_id,
			es.adapter_id,
			es.sd_card_id
		FROM events ev
		LEFT JOIN event_days ed ON ev.id = ed.event_id
		LEFT JOIN event_shifts es ON ed.id = es.day_id
		WHERE ev.id = $1
		ORDER BY ed.date, ed.id, es.start_time, es.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	event := &domain.Event{
		ID:   id,
		Days: make([]domain.EventDay, 0),
	}
	daysIndex := make(map[int64]int) // dayID -> event.Days 下标
	found := false

	for rows.Next() {
		var row struct {
			Name           string
			Description    string
			PresetCameraID sql.NullInt64
			PresetLensID   sql.NullInt64
			PresetAdapter  sql.NullInt64
			CreatedAt      sql.NullTime
			Version        int32

			DayID   sql.NullInt64
			Date    sql.NullString
			DayNote sql.NullString

			ShiftID   sql.NullInt64
			HolderID  sql.NullInt64
			StartTime sql.NullString
			EndTime   sql.NullString
			ShiftType sql.NullString
			ShiftNote sql.NullString
			CameraID  sql.NullInt64
			LensID    sql.NullInt64
			AdapterID sql.NullInt64
			SDCardID  sql.NullInt64
		}

		dst := []any{
			&row.Name,
			&row.Description,
			&row.PresetCameraID,
			&row.PresetLensID,
			&row.PresetAdapter,
			&row.CreatedAt,
			&row.Version,
			&row.DayID,
			&row.Date,
			&row.DayNote,
			&row.ShiftID,
			&row.HolderID,
			&row.StartTime,
			&row.EndTime,
			&row.ShiftType,
			&row.ShiftNote,
			&row.CameraID,
			&row.LensID,
			&row.AdapterID,
			&row.SDCardID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			// 第一行带出活动本身的字段
			event.Name = row.Name
			event.Description = row.Description
			event.Preset = domain.PresetProfile{
				CameraID:  nullableID(row.PresetCameraID),
				LensID:    nullableID(row.PresetLensID),
				AdapterID: nullableID(row.PresetAdapter),
			}
			event.CreatedAt = row.CreatedAt.Time
			event.Version = row.Version
			found = true
		}

		if !row.DayID.Valid {
			// 该活动还没有任何活动日
			continue
		}

		dayIdx, exists := daysIndex[row.DayID.Int64]
		if !exists {
			event.Days = append(event.Days, domain.EventDay{
				ID:     row.DayID.Int64,
				Date:   row.Date.String,
				Note:   row.DayNote.String,
				Shifts: make([]domain.EventShift, 0),
			})
			dayIdx = len(event.Days) - 1
			daysIndex[row.DayID.Int64] = dayIdx
		}

		if !row.ShiftID.Valid {
			// 该活动日还没有任何班次
			continue
		}

		event.Days[dayIdx].Shifts = append(event.Days[dayIdx].Shifts, domain.EventShift{
			ID:        row.ShiftID.Int64,
			HolderID:  row.HolderID.Int64,
			StartTime: row.StartTime.String,
			EndTime:   row.EndTime.String,
			ShiftType: domain.ShiftType(row.ShiftType.String),
			Note:      row.ShiftNote.String,
			Equipment: domain.ShiftEquipment{
				CameraID:  nullableID(row.CameraID),
				LensID:    nullableID(row.LensID),
				AdapterID: nullableID(row.AdapterID),
				SDCardID:  nullableID(row.SDCardID),
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return event, nil
}

func (r *Repository) GetAllEvents() ([]*domain.Event, error) {
	query := `
		SELECT id, name, description, preset_camera_id, preset_lens_id, preset_adapter_id, created_at, version
		FROM events
		ORDER BY created_at DESC, id DESC
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// 列表页不需要活动日明细
	events := make([]*domain.Event, 0)
	for rows.Next() {
		event := &domain.Event{}
		var cameraID, lensID, adapterID sql.NullInt64
		dst := []any{&event.ID, &event.Name, &event.Description, &cameraID, &lensID, &adapterID, &event.CreatedAt, &event.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		event.Preset = domain.PresetProfile{
			CameraID:  nullableID(cameraID),
			LensID:    nullableID(lensID),
			AdapterID: nullableID(adapterID),
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// ReplaceEventDays 更新活动基本信息并整体重建活动日和班次。
// 编辑活动不做差量更新：先删后插，和借用记录的"先归还再重建"策略保持一致。
func (r *Repository) ReplaceEventDays(event *domain.Event) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE events
		SET
			name = $1,
			description = $2,
			preset_camera_id = $3,
			preset_lens_id = $4,
			preset_adapter_id = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	args := []any{event.Name, event.Description, event.Preset.CameraID, event.Preset.LensID, event.Preset.AdapterID, event.ID, event.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&event.Version); err != nil {
		return err
	}

	// event_shifts 通过外键级联删除
	query = `DELETE FROM event_days WHERE event_id = $1`
	if _, err := tx.ExecContext(ctx, query, event.ID); err != nil {
		return err
	}

	if err := insertEventDays(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEvent(id int64) error {
	query := `
		DELETE FROM events WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
