package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
	"github.com/campus-media-dev/equipment-manager/backend/internal/scheduling"
)

func (h *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required"`
		Serial   string `json:"serial" validate:"required"`
		Category string `json:"category" validate:"required,oneof=camera lens adapter sd_card"`
		Note     string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	item := &domain.EquipmentItem{
		Name:     req.Name,
		Serial:   req.Serial,
		Category: domain.EquipmentCategory(req.Category),
		Note:     req.Note,
	}

	if err := h.repository.CreateEquipment(item); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "equipment_serial_key":
				h.errorResponse(w, r, "器材编号已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建器材成功", item)
}

func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	item := r.Context().Value(EquipmentCtx).(*domain.EquipmentItem)
	h.successResponse(w, r, "获取器材成功", item)
}

func (h *Handler) GetAllEquipment(w http.ResponseWriter, r *http.Request) {
	var category *domain.EquipmentCategory
	if param := r.URL.Query().Get("category"); param != "" {
		c := domain.EquipmentCategory(param)
		if !c.IsValid() {
			h.errorResponse(w, r, "器材类别无效")
			return
		}
		category = &c
	}

	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	items, err := h.repository.GetAllEquipment(category, activeOnly)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取器材列表成功", items)
}

func (h *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	item := r.Context().Value(EquipmentCtx).(*domain.EquipmentItem)

	var req struct {
		Name     *string `json:"name"`
		Serial   *string `json:"serial"`
		Note     *string `json:"note"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Serial != nil {
		item.Serial = *req.Serial
	}
	if req.Note != nil {
		item.Note = *req.Note
	}
	if req.IsActive != nil {
		// 停用（报废）只是不再参与可用性计算，历史借用记录保持原样
		item.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateEquipment(item); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "器材信息已被他人修改，请刷新后重试")
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "equipment_serial_key":
				h.errorResponse(w, r, "器材编号已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新器材成功", item)
}

func (h *Handler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	item := r.Context().Value(EquipmentCtx).(*domain.EquipmentItem)

	if err := h.repository.DeleteEquipment(item.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除器材成功", nil)
}

// GetAvailableEquipment 回答"某类别在某时间段内有哪些器材可借"。
// 结果只是查询时刻的快照，提交借用时还会在数据库里串行复查一次。
func (h *Handler) GetAvailableEquipment(w http.ResponseWriter, r *http.Request) {
	category := domain.EquipmentCategory(r.URL.Query().Get("category"))
	if !category.IsValid() {
		h.errorResponse(w, r, "器材类别无效")
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("windowStart"))
	if err != nil {
		h.errorResponse(w, r, "开始时间格式错误")
		return
	}

	window := scheduling.Window{Start: start}
	if param := r.URL.Query().Get("windowEnd"); param != "" {
		end, err := time.Parse(time.RFC3339, param)
		if err != nil {
			h.errorResponse(w, r, "结束时间格式错误")
			return
		}
		if end.Before(start) {
			h.errorResponse(w, r, "结束时间不能早于开始时间")
			return
		}
		window.End = &end
	}

	items, err := h.manager.Available(category, window)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取可用器材成功", items)
}

// CheckDraftConflicts 对还没保存的一组班次做表单内冲突检查：
// 对每个班次返回被其他时间重叠班次占用的器材 ID。纯计算，不查台账。
func (h *Handler) CheckDraftConflicts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Shifts []struct {
			Date      string                `json:"date" validate:"required"`
			StartTime string                `json:"startTime" validate:"required"`
			EndTime   string                `json:"endTime" validate:"required"`
			Equipment domain.ShiftEquipment `json:"equipment"`
		} `json:"shifts" validate:"required,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	drafts := make([]scheduling.DraftShift, len(req.Shifts))
	for i, shift := range req.Shifts {
		window, err := scheduling.DayWindow(shift.Date, shift.StartTime, shift.EndTime)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		drafts[i] = scheduling.DraftShift{
			Window:    window,
			Equipment: shift.Equipment,
		}
	}

	conflicts := make([][]int64, len(drafts))
	for i := range drafts {
		occupied := scheduling.OccupiedByOtherShifts(drafts, i)
		ids := make([]int64, 0, len(occupied))
		for id := range occupied {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		conflicts[i] = ids
	}

	h.successResponse(w, r, "冲突检查完成", conflicts)
}
