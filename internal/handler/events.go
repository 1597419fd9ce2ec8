package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
	"github.com/campus-media-dev/equipment-manager/backend/internal/scheduling"
	"github.com/campus-media-dev/equipment-manager/backend/internal/utils"
)

// applyPresetToDays 给还没有选择任何器材的例行班次套用活动预设。
// 明确选择过器材的班次不受预设影响。
func applyPresetToDays(preset domain.PresetProfile, days []domain.EventDay) {
	for i := range days {
		for j := range days[i].Shifts {
			shift := &days[i].Shifts[j]
			if shift.Equipment.IsEmpty() {
				shift.Equipment = scheduling.ApplyPreset(preset, shift.ShiftType)
			}
		}
	}
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string               `json:"name" validate:"required"`
		Description string               `json:"description"`
		Preset      domain.PresetProfile `json:"preset"`
		Days        []domain.EventDay    `json:"days"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateEventDays(req.Days); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	applyPresetToDays(req.Preset, req.Days)

	event := &domain.Event{
		Name:        req.Name,
		Description: req.Description,
		Preset:      req.Preset,
		Days:        req.Days,
	}

	if err := h.repository.CreateEvent(event); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 活动本身已经建好，排班的借用记录按班次独立创建，部分失败不回滚活动
	batch, err := h.manager.ReplaceAllForEvent(event.ID, event.Days)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	message := "创建活动成功"
	if !batch.AllSucceeded() {
		message = "创建活动成功，但部分器材借用失败"
	}

	h.successResponse(w, r, message, map[string]any{
		"event": event,
		"batch": batch,
	})
}

func (h *Handler) GetAllEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.repository.GetAllEvents()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取活动列表成功", events)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)
	h.successResponse(w, r, "获取活动成功", event)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	var req struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Preset      *domain.PresetProfile `json:"preset"`
		Days        []domain.EventDay     `json:"days"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Days == nil {
		h.errorResponse(w, r, "排班信息不能为空")
		return
	}
	if err := utils.ValidateEventDays(req.Days); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Preset != nil {
		event.Preset = *req.Preset
	}

	applyPresetToDays(event.Preset, req.Days)
	event.Days = req.Days

	if err := h.repository.ReplaceEventDays(event); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "活动信息已被他人修改，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 整体替换：先归还该活动所有在借记录，再按新排班重新创建
	batch, err := h.manager.ReplaceAllForEvent(event.ID, event.Days)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	message := "更新活动成功"
	if !batch.AllSucceeded() {
		message = "更新活动成功，但部分器材借用失败"
	}

	h.successResponse(w, r, message, map[string]any{
		"event": event,
		"batch": batch,
	})
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	// 删除活动前先归还它名下所有在借器材，避免台账里留下孤儿记录
	if _, err := h.manager.ReplaceAllForEvent(event.ID, nil); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.DeleteEvent(event.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除活动成功", nil)
}
