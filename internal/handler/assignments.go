package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
	"github.com/campus-media-dev/equipment-manager/backend/internal/repository"
	"github.com/campus-media-dev/equipment-manager/backend/internal/scheduling"
)

func (h *Handler) CreateAssignments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HolderID     int64   `json:"holderId" validate:"required"`
		EquipmentIDs []int64 `json:"equipmentIds" validate:"required,min=1"`
		EventID      *int64  `json:"eventId"`
		WindowStart  string  `json:"windowStart" validate:"required"`
		WindowEnd    *string `json:"windowEnd"`
		Note         string  `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, err := time.Parse(time.RFC3339, req.WindowStart)
	if err != nil {
		h.errorResponse(w, r, "开始时间格式错误")
		return
	}

	window := scheduling.Window{Start: start}
	if req.WindowEnd != nil {
		end, err := time.Parse(time.RFC3339, *req.WindowEnd)
		if err != nil {
			h.errorResponse(w, r, "结束时间格式错误")
			return
		}
		window.End = &end
	}

	created, failures, err := h.manager.CreateForShift(scheduling.CreateForShiftParams{
		HolderID:     req.HolderID,
		EventID:      req.EventID,
		Window:       window,
		EquipmentIDs: req.EquipmentIDs,
		Note:         req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidWindow),
			errors.Is(err, domain.ErrUnknownHolder),
			errors.Is(err, domain.ErrHolderInactive):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	data := map[string]any{
		"created":  created,
		"failures": failures,
	}

	// 各器材槽位相互独立，部分失败时照常返回成功的部分
	message := "创建借用记录成功"
	if len(failures) > 0 {
		message = fmt.Sprintf("创建借用记录完成，%d 条成功，%d 条失败", len(created), len(failures))
	}

	h.successResponse(w, r, message, data)
}

func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	var filters repository.AssignmentFilters
	query := r.URL.Query()

	parseID := func(param string) (*int64, bool) {
		value := query.Get(param)
		if value == "" {
			return nil, true
		}
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, false
		}
		return &id, true
	}

	var ok bool
	if filters.EquipmentID, ok = parseID("equipmentId"); !ok {
		h.errorResponse(w, r, "器材 ID 格式错误")
		return
	}
	if filters.HolderID, ok = parseID("holderId"); !ok {
		h.errorResponse(w, r, "借用人 ID 格式错误")
		return
	}
	if filters.EventID, ok = parseID("eventId"); !ok {
		h.errorResponse(w, r, "活动 ID 格式错误")
		return
	}
	filters.ActiveOnly = query.Get("activeOnly") == "true"

	records, err := h.repository.GetAssignments(filters)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取借用记录成功", records)
}

func (h *Handler) ReturnAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "借用记录 ID 格式错误")
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rec, err := h.manager.ReturnOne(id, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAssignmentNotFound),
			errors.Is(err, domain.ErrAssignmentReturned):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "归还成功", rec)
}
