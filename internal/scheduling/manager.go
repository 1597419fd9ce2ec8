package scheduling

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
	"github.com/google/uuid"
)

// Store 是调度核心对台账和器材目录的依赖。
// 由 repository 实现；测试中用内存实现代替。
type Store interface {
	GetUserByID(id int64) (*domain.User, error)
	GetEquipmentByID(id int64) (*domain.EquipmentItem, error)
	GetActiveEquipmentByCategory(category domain.EquipmentCategory) ([]*domain.EquipmentItem, error)
	GetActiveAssignmentsByCategory(category domain.EquipmentCategory) ([]*domain.AssignmentRecord, error)
	GetActiveAssignmentsByEvent(eventID int64) ([]*domain.AssignmentRecord, error)

	// InsertAssignmentIfAvailable 必须对同一器材的写入串行化：
	// 只有在该器材没有与 rec 时间段重叠的未归还记录时才插入，
	// 否则返回 domain.ErrEquipmentUnavailable。不同器材的写入互不阻塞。
	InsertAssignmentIfAvailable(rec *domain.AssignmentRecord) error

	// ReturnAssignment 把记录标记为已归还。
	// 记录不存在时返回 domain.ErrAssignmentNotFound，
	// 已经归还过时返回 domain.ErrAssignmentReturned。
	ReturnAssignment(id int64, note string) (*domain.AssignmentRecord, error)
}

// Manager 负责借用记录的生命周期：创建、归还、编辑活动时的整体替换。
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Available 返回指定类别中在 window 内可借用的器材，保持目录顺序。
// 结果只是查询时刻的快照，真正的排他检查在 InsertAssignmentIfAvailable 中完成。
func (m *Manager) Available(category domain.EquipmentCategory, window Window) ([]*domain.EquipmentItem, error) {
	items, err := m.store.GetActiveEquipmentByCategory(category)
	if err != nil {
		return nil, err
	}

	records, err := m.store.GetActiveAssignmentsByCategory(category)
	if err != nil {
		return nil, err
	}

	return FilterAvailable(items, records, window), nil
}

type CreateForShiftParams struct {
	HolderID     int64
	EventID      *int64
	ShiftRef     *string
	Window       Window
	EquipmentIDs []int64
	Note         string
}

// CreateForShift 为一个班次批量创建借用记录，每个器材一条。
// 各器材槽位相互独立，不要求全部成功；单条记录的插入本身是原子的。
// 时间段或借用人不合法时整个操作失败，单个器材的问题只记为该槽位的失败。
func (m *Manager) CreateForShift(p CreateForShiftParams) ([]*domain.AssignmentRecord, []domain.SlotFailure, error) {
	if err := p.Window.Validate(); err != nil {
		return nil, nil, err
	}

	holder, err := m.store.GetUserByID(p.HolderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrUnknownHolder
		}
		return nil, nil, err
	}
	if !holder.IsActive {
		return nil, nil, domain.ErrHolderInactive
	}

	created := make([]*domain.AssignmentRecord, 0, len(p.EquipmentIDs))
	failures := make([]domain.SlotFailure, 0)

	for _, equipmentID := range p.EquipmentIDs {
		if err := m.createOne(p, equipmentID, &created); err != nil {
			failures = append(failures, domain.SlotFailure{
				EquipmentID: equipmentID,
				Reason:      err.Error(),
			})
		}
	}

	return created, failures, nil
}

func (m *Manager) createOne(p CreateForShiftParams, equipmentID int64, created *[]*domain.AssignmentRecord) error {
	item, err := m.store.GetEquipmentByID(equipmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUnknownEquipment
		}
		return err
	}
	if !item.IsActive {
		return domain.ErrEquipmentInactive
	}

	rec := &domain.AssignmentRecord{
		EquipmentID: equipmentID,
		HolderID:    p.HolderID,
		EventID:     p.EventID,
		ShiftRef:    p.ShiftRef,
		WindowStart: p.Window.Start,
		WindowEnd:   p.Window.End,
		Note:        p.Note,
	}

	// 提交时刻的排他检查，不信任调用方此前拿到的可用性快照
	if err := m.store.InsertAssignmentIfAvailable(rec); err != nil {
		return err
	}

	*created = append(*created, rec)
	return nil
}

// ReturnOne 归还一条借用记录。重复归还返回 ErrAssignmentReturned，
// 需要幂等语义的调用方应当先查询记录状态。
func (m *Manager) ReturnOne(assignmentID int64, note string) (*domain.AssignmentRecord, error) {
	return m.store.ReturnAssignment(assignmentID, note)
}

type shiftJob struct {
	date       string
	shiftIndex int
	params     CreateForShiftParams
}

// ReplaceAllForEvent 是编辑活动时的整体替换操作：
// 先归还该活动当前所有未归还的记录，再为每个选择了器材的班次重新创建。
// 创建阶段各班次并发执行、互不影响，单个班次的失败不会回滚其他班次，
// 结果统一收进 BatchResult。即使某些班次没有变化也会归还再重建，
// 这会产生多余的台账历史，是有意选择的简单策略。
func (m *Manager) ReplaceAllForEvent(eventID int64, days []domain.EventDay) (*domain.BatchResult, error) {
	// 第一阶段：归还
	active, err := m.store.GetActiveAssignmentsByEvent(eventID)
	if err != nil {
		return nil, err
	}

	for _, rec := range active {
		if _, err := m.store.ReturnAssignment(rec.ID, "活动排班更新，自动归还"); err != nil {
			// 并发下记录可能刚被别人归还，这不影响替换
			if errors.Is(err, domain.ErrAssignmentReturned) {
				continue
			}
			return nil, err
		}
	}

	// 第二阶段：组装创建任务
	jobs := make([]shiftJob, 0)
	result := &domain.BatchResult{
		Succeeded: make([]*domain.AssignmentRecord, 0),
		Failed:    make([]domain.BatchFailure, 0),
	}

	for _, day := range days {
		for i, shift := range day.Shifts {
			if shift.Equipment.IsEmpty() {
				continue
			}

			window, err := DayWindow(day.Date, shift.StartTime, shift.EndTime)
			if err != nil {
				for _, id := range shift.Equipment.IDs() {
					result.Failed = append(result.Failed, domain.BatchFailure{
						Date:        day.Date,
						ShiftIndex:  i,
						HolderID:    shift.HolderID,
						EquipmentID: id,
						Reason:      err.Error(),
					})
				}
				continue
			}

			shiftRef := uuid.NewString()
			jobs = append(jobs, shiftJob{
				date:       day.Date,
				shiftIndex: i,
				params: CreateForShiftParams{
					HolderID:     shift.HolderID,
					EventID:      &eventID,
					ShiftRef:     &shiftRef,
					Window:       window,
					EquipmentIDs: shift.Equipment.IDs(),
					Note:         shift.Note,
				},
			})
		}
	}

	// 第三阶段：并发创建，各班次之间不保证任何顺序
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, job := range jobs {
		wg.Add(1)
		go func(job shiftJob) {
			defer wg.Done()

			created, slotFailures, err := m.CreateForShift(job.params)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				// 班次级失败（借用人或时间段问题），所有槽位记为失败
				for _, id := range job.params.EquipmentIDs {
					result.Failed = append(result.Failed, domain.BatchFailure{
						Date:        job.date,
						ShiftIndex:  job.shiftIndex,
						HolderID:    job.params.HolderID,
						EquipmentID: id,
						Reason:      err.Error(),
					})
				}
				return
			}

			result.Succeeded = append(result.Succeeded, created...)
			for _, failure := range slotFailures {
				result.Failed = append(result.Failed, domain.BatchFailure{
					Date:        job.date,
					ShiftIndex:  job.shiftIndex,
					HolderID:    job.params.HolderID,
					EquipmentID: failure.EquipmentID,
					Reason:      failure.Reason,
				})
			}
		}(job)
	}

	wg.Wait()

	return result, nil
}

// DayWindow 把活动日的日期和班次的墙上时间换算成绝对时间段
func DayWindow(date string, startTime string, endTime string) (Window, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", fmt.Sprintf("%s %s", date, startTime), time.Local)
	if err != nil {
		return Window{}, domain.ErrInvalidWindow
	}

	end, err := time.ParseInLocation("2006-01-02 15:04", fmt.Sprintf("%s %s", date, endTime), time.Local)
	if err != nil {
		return Window{}, domain.ErrInvalidWindow
	}

	window := Window{Start: start, End: &end}
	if err := window.Validate(); err != nil {
		return Window{}, err
	}

	return window, nil
}
