package scheduling

import (
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

// mockStore 用函数字段模拟 Store，未设置的方法 panic，
// 这样每个测试只需要实现自己关心的部分。
type mockStore struct {
	getUserByID                  func(id int64) (*domain.User, error)
	getEquipmentByID             func(id int64) (*domain.EquipmentItem, error)
	getActiveEquipmentByCategory func(category domain.EquipmentCategory) ([]*domain.EquipmentItem, error)
	getActiveByCategory          func(category domain.EquipmentCategory) ([]*domain.AssignmentRecord, error)
	getActiveByEvent             func(eventID int64) ([]*domain.AssignmentRecord, error)
	insertIfAvailable            func(rec *domain.AssignmentRecord) error
	returnAssignment             func(id int64, note string) (*domain.AssignmentRecord, error)
}

func (m *mockStore) GetUserByID(id int64) (*domain.User, error) {
	return m.getUserByID(id)
}

func (m *mockStore) GetEquipmentByID(id int64) (*domain.EquipmentItem, error) {
	return m.getEquipmentByID(id)
}

func (m *mockStore) GetActiveEquipmentByCategory(category domain.EquipmentCategory) ([]*domain.EquipmentItem, error) {
	return m.getActiveEquipmentByCategory(category)
}

func (m *mockStore) GetActiveAssignmentsByCategory(category domain.EquipmentCategory) ([]*domain.AssignmentRecord, error) {
	return m.getActiveByCategory(category)
}

func (m *mockStore) GetActiveAssignmentsByEvent(eventID int64) ([]*domain.AssignmentRecord, error) {
	return m.getActiveByEvent(eventID)
}

func (m *mockStore) InsertAssignmentIfAvailable(rec *domain.AssignmentRecord) error {
	return m.insertIfAvailable(rec)
}

func (m *mockStore) ReturnAssignment(id int64, note string) (*domain.AssignmentRecord, error) {
	return m.returnAssignment(id, note)
}

func activeUser(id int64) func(int64) (*domain.User, error) {
	return func(got int64) (*domain.User, error) {
		if got != id {
			return nil, sql.ErrNoRows
		}
		return &domain.User{ID: id, IsActive: true}, nil
	}
}

func activeCamera(ids ...int64) func(int64) (*domain.EquipmentItem, error) {
	known := make(map[int64]bool)
	for _, id := range ids {
		known[id] = true
	}
	return func(id int64) (*domain.EquipmentItem, error) {
		if !known[id] {
			return nil, sql.ErrNoRows
		}
		return &domain.EquipmentItem{ID: id, Category: domain.CategoryCamera, IsActive: true}, nil
	}
}

func TestManagerAvailable(t *testing.T) {
	end := at(13)
	store := &mockStore{
		getActiveEquipmentByCategory: func(category domain.EquipmentCategory) ([]*domain.EquipmentItem, error) {
			if category != domain.CategoryCamera {
				t.Errorf("category = %s, want camera", category)
			}
			return cameras(1, 2), nil
		},
		getActiveByCategory: func(domain.EquipmentCategory) ([]*domain.AssignmentRecord, error) {
			return []*domain.AssignmentRecord{
				{EquipmentID: 1, WindowStart: at(10), WindowEnd: atPtr(12)},
			}, nil
		},
	}

	m := NewManager(store)
	got, err := m.Available(domain.CategoryCamera, Window{Start: at(9), End: &end})
	if err != nil {
		t.Fatalf("Available() error = %v", err)
	}
	if !equalIDs(ids(got), []int64{2}) {
		t.Errorf("Available() = %v, want [2]", ids(got))
	}
}

func TestManagerCreateForShift(t *testing.T) {
	window := Window{Start: at(9), End: atPtr(13)}

	t.Run("时间段非法时整个操作失败", func(t *testing.T) {
		m := NewManager(&mockStore{})
		_, _, err := m.CreateForShift(CreateForShiftParams{
			HolderID:     1,
			Window:       Window{Start: at(13), End: atPtr(9)},
			EquipmentIDs: []int64{1},
		})
		if !errors.Is(err, domain.ErrInvalidWindow) {
			t.Errorf("err = %v, want ErrInvalidWindow", err)
		}
	})

	t.Run("借用人不存在时整个操作失败", func(t *testing.T) {
		m := NewManager(&mockStore{
			getUserByID: func(int64) (*domain.User, error) { return nil, sql.ErrNoRows },
		})
		_, _, err := m.CreateForShift(CreateForShiftParams{
			HolderID:     99,
			Window:       window,
			EquipmentIDs: []int64{1},
		})
		if !errors.Is(err, domain.ErrUnknownHolder) {
			t.Errorf("err = %v, want ErrUnknownHolder", err)
		}
	})

	t.Run("借用人已停用时整个操作失败", func(t *testing.T) {
		m := NewManager(&mockStore{
			getUserByID: func(id int64) (*domain.User, error) {
				return &domain.User{ID: id, IsActive: false}, nil
			},
		})
		_, _, err := m.CreateForShift(CreateForShiftParams{
			HolderID:     1,
			Window:       window,
			EquipmentIDs: []int64{1},
		})
		if !errors.Is(err, domain.ErrHolderInactive) {
			t.Errorf("err = %v, want ErrHolderInactive", err)
		}
	})

	t.Run("单个器材的失败不影响其他槽位", func(t *testing.T) {
		store := &mockStore{
			getUserByID:      activeUser(1),
			getEquipmentByID: activeCamera(1, 2),
			insertIfAvailable: func(rec *domain.AssignmentRecord) error {
				if rec.EquipmentID == 2 {
					return domain.ErrEquipmentUnavailable
				}
				return nil
			},
		}

		m := NewManager(store)
		created, failures, err := m.CreateForShift(CreateForShiftParams{
			HolderID:     1,
			Window:       window,
			EquipmentIDs: []int64{1, 2, 3}, // 3 不存在
		})
		if err != nil {
			t.Fatalf("CreateForShift() error = %v", err)
		}

		if len(created) != 1 || created[0].EquipmentID != 1 {
			t.Errorf("created = %+v, want 仅器材 1", created)
		}
		if len(failures) != 2 {
			t.Fatalf("failures = %+v, want 2 条", failures)
		}
		if failures[0].EquipmentID != 2 || failures[0].Reason != domain.ErrEquipmentUnavailable.Error() {
			t.Errorf("failures[0] = %+v", failures[0])
		}
		if failures[1].EquipmentID != 3 || failures[1].Reason != domain.ErrUnknownEquipment.Error() {
			t.Errorf("failures[1] = %+v", failures[1])
		}
	})

	t.Run("已停用的器材记为槽位失败", func(t *testing.T) {
		store := &mockStore{
			getUserByID: activeUser(1),
			getEquipmentByID: func(id int64) (*domain.EquipmentItem, error) {
				return &domain.EquipmentItem{ID: id, IsActive: false}, nil
			},
		}

		m := NewManager(store)
		created, failures, err := m.CreateForShift(CreateForShiftParams{
			HolderID:     1,
			Window:       window,
			EquipmentIDs: []int64{1},
		})
		if err != nil {
			t.Fatalf("CreateForShift() error = %v", err)
		}
		if len(created) != 0 || len(failures) != 1 {
			t.Fatalf("created = %v, failures = %v", created, failures)
		}
		if failures[0].Reason != domain.ErrEquipmentInactive.Error() {
			t.Errorf("failures[0].Reason = %s", failures[0].Reason)
		}
	})
}

func TestManagerReplaceAllForEvent(t *testing.T) {
	eventID := int64(7)

	t.Run("先归还再按新排班重建", func(t *testing.T) {
		var mu sync.Mutex
		returned := make([]int64, 0)
		inserted := make([]*domain.AssignmentRecord, 0)

		store := &mockStore{
			getActiveByEvent: func(id int64) ([]*domain.AssignmentRecord, error) {
				if id != eventID {
					t.Errorf("eventID = %d, want %d", id, eventID)
				}
				return []*domain.AssignmentRecord{{ID: 101}, {ID: 102}}, nil
			},
			returnAssignment: func(id int64, note string) (*domain.AssignmentRecord, error) {
				mu.Lock()
				defer mu.Unlock()
				returned = append(returned, id)
				return &domain.AssignmentRecord{ID: id}, nil
			},
			getUserByID:      activeUser(1),
			getEquipmentByID: activeCamera(1, 2),
			insertIfAvailable: func(rec *domain.AssignmentRecord) error {
				mu.Lock()
				defer mu.Unlock()
				inserted = append(inserted, rec)
				return nil
			},
		}

		days := []domain.EventDay{
			{
				Date: "2026-03-14",
				Shifts: []domain.EventShift{
					{HolderID: 1, StartTime: "09:00", EndTime: "13:00", ShiftType: domain.ShiftTypeRoutine, Equipment: domain.ShiftEquipment{CameraID: idPtr(1)}},
					{HolderID: 1, StartTime: "13:00", EndTime: "18:00", ShiftType: domain.ShiftTypeRoutine, Equipment: domain.ShiftEquipment{CameraID: idPtr(2)}},
					{HolderID: 1, StartTime: "18:00", EndTime: "20:00", ShiftType: domain.ShiftTypeAdHoc}, // 没选器材，跳过
				},
			},
		}

		m := NewManager(store)
		batch, err := m.ReplaceAllForEvent(eventID, days)
		if err != nil {
			t.Fatalf("ReplaceAllForEvent() error = %v", err)
		}

		if len(returned) != 2 {
			t.Errorf("应归还 2 条旧记录，got %v", returned)
		}
		if len(inserted) != 2 {
			t.Errorf("应新建 2 条记录，got %d", len(inserted))
		}
		if !batch.AllSucceeded() {
			t.Errorf("batch.Failed = %+v, want 空", batch.Failed)
		}
		if len(batch.Succeeded) != 2 {
			t.Errorf("batch.Succeeded = %d, want 2", len(batch.Succeeded))
		}

		// 每个班次有独立的 shiftRef，同一班次内相同
		refs := make(map[string]bool)
		for _, rec := range batch.Succeeded {
			if rec.ShiftRef == nil {
				t.Fatal("ShiftRef 不应为 nil")
			}
			refs[*rec.ShiftRef] = true
			if rec.EventID == nil || *rec.EventID != eventID {
				t.Errorf("EventID = %v, want %d", rec.EventID, eventID)
			}
		}
		if len(refs) != 2 {
			t.Errorf("两个班次应有不同的 shiftRef，got %v", refs)
		}
	})

	t.Run("归还时撞上已归还的记录不算失败", func(t *testing.T) {
		store := &mockStore{
			getActiveByEvent: func(int64) ([]*domain.AssignmentRecord, error) {
				return []*domain.AssignmentRecord{{ID: 101}}, nil
			},
			returnAssignment: func(id int64, note string) (*domain.AssignmentRecord, error) {
				return nil, domain.ErrAssignmentReturned
			},
		}

		m := NewManager(store)
		batch, err := m.ReplaceAllForEvent(eventID, nil)
		if err != nil {
			t.Fatalf("ReplaceAllForEvent() error = %v", err)
		}
		if !batch.AllSucceeded() {
			t.Errorf("batch.Failed = %+v, want 空", batch.Failed)
		}
	})

	t.Run("单个班次的失败不影响其他班次", func(t *testing.T) {
		var mu sync.Mutex
		inserted := 0

		store := &mockStore{
			getActiveByEvent: func(int64) ([]*domain.AssignmentRecord, error) {
				return nil, nil
			},
			getUserByID: func(id int64) (*domain.User, error) {
				if id == 2 {
					return nil, sql.ErrNoRows
				}
				return &domain.User{ID: id, IsActive: true}, nil
			},
			getEquipmentByID: activeCamera(1, 2),
			insertIfAvailable: func(rec *domain.AssignmentRecord) error {
				mu.Lock()
				defer mu.Unlock()
				inserted++
				return nil
			},
		}

		days := []domain.EventDay{
			{
				Date: "2026-03-14",
				Shifts: []domain.EventShift{
					{HolderID: 1, StartTime: "09:00", EndTime: "13:00", Equipment: domain.ShiftEquipment{CameraID: idPtr(1)}},
					{HolderID: 2, StartTime: "13:00", EndTime: "18:00", Equipment: domain.ShiftEquipment{CameraID: idPtr(2)}}, // 借用人不存在
				},
			},
		}

		m := NewManager(store)
		batch, err := m.ReplaceAllForEvent(eventID, days)
		if err != nil {
			t.Fatalf("ReplaceAllForEvent() error = %v", err)
		}

		if inserted != 1 {
			t.Errorf("inserted = %d, want 1", inserted)
		}
		if len(batch.Succeeded) != 1 {
			t.Errorf("batch.Succeeded = %d, want 1", len(batch.Succeeded))
		}
		if len(batch.Failed) != 1 {
			t.Fatalf("batch.Failed = %+v, want 1 条", batch.Failed)
		}
		failure := batch.Failed[0]
		if failure.HolderID != 2 || failure.ShiftIndex != 1 || failure.Date != "2026-03-14" {
			t.Errorf("failure = %+v", failure)
		}
		if failure.Reason != domain.ErrUnknownHolder.Error() {
			t.Errorf("failure.Reason = %s", failure.Reason)
		}
	})

	t.Run("班次时间非法时所有槽位记为失败", func(t *testing.T) {
		store := &mockStore{
			getActiveByEvent: func(int64) ([]*domain.AssignmentRecord, error) {
				return nil, nil
			},
		}

		days := []domain.EventDay{
			{
				Date: "2026-03-14",
				Shifts: []domain.EventShift{
					{HolderID: 1, StartTime: "13:00", EndTime: "09:00", Equipment: domain.ShiftEquipment{CameraID: idPtr(1), LensID: idPtr(2)}},
				},
			},
		}

		m := NewManager(store)
		batch, err := m.ReplaceAllForEvent(eventID, days)
		if err != nil {
			t.Fatalf("ReplaceAllForEvent() error = %v", err)
		}
		if len(batch.Failed) != 2 {
			t.Fatalf("batch.Failed = %+v, want 2 条", batch.Failed)
		}
		for _, failure := range batch.Failed {
			if failure.Reason != domain.ErrInvalidWindow.Error() {
				t.Errorf("failure.Reason = %s", failure.Reason)
			}
		}
	})
}

func TestDayWindow(t *testing.T) {
	t.Run("正常换算", func(t *testing.T) {
		window, err := DayWindow("2026-03-14", "09:00", "13:00")
		if err != nil {
			t.Fatalf("DayWindow() error = %v", err)
		}

		wantStart := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
		if !window.Start.Equal(wantStart) {
			t.Errorf("Start = %v, want %v", window.Start, wantStart)
		}
		if window.End == nil {
			t.Fatal("End 不应为 nil")
		}
		wantEnd := time.Date(2026, 3, 14, 13, 0, 0, 0, time.Local)
		if !window.End.Equal(wantEnd) {
			t.Errorf("End = %v, want %v", *window.End, wantEnd)
		}
	})

	tests := []struct {
		name      string
		date      string
		startTime string
		endTime   string
	}{
		{name: "日期格式错误", date: "2026/03/14", startTime: "09:00", endTime: "13:00"},
		{name: "时间格式错误", date: "2026-03-14", startTime: "九点", endTime: "13:00"},
		{name: "开始不早于结束", date: "2026-03-14", startTime: "13:00", endTime: "09:00"},
		{name: "零长度班次", date: "2026-03-14", startTime: "09:00", endTime: "09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DayWindow(tt.date, tt.startTime, tt.endTime); !errors.Is(err, domain.ErrInvalidWindow) {
				t.Errorf("err = %v, want ErrInvalidWindow", err)
			}
		})
	}
}

func TestManagerReturnOne(t *testing.T) {
	t.Run("归还成功", func(t *testing.T) {
		store := &mockStore{
			returnAssignment: func(id int64, note string) (*domain.AssignmentRecord, error) {
				returnedAt := at(12)
				return &domain.AssignmentRecord{ID: id, ReturnNote: &note, ReturnedAt: &returnedAt}, nil
			},
		}

		m := NewManager(store)
		rec, err := m.ReturnOne(42, "完好归还")
		if err != nil {
			t.Fatalf("ReturnOne() error = %v", err)
		}
		if !rec.IsReturned() {
			t.Error("记录应已归还")
		}
		if rec.ReturnNote == nil || *rec.ReturnNote != "完好归还" {
			t.Errorf("ReturnNote = %v", rec.ReturnNote)
		}
	})

	t.Run("重复归还报错", func(t *testing.T) {
		store := &mockStore{
			returnAssignment: func(int64, string) (*domain.AssignmentRecord, error) {
				return nil, domain.ErrAssignmentReturned
			},
		}

		m := NewManager(store)
		if _, err := m.ReturnOne(42, ""); !errors.Is(err, domain.ErrAssignmentReturned) {
			t.Errorf("err = %v, want ErrAssignmentReturned", err)
		}
	})
}
