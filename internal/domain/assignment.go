package domain

import "time"

// AssignmentRecord 是器材借用台账中的一条记录。
// ReturnedAt 为 nil 表示器材还在借用人手上；WindowEnd 为 nil 表示不定期借用。
type AssignmentRecord struct {
	ID          int64      `json:"id"`
	EquipmentID int64      `json:"equipmentID"`
	HolderID    int64      `json:"holderID"`
	EventID     *int64     `json:"eventID,omitempty"`
	ShiftRef    *string    `json:"shiftRef,omitempty"` // 仅用于把同一个班次产生的多条记录分组展示
	WindowStart time.Time  `json:"windowStart"`
	WindowEnd   *time.Time `json:"windowEnd,omitempty"`
	Note        string     `json:"note"`
	ReturnNote  *string    `json:"returnNote,omitempty"`
	ReturnedAt  *time.Time `json:"returnedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	Version     int32      `json:"-"`
}

// OverdueAssignment 是逾期提醒任务用到的连表结果
type OverdueAssignment struct {
	AssignmentID  int64
	EquipmentID   int64
	HolderID      int64
	WindowEnd     time.Time
	HolderName    string
	HolderEmail   string
	EquipmentName string
	Serial        string
}

func (a *AssignmentRecord) IsReturned() bool {
	return a.ReturnedAt != nil
}

// SlotFailure 描述单个器材槽位创建失败的原因
type SlotFailure struct {
	EquipmentID int64  `json:"equipmentID"`
	Reason      string `json:"reason"`
}

// BatchFailure 描述批量创建中某个班次的失败
type BatchFailure struct {
	Date        string `json:"date"`
	ShiftIndex  int    `json:"shiftIndex"`
	HolderID    int64  `json:"holderID"`
	EquipmentID int64  `json:"equipmentID"`
	Reason      string `json:"reason"`
}

// BatchResult 是批量创建借用记录的结果。
// 部分失败是正常的业务结果而不是异常：成功和失败的条目必须同时完整上报。
type BatchResult struct {
	Succeeded []*AssignmentRecord `json:"succeeded"`
	Failed    []BatchFailure      `json:"failed"`
}

func (br *BatchResult) AllSucceeded() bool {
	return len(br.Failed) == 0
}
