package domain

import "time"

type ShiftType string

const (
	ShiftTypeRoutine ShiftType = "例行"
	ShiftTypeAdHoc   ShiftType = "临时"
)

// ShiftEquipment 是一个班次各器材槽位的选择，字段为 nil 表示该槽位未选择器材
type ShiftEquipment struct {
	CameraID  *int64 `json:"cameraID,omitempty"`
	LensID    *int64 `json:"lensID,omitempty"`
	AdapterID *int64 `json:"adapterID,omitempty"`
	SDCardID  *int64 `json:"sdCardID,omitempty"`
}

// IDs 按固定顺序返回所有已选择的器材 ID
func (se ShiftEquipment) IDs() []int64 {
	ids := make([]int64, 0, 4)
	for _, id := range []*int64{se.CameraID, se.LensID, se.AdapterID, se.SDCardID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

func (se ShiftEquipment) IsEmpty() bool {
	return len(se.IDs()) == 0
}

// PresetProfile 是活动级别的预设器材配置，会自动应用到例行班次上。
// 存储卡有意不参与预设，必须每个班次单独选择。
type PresetProfile struct {
	CameraID  *int64 `json:"cameraID,omitempty"`
	LensID    *int64 `json:"lensID,omitempty"`
	AdapterID *int64 `json:"adapterID,omitempty"`
}

type EventShift struct {
	ID        int64          `json:"id"`
	HolderID  int64          `json:"holderID"`
	StartTime string         `json:"startTime"` // HH:MM，当天营业时间
	EndTime   string         `json:"endTime"`   // HH:MM
	ShiftType ShiftType      `json:"shiftType"`
	Note      string         `json:"note"`
	Equipment ShiftEquipment `json:"equipment"`
}

type EventDay struct {
	ID     int64        `json:"id"`
	Date   string       `json:"date"` // YYYY-MM-DD
	Note   string       `json:"note"`
	Shifts []EventShift `json:"shifts"`
}

type Event struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Preset      PresetProfile `json:"preset"`
	Days        []EventDay    `json:"days"`
	CreatedAt   time.Time     `json:"createdAt"`
	Version     int32         `json:"-"`
}
