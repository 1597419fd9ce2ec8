package scheduling

import (
	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

// ApplyPreset 把活动的预设器材配置应用到一个新建班次上。
// 只有例行班次会套用预设；预设中缺失的槽位保持空缺，存储卡永远不参与预设。
// 这里不做可用性检查：预设的器材可能在后续的可用性校验中被拒绝，
// 那是正常的槽位级"不可用"结果，不是硬性失败。
func ApplyPreset(profile domain.PresetProfile, shiftType domain.ShiftType) domain.ShiftEquipment {
	if shiftType != domain.ShiftTypeRoutine {
		return domain.ShiftEquipment{}
	}

	return domain.ShiftEquipment{
		CameraID:  profile.CameraID,
		LensID:    profile.LensID,
		AdapterID: profile.AdapterID,
	}
}
