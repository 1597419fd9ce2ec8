package seed

import (
	"log/slog"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
	"github.com/campus-media-dev/equipment-manager/backend/internal/repository"
)

// 媒体中心目前在册的器材清单，新环境初始化时一次性导入
var equipmentCatalog = []domain.EquipmentItem{
	{Name: "索尼 FX3", Serial: "CAM-001", Category: domain.CategoryCamera},
	{Name: "索尼 FX3", Serial: "CAM-002", Category: domain.CategoryCamera},
	{Name: "索尼 A7S3", Serial: "CAM-003", Category: domain.CategoryCamera},
	{Name: "佳能 R6", Serial: "CAM-004", Category: domain.CategoryCamera},
	{Name: "松下 S5M2", Serial: "CAM-005", Category: domain.CategoryCamera, Note: "取景器有划痕，不影响使用"},

	{Name: "适马 24-70 F2.8", Serial: "LEN-001", Category: domain.CategoryLens},
	{Name: "适马 24-70 F2.8", Serial: "LEN-002", Category: domain.CategoryLens},
	{Name: "索尼 16-35 GM", Serial: "LEN-003", Category: domain.CategoryLens},
	{Name: "腾龙 28-75 G2", Serial: "LEN-004", Category: domain.CategoryLens},
	{Name: "佳能 RF 50 F2.8", Serial: "LEN-005", Category: domain.CategoryLens},

	{Name: "佳能 EF-RF 转接环", Serial: "ADP-001", Category: domain.CategoryAdapter},
	{Name: "索尼 LA-EA5", Serial: "ADP-002", Category: domain.CategoryAdapter},
	{Name: "唯卓仕 EF-E II", Serial: "ADP-003", Category: domain.CategoryAdapter},

	{Name: "SanDisk 256G V90", Serial: "SDC-001", Category: domain.CategorySDCard},
	{Name: "SanDisk 256G V90", Serial: "SDC-002", Category: domain.CategorySDCard},
	{Name: "SanDisk 128G V60", Serial: "SDC-003", Category: domain.CategorySDCard},
	{Name: "Lexar 128G V60", Serial: "SDC-004", Category: domain.CategorySDCard},
	{Name: "Kingston 256G V60", Serial: "SDC-005", Category: domain.CategorySDCard},
}

// SeedEquipmentCatalog 把在册器材清单导入数据库。
// 编号是唯一键，重复执行时已存在的条目会报错跳过，不影响其余条目。
func SeedEquipmentCatalog(r *repository.Repository) {
	cnt := 0
	for i := range equipmentCatalog {
		item := equipmentCatalog[i]
		if err := r.CreateEquipment(&item); err != nil {
			slog.Error("无法插入器材", "serial", item.Serial, "error", err)
			continue
		}
		cnt++
	}

	slog.Info("器材清单导入完成", "count", cnt)
}
