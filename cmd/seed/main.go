package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/campus-media-dev/equipment-manager/backend/internal/config"
	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
	"github.com/campus-media-dev/equipment-manager/backend/internal/repository"
	"github.com/campus-media-dev/equipment-manager/backend/internal/scheduling"
	"github.com/campus-media-dev/equipment-manager/backend/internal/seed"
	"github.com/campus-media-dev/equipment-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机器材, 3: 插入随机借用记录, 4: 导入在册器材清单)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的器材数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				category := domain.AllCategories[rand.Intn(len(domain.AllCategories))]
				item := utils.GenerateRandomEquipment(category)
				if err := repo.CreateEquipment(item); err != nil {
					slog.Error("无法插入器材", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入器材成功", slog.Int("count", n-cnt))
		}
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的借用记录数量")
			return
		}

		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取用户列表", slog.String("error", err.Error()))
			return
		}
		if len(users) == 0 {
			slog.Error("数据库中没有用户，请先插入用户")
			return
		}

		manager := scheduling.NewManager(repo)
		cnt := 0
		for i := 0; i < n; i++ {
			category := domain.AllCategories[rand.Intn(len(domain.AllCategories))]
			holder := users[rand.Intn(len(users))]

			// 从未来几天里随机挑一个借用时间段
			start := time.Now().Add(time.Duration(rand.Intn(72)) * time.Hour).Truncate(time.Hour)
			end := start.Add(time.Duration(rand.Intn(8)+1) * time.Hour)
			window := scheduling.Window{Start: start, End: &end}

			available, err := manager.Available(category, window)
			if err != nil {
				slog.Error("无法获取可用器材", slog.String("error", err.Error()))
				continue
			}
			if len(available) == 0 {
				continue
			}

			item := available[rand.Intn(len(available))]
			created, failures, err := manager.CreateForShift(scheduling.CreateForShiftParams{
				HolderID:     holder.ID,
				Window:       window,
				EquipmentIDs: []int64{item.ID},
				Note:         "随机测试数据",
			})
			if err != nil {
				slog.Error("无法插入借用记录", slog.String("error", err.Error()))
				continue
			}
			if len(failures) > 0 {
				slog.Error("无法插入借用记录", slog.String("error", failures[0].Reason))
				continue
			}

			cnt += len(created)
		}

		slog.Info("插入借用记录成功", slog.Int("count", cnt))
	case 4:
		seed.SeedEquipmentCatalog(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
