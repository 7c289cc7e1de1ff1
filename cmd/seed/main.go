package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/jungsanbot/backend/internal/config"
	"github.com/jungsanbot/backend/internal/repository"
	"github.com/jungsanbot/backend/internal/seed"
	"github.com/jungsanbot/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var out string
	var password string
	var start string

	flag.IntVar(&op, "op", 0, "실행할 작업 (1: 무작위 관리자 추가, 2: 샘플 정산 파일 생성)")
	flag.IntVar(&n, "n", 5, "생성할 관리자 또는 라이더 수")
	flag.StringVar(&out, "out", "sample_settlement.xlsx", "샘플 정산 파일 경로 (op 2)")
	flag.StringVar(&password, "password", "1234", "샘플 정산 파일 비밀번호 (op 2)")
	flag.StringVar(&start, "start", time.Now().AddDate(0, 0, -7).Format(utils.DateLayout), "샘플 주문 시작일 YYYY-MM-DD (op 2)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if n <= 0 {
		slog.Error("n 은 1 이상이어야 합니다")
		os.Exit(1)
	}

	switch op {
	case 0:
		slog.Error("작업이 지정되지 않았습니다")
	case 1:
		seedUsers(n)
	case 2:
		startDate, err := time.Parse(utils.DateLayout, start)
		if err != nil {
			slog.Error("시작일 형식이 올바르지 않습니다", slog.String("start", start))
			os.Exit(1)
		}

		data, err := seed.BuildSettlementWorkbook(seed.RandomSettlementWorkbook(n, startDate), password)
		if err != nil {
			slog.Error("샘플 정산 파일을 만들 수 없습니다", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			slog.Error("샘플 정산 파일을 쓸 수 없습니다", slog.String("error", err.Error()))
			os.Exit(1)
		}

		slog.Info("샘플 정산 파일 생성 완료", slog.String("out", out), slog.Int("riders", n))
	default:
		slog.Error("알 수 없는 작업입니다", slog.Int("op", op))
	}
}

func seedUsers(n int) {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("설정을 읽을 수 없습니다", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		slog.Error("데이터베이스 연결 풀을 만들 수 없습니다", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		slog.Error("데이터베이스에 연결할 수 없습니다", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	cnt := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("무작위 관리자를 만들 수 없습니다", slog.String("error", err.Error()))
			continue
		}

		if err := repo.CreateUser(user); err != nil {
			slog.Error("관리자를 추가할 수 없습니다", slog.String("error", err.Error()))
			continue
		}

		cnt++
	}

	slog.Info("관리자 추가 완료", slog.Int("count", cnt))
}
