package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jungsanbot/backend/internal/domain"
)

const acceptedAtLayout = "2006-01-02 15:04:05"

func (r *Repository) InsertSettlementBatch(batch *domain.SettlementBatch) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	batch.SummaryCount = len(batch.Summaries)
	batch.DetailCount = len(batch.Details)
	batch.MissionCount = len(batch.Missions)

	query := `
		INSERT INTO settlement_batches (branch_name, file_name, period_start, period_end, summary_count, detail_count, mission_count, uploaded_by)
		VALUES ($1, $2, $3::date, $4::date, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`
	args := []any{batch.BranchName, batch.FileName, batch.PeriodStart, batch.PeriodEnd, batch.SummaryCount, batch.DetailCount, batch.MissionCount, batch.UploadedBy}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&batch.ID, &batch.CreatedAt, &batch.Version); err != nil {
		return err
	}

	for i, s := range batch.Summaries {
		query := `
			INSERT INTO rider_settlement_summaries (batch_id, row_no, license_id, rider_name, total_orders)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query, batch.ID, i, s.LicenseID, s.RiderName, s.TotalOrders); err != nil {
			return err
		}
	}

	for i, d := range batch.Details {
		query := `
			INSERT INTO rider_order_details (batch_id, row_no, license_id, rider_name, rider_suffix, branch_name, order_no, accepted_at, peak_time, judgement_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::date)
		`
		acceptedAt := time.UnixMilli(d.AcceptedAtMs).UTC()
		args := []any{batch.ID, i, d.LicenseID, d.RiderName, d.RiderSuffix, d.BranchName, d.OrderNo, acceptedAt, d.PeakTime, d.JudgementDate}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	for i, m := range batch.Missions {
		payload, err := json.Marshal(m)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO settlement_missions (batch_id, row_no, payload)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, batch.ID, i, payload); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetAllSettlementBatches 는 기간이 [from, to] 와 겹치는 배치를 돌려준다. 빈 값은 조건에서 빠진다.
func (r *Repository) GetAllSettlementBatches(from, to, branchName string) ([]*domain.SettlementBatch, error) {
	query := `
		SELECT
			id, branch_name, file_name,
			to_char(period_start, 'YYYY-MM-DD'), to_char(period_end, 'YYYY-MM-DD'),
			summary_count, detail_count, mission_count, COALESCE(uploaded_by, 0), created_at, version
		FROM settlement_batches
		WHERE (NULLIF($1, '')::date IS NULL OR period_end >= NULLIF($1, '')::date)
		  AND (NULLIF($2, '')::date IS NULL OR period_start <= NULLIF($2, '')::date)
		  AND ($3 = '' OR branch_name = $3)
		ORDER BY period_start DESC, id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to, branchName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]*domain.SettlementBatch, 0)
	for rows.Next() {
		b := &domain.SettlementBatch{}
		if err := rows.Scan(batchDst(b)...); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return batches, nil
}

func (r *Repository) GetSettlementBatchMeta(id int64) (*domain.SettlementBatch, error) {
	query := `
		SELECT
			id, branch_name, file_name,
			to_char(period_start, 'YYYY-MM-DD'), to_char(period_end, 'YYYY-MM-DD'),
			summary_count, detail_count, mission_count, COALESCE(uploaded_by, 0), created_at, version
		FROM settlement_batches
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	b := &domain.SettlementBatch{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(batchDst(b)...); err != nil {
		return nil, err
	}

	return b, nil
}

// GetSettlementBatchRows 는 메타데이터가 채워진 배치에 요약, 상세, 미션 행을 붙인다.
func (r *Repository) GetSettlementBatchRows(batch *domain.SettlementBatch) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	summaries, err := r.getBatchSummaries(ctx, batch.ID)
	if err != nil {
		return err
	}
	details, err := r.getBatchDetails(ctx, batch.ID)
	if err != nil {
		return err
	}
	missions, err := r.getBatchMissions(ctx, batch.ID)
	if err != nil {
		return err
	}

	batch.Summaries = summaries
	batch.Details = details
	batch.Missions = missions

	return nil
}

func (r *Repository) getBatchSummaries(ctx context.Context, batchID int64) ([]domain.RiderSummary, error) {
	query := `
		SELECT license_id, rider_name, total_orders
		FROM rider_settlement_summaries
		WHERE batch_id = $1
		ORDER BY row_no
	`

	rows, err := r.dbpool.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.RiderSummary, 0)
	for rows.Next() {
		var s domain.RiderSummary
		if err := rows.Scan(&s.LicenseID, &s.RiderName, &s.TotalOrders); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func (r *Repository) getBatchDetails(ctx context.Context, batchID int64) ([]domain.OrderDetail, error) {
	query := `
		SELECT license_id, rider_name, rider_suffix, branch_name, order_no, accepted_at, peak_time, to_char(judgement_date, 'YYYY-MM-DD')
		FROM rider_order_details
		WHERE batch_id = $1
		ORDER BY row_no
	`

	rows, err := r.dbpool.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]domain.OrderDetail, 0)
	for rows.Next() {
		var (
			d          domain.OrderDetail
			acceptedAt time.Time
		)
		dst := []any{&d.LicenseID, &d.RiderName, &d.RiderSuffix, &d.BranchName, &d.OrderNo, &acceptedAt, &d.PeakTime, &d.JudgementDate}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		acceptedAt = acceptedAt.UTC()
		d.AcceptedAt = acceptedAt.Format(acceptedAtLayout)
		d.AcceptedAtMs = acceptedAt.UnixMilli()
		details = append(details, d)
	}

	return details, rows.Err()
}

func (r *Repository) getBatchMissions(ctx context.Context, batchID int64) ([]domain.MissionRow, error) {
	query := `
		SELECT payload
		FROM settlement_missions
		WHERE batch_id = $1
		ORDER BY row_no
	`

	rows, err := r.dbpool.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	missions := make([]domain.MissionRow, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		mission := domain.MissionRow{}
		if err := json.Unmarshal(payload, &mission); err != nil {
			return nil, err
		}
		missions = append(missions, mission)
	}

	return missions, rows.Err()
}

func (r *Repository) GetSettlementBatchDailyOrders(batchID int64) ([]domain.RiderDailyOrders, error) {
	query := `
		SELECT license_id, rider_name, to_char(judgement_date, 'YYYY-MM-DD'), COUNT(*)
		FROM rider_order_details
		WHERE batch_id = $1
		GROUP BY license_id, rider_name, judgement_date
		ORDER BY judgement_date, rider_name, license_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	daily := make([]domain.RiderDailyOrders, 0)
	for rows.Next() {
		var d domain.RiderDailyOrders
		if err := rows.Scan(&d.LicenseID, &d.RiderName, &d.JudgementDate, &d.Orders); err != nil {
			return nil, err
		}
		daily = append(daily, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return daily, nil
}

func (r *Repository) DeleteSettlementBatch(id int64) error {
	query := `
		DELETE FROM settlement_batches WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func batchDst(b *domain.SettlementBatch) []any {
	return []any{
		&b.ID, &b.BranchName, &b.FileName,
		&b.PeriodStart, &b.PeriodEnd,
		&b.SummaryCount, &b.DetailCount, &b.MissionCount, &b.UploadedBy, &b.CreatedAt, &b.Version,
	}
}
