package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"review_insights/internal/domain"
)

const dateLayout = "2006-01-02"

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valDate(p *string) any {
	if p == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, *p)
	if err != nil {
		return nil
	}
	return t
}

// Open connects with the options the repo relies on: parsed DATE/DATETIME columns in UTC.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Repo stores finished runs. It implements domain.RunStore and domain.Sink.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// SaveRun writes the run header and all of its reviews in one transaction.
func (r *Repo) SaveRun(ctx context.Context, rep domain.Report) (int64, error) {
	ins, err := json.Marshal(rep.Insights)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var fetchErr any
	if rep.FetchError != "" {
		fetchErr = rep.FetchError
	}
	res, err := tx.ExecContext(ctx, insertRunSQL,
		rep.ProductID,
		string(rep.Sort),
		rep.StartedAt.UTC(),
		rep.FinishedAt.UTC(),
		rep.Pages,
		string(rep.Stop),
		fetchErr,
		rep.Insights.TotalReviews,
		string(ins),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for start := 0; start < len(rep.Reviews); start += reviewBatch {
		end := min(start+reviewBatch, len(rep.Reviews))
		if err := insertReviews(ctx, tx, runID, start, rep.Reviews[start:end]); err != nil {
			return 0, fmt.Errorf("insert reviews %d-%d: %w", start, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

func insertReviews(ctx context.Context, tx *sql.Tx, runID int64, offset int, rs []domain.Review) error {
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*11) // 11 params per row
	for i, rv := range rs {
		values = append(values, reviewPlaceholders)
		args = append(args,
			runID,                // run_id
			offset+i,             // seq
			valStr(rv.PK),        // pk
			valStr(rv.Title),     // title
			rv.Text,              // text
			valDate(rv.Date),     // review_date
			valF64(rv.Rating),    // rating
			rv.Source,            // source
			valStr(rv.Reviewer),  // reviewer
			string(rv.Sentiment), // sentiment
			rv.SentimentScore,    // sentiment_score
		)
	}
	_, err := tx.ExecContext(ctx, insertReviewsPrefix+strings.Join(values, ","), args...)
	return err
}

// Publish lets the repo act as a pipeline sink.
func (r *Repo) Publish(ctx context.Context, rep domain.Report) error {
	id, err := r.SaveRun(ctx, rep)
	if err != nil {
		return err
	}
	log.Info().Int64("run_id", id).Str("product", rep.ProductID).Int("reviews", len(rep.Reviews)).Msg("run stored")
	return nil
}

// LatestRun returns the newest run header for a product. Reviews are not loaded.
func (r *Repo) LatestRun(ctx context.Context, productID string) (domain.Report, error) {
	row := r.db.QueryRowContext(ctx, latestRunSQL, productID)

	var rep domain.Report
	var sortBy, stop string
	var fetchErr sql.NullString
	var insightsJSON []byte
	if err := row.Scan(
		&rep.RunID,
		&rep.ProductID,
		&sortBy,
		&rep.StartedAt,
		&rep.FinishedAt,
		&rep.Pages,
		&stop,
		&fetchErr,
		&insightsJSON,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Report{}, domain.ErrNotFound
		}
		return domain.Report{}, err
	}
	rep.Sort = domain.SortOrder(sortBy)
	rep.Stop = domain.StopReason(stop)
	if fetchErr.Valid {
		rep.FetchError = fetchErr.String
	}
	if err := json.Unmarshal(insightsJSON, &rep.Insights); err != nil {
		return domain.Report{}, fmt.Errorf("decode insights of run %d: %w", rep.RunID, err)
	}
	return rep, nil
}

// ListReviews returns a run's reviews in API order. Limit <= 0 means no limit.
func (r *Repo) ListReviews(ctx context.Context, runID int64, q domain.ReviewsQuery) ([]domain.Review, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 1<<31 - 1
	}
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, runID, string(q.Sentiment), string(q.Sentiment), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		var (
			pk, title, reviewer sql.NullString
			date                sql.NullTime
			rating              sql.NullFloat64
			sentiment           string
		)
		if err := rows.Scan(
			&pk,
			&title,
			&rv.Text,
			&date,
			&rating,
			&rv.Source,
			&reviewer,
			&sentiment,
			&rv.SentimentScore,
		); err != nil {
			return nil, err
		}

		if pk.Valid {
			s := pk.String
			rv.PK = &s
		}
		if title.Valid {
			s := title.String
			rv.Title = &s
		}
		if date.Valid {
			s := date.Time.Format(dateLayout)
			rv.Date = &s
		}
		if rating.Valid {
			f := rating.Float64
			rv.Rating = &f
		}
		if reviewer.Valid {
			s := reviewer.String
			rv.Reviewer = &s
		}
		rv.Sentiment = domain.Sentiment(sentiment)

		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
