package mysql

const insertRunSQL = `
INSERT INTO scrape_runs
  (product_id, sort_by, started_at, finished_at, pages, stop_reason, fetch_error, total_reviews, insights)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO run_reviews\n  (run_id, seq, pk, title, `text`, review_date, rating, source, reviewer, sentiment, sentiment_score)\nVALUES "

const reviewPlaceholders = "(?,?,?,?,?,?,?,?,?,?,?)"

// rows per INSERT; keeps the statement well under the 65535 placeholder limit
const reviewBatch = 500

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const latestRunSQL = `
SELECT
  id,
  product_id,
  sort_by,
  started_at,
  finished_at,
  pages,
  stop_reason,
  fetch_error,
  insights
FROM scrape_runs
WHERE product_id = ?
ORDER BY id DESC
LIMIT 1
`

// Reviews come back in API order (seq). The sentiment filter is optional: '' matches all.
const listReviewsSQL = "SELECT pk, title, `text`, review_date, rating, source, reviewer, sentiment, sentiment_score\n" +
	"FROM run_reviews\n" +
	"WHERE run_id = ? AND (? = '' OR sentiment = ?)\n" +
	"ORDER BY seq\n" +
	"LIMIT ?"
