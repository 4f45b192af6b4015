package csvexport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"

	"review_insights/internal/domain"
)

// Header is the column order of every export.
var Header = []string{"pk", "title", "review_text", "date", "rating", "source", "reviewer", "sentiment", "sentiment_score"}

// Sink writes each run to <dir>/bestbuy_reviews_<product>.csv, replacing an earlier file.
type Sink struct {
	dir string
}

func New(dir string) *Sink { return &Sink{dir: dir} }

func FileName(productID string) string {
	return fmt.Sprintf("bestbuy_reviews_%s.csv", productID)
}

func (s *Sink) Path(productID string) string { return filepath.Join(s.dir, FileName(productID)) }

// Publish writes through a temp file so readers never see a half-written export.
func (s *Sink) Publish(ctx context.Context, rep domain.Report) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, FileName(rep.ProductID)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Write(tmp, rep.Reviews); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	path := s.Path(rep.ProductID)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	log.Info().Str("file", path).Int("rows", len(rep.Reviews)).Msg("csv written")
	return nil
}

// Write emits the header and one row per review. Absent values are empty cells.
func Write(out io.Writer, rs []domain.Review) error {
	w := csv.NewWriter(out)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, r := range rs {
		if err := w.Write(Row(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func Row(r domain.Review) []string {
	return []string{
		opt(r.PK),
		opt(r.Title),
		r.Text,
		opt(r.Date),
		optFloat(r.Rating),
		r.Source,
		opt(r.Reviewer),
		string(r.Sentiment),
		strconv.FormatFloat(r.SentimentScore, 'f', -1, 64),
	}
}

func opt(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func optFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
