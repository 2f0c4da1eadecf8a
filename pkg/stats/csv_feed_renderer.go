package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/centavo/centavo/pkg/budget"
	log "github.com/sirupsen/logrus"
)

type FeedRenderer interface {
	RenderFeed(feed []budget.Transaction) (string, error)
}

type CsvFeedRendererImpl struct {
}

func NewCsvFeedRenderer() *CsvFeedRendererImpl {
	return &CsvFeedRendererImpl{}
}

// RenderFeed writes the transaction feed as CSV, one row per transaction in
// feed order (newest first).
func (t *CsvFeedRendererImpl) RenderFeed(feed []budget.Transaction) (string, error) {
	data := make([][]string, 0, len(feed)+1)
	data = append(data, []string{"Date", "Description", "Type", "Amount", "Item"})
	for _, tx := range feed {
		data = append(data, []string{
			tx.Date,
			tx.Description,
			string(tx.Kind),
			tx.Amount.StringFixed(2),
			strconv.Itoa(tx.ItemId),
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
