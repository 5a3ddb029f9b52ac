package questions

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/bluffr-backend/internal"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a bank from disk. The format follows the extension:
// .yaml/.yml for a list of {id, text, truth}, .csv for id,text,truth rows.
func LoadFile(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read question bank %s: %w", path, err)
		}
		return ParseYAML(data)
	case ".csv":
		return ParseCSV(f)
	default:
		return nil, fmt.Errorf("unsupported question bank format %q", ext)
	}
}

func ParseYAML(data []byte) (*Bank, error) {
	var qs []internal.Question
	if err := yaml.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("parse question bank yaml: %w", err)
	}
	return New(qs)
}

// ParseCSV reads id,text,truth rows. A leading header row is skipped, and
// malformed rows are logged and dropped.
func ParseCSV(r io.Reader) (*Bank, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse question bank csv: %w", err)
	}

	var qs []internal.Question
	for i, record := range records {
		if i == 0 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "id") {
			continue
		}
		if len(record) < 3 {
			log.Warn().Int("row", i).Strs("record", record).Msg("skipping short question row")
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			log.Warn().Int("row", i).Str("id", record[0]).Msg("skipping question row with invalid id")
			continue
		}

		qs = append(qs, internal.Question{
			ID:    id,
			Text:  record[1],
			Truth: record[2],
		})
	}

	return New(qs)
}
