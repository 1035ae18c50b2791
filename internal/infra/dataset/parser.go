package dataset

import (
	"strings"

	"munhash/internal/domain/entity"
)

const (
	fieldDelimiter = ";"
	minFields      = 5
)

// ParseResult holds the records of a table plus the number of rows dropped.
type ParseResult struct {
	Records []entity.Record
	Dropped int
}

// Parse reads the TOM;IBGE;Nome(TOM);Nome(IBGE);UF table. The first line is a
// header when it contains the delimiter. Blank lines are ignored; rows with
// fewer than five fields are dropped and counted. A row with a blank IBGE code
// is kept so hashing rejects the run instead of losing the municipality.
func Parse(text string) ParseResult {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })

	if len(lines) > 0 && strings.Contains(lines[0], fieldDelimiter) {
		lines = lines[1:]
	}

	result := ParseResult{Records: make([]entity.Record, 0, len(lines))}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, fieldDelimiter)
		if len(parts) < minFields {
			result.Dropped++

			continue
		}

		record := entity.Record{
			Code:    strings.TrimSpace(parts[0]),
			ID:      strings.TrimSpace(parts[1]),
			Name:    strings.TrimSpace(parts[2]),
			AltName: strings.TrimSpace(parts[3]),
			Group:   strings.ToUpper(strings.TrimSpace(parts[4])),
		}
		result.Records = append(result.Records, record)
	}

	return result
}
