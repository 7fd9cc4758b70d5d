package export

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/studentsql/studentsql/internal/query"
)

type studentRow struct {
	Name    string `parquet:"name"`
	Course  string `parquet:"course"`
	Section string `parquet:"section"`
	Marks   *int64 `parquet:"marks,optional"`
}

// EncodeStudents writes a STUDENT result set as Parquet. Columns are
// matched by name, so any column order the store returns is accepted.
func EncodeStudents(result query.Result) ([]byte, int64, error) {
	index := make(map[string]int, len(result.Columns))
	for i, column := range result.Columns {
		index[strings.ToUpper(column)] = i
	}
	for _, required := range []string{"NAME", "COURSE", "SECTION", "MARKS"} {
		if _, ok := index[required]; !ok {
			return nil, 0, fmt.Errorf("result is missing column %s", required)
		}
	}

	rows := make([]studentRow, 0, len(result.Rows))
	for i, values := range result.Rows {
		if len(values) != len(result.Columns) {
			return nil, 0, fmt.Errorf("row %d has %d values for %d columns", i, len(values), len(result.Columns))
		}
		marks, err := marksValue(values[index["MARKS"]])
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, studentRow{
			Name:    textValue(values[index["NAME"]]),
			Course:  textValue(values[index["COURSE"]]),
			Section: textValue(values[index["SECTION"]]),
			Marks:   marks,
		})
	}

	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[studentRow](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, 0, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, 0, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), int64(len(rows)), nil
}

func textValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func marksValue(value any) (*int64, error) {
	var marks int64
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int64:
		marks = v
	case int32:
		marks = int64(v)
	case int:
		marks = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("marks %v is not a whole number", v)
		}
		marks = int64(v)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("marks %q is not numeric", v)
		}
		marks = parsed
	default:
		return nil, fmt.Errorf("unsupported marks type %T", value)
	}
	return &marks, nil
}
