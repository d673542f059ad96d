// Package internal holds helpers shared by the database backends.
package internal

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/grabbiel/grabbieldb"
)

// FormatValue renders a driver-decoded cell as text. nil becomes NULL.
func FormatValue(v any) grabbieldb.Value {
	switch val := v.(type) {
	case nil:
		return grabbieldb.Value{Null: true}
	case string:
		return grabbieldb.Value{Text: val}
	case []byte:
		return grabbieldb.Value{Text: string(val)}
	case int64:
		return grabbieldb.Value{Text: strconv.FormatInt(val, 10)}
	case int32:
		return grabbieldb.Value{Text: strconv.FormatInt(int64(val), 10)}
	case float64:
		return grabbieldb.Value{Text: strconv.FormatFloat(val, 'g', -1, 64)}
	case bool:
		return grabbieldb.Value{Text: strconv.FormatBool(val)}
	case time.Time:
		return grabbieldb.Value{Text: val.Format(time.RFC3339Nano)}
	case [16]byte:
		return grabbieldb.Value{Text: uuid.UUID(val).String()}
	case driver.Valuer:
		inner, err := val.Value()
		if err != nil {
			return grabbieldb.Value{Text: fmt.Sprint(v)}
		}
		if _, again := inner.(driver.Valuer); again {
			return grabbieldb.Value{Text: fmt.Sprint(inner)}
		}
		return FormatValue(inner)
	default:
		return grabbieldb.Value{Text: fmt.Sprint(val)}
	}
}

// FormatRow renders every cell of a scanned row.
func FormatRow(cells []any) grabbieldb.Row {
	row := make(grabbieldb.Row, len(cells))
	for i, c := range cells {
		row[i] = FormatValue(c)
	}
	return row
}

// SortedColumns returns the keys of values in sorted order so statements are
// built deterministically.
func SortedColumns(values map[string]grabbieldb.Value) []string {
	cols := make([]string, 0, len(values))
	for name := range values {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}

// Arg converts a cell to a statement argument.
func Arg(v grabbieldb.Value) any {
	if v.Null {
		return nil
	}
	return v.Text
}
