package sqlite

import (
	"database/sql/driver"
	"fmt"

	"golang.org/x/text/cases"
	moderncsqlite "modernc.org/sqlite"
)

// foldFunc is the SQL name of the Unicode case-fold scalar function. SQLite's
// own lower() and LIKE fold ASCII letters only.
const foldFunc = "casefold"

func init() {
	if err := moderncsqlite.RegisterDeterministicScalarFunction(foldFunc, 1, foldValue); err != nil {
		panic(fmt.Sprintf("sqlite: register %s: %v", foldFunc, err))
	}
}

// foldValue implements casefold(x). NULL stays NULL.
func foldValue(_ *moderncsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return foldString(v), nil
	case []byte:
		return foldString(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", foldFunc, v)
	}
}

// foldString applies full Unicode case folding, so "Émincé" and "éMINCÉ" compare equal.
// A Caser holds state, so each call gets its own.
func foldString(s string) string {
	return cases.Fold().String(s)
}
