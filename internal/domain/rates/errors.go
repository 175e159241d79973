package rates

import "errors"

var (
	ErrConfigNotFound   = errors.New("rate configuration not found for period")
	ErrEmptyGradeTable  = errors.New("insurance grade table is empty")
	ErrGradeNotOnTable  = errors.New("standard monthly remuneration value is not on the grade table")
	ErrEmptyTaxBrackets = errors.New("withholding tax bracket table is empty")
)
