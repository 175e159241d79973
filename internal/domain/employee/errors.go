package employee

import "errors"

var (
	ErrEmployeeNotFound            = errors.New("employee not found")
	ErrTimeRecorderIDExists        = errors.New("time recorder id already in use by an active employee")
	ErrOfficerEmploymentInsurance  = errors.New("officers are not eligible for employment insurance")
	ErrEmployeeAlreadySeparated    = errors.New("employee is already separated")
	ErrStandardMonthlyNotPositive  = errors.New("standard monthly remuneration must be positive for insured employees")
	ErrAverageMonthlyHoursRequired = errors.New("average monthly hours must be positive")
)
