package main

import (
	"fmt"
	"net/http"

	"github.com/paylane-hq/payroll-backend-go/internal/config"
	appHTTP "github.com/paylane-hq/payroll-backend-go/internal/handler/http"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/database"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/jwt"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/timekeeping"
	"github.com/paylane-hq/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/paylane-hq/payroll-backend-go/internal/service/attendance"
	employeeService "github.com/paylane-hq/payroll-backend-go/internal/service/employee"
	payrollService "github.com/paylane-hq/payroll-backend-go/internal/service/payroll"
	ratesService "github.com/paylane-hq/payroll-backend-go/internal/service/rates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	aggregateRepo := postgresql.NewAggregateRepository(db)
	quarantineRepo := postgresql.NewQuarantineRepository(db)
	snapshotRepo := postgresql.NewSnapshotRepository(db)
	rateConfigRepo := postgresql.NewRateConfigRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	timekeepingSource := timekeeping.NewHTTPSource(
		cfg.Timekeeping.BaseURL,
		cfg.Timekeeping.TenantID,
		cfg.Timekeeping.APIKey,
	)

	employeeSvc := employeeService.NewEmployeeService(employeeRepo, rateConfigRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		timekeepingSource,
		employeeRepo,
		aggregateRepo,
		quarantineRepo,
	)
	payrollSvc := payrollService.NewPayrollService(
		employeeRepo,
		aggregateRepo,
		quarantineRepo,
		snapshotRepo,
		rateConfigRepo,
	)
	configSvc := ratesService.NewConfigService(rateConfigRepo)

	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	ratesHandler := appHTTP.NewRatesHandler(configSvc)

	router := appHTTP.NewRouter(
		jwtService,
		employeeHandler,
		attendanceHandler,
		payrollHandler,
		ratesHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
