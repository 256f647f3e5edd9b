package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2/log"
	_ "github.com/lib/pq"
	"github.com/sahilchouksey/admissions-api/config"
	"github.com/sahilchouksey/admissions-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported DB_DRIVER values
const (
	DriverPostgres = "postgres" // pgx through gorm.io/driver/postgres
	DriverPQ       = "pq"       // lib/pq behind the same GORM dialect
	DriverSQLite   = "sqlite"
)

type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore wraps an already opened connection
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// postgresDSN builds the key/value DSN from the discrete DB_* settings
func postgresDSN(env *config.EnviornmentVariable) string {
	if env.DB_DSN != "" {
		return env.DB_DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.DB_HOST,
		env.DB_USER_NAME,
		env.DB_PASSWORD,
		env.DB_NAME,
		env.DB_PORT,
		env.DB_SSL_MODE,
	)
}

// sqliteDSN defaults to a local file and makes sure foreign keys are enforced
func sqliteDSN(env *config.EnviornmentVariable) string {
	dsn := env.DB_DSN
	if dsn == "" {
		dsn = "file:admissions.db"
	}
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Dialector picks the GORM dialector for DB_DRIVER
func Dialector(env *config.EnviornmentVariable) (gorm.Dialector, error) {
	switch strings.ToLower(env.DB_DRIVER) {
	case "", DriverPostgres:
		return postgres.Open(postgresDSN(env)), nil
	case DriverPQ:
		return postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        postgresDSN(env),
		}), nil
	case DriverSQLite:
		return sqlite.Open(sqliteDSN(env)), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DB_DRIVER)
	}
}

// StartGORM opens the database selected by DB_DRIVER
func StartGORM(env *config.EnviornmentVariable) (*GORMStore, error) {
	dialector, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if env.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
		PrepareStmt:            true, // Prepare statements for better performance
	})
	if err != nil {
		log.Errorf("Unable to connect to %s with GORM: %v", dialector.Name(), err)
		return nil, err
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	if dialector.Name() == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Infof("Connected to %s database with GORM (driver %s)", dialector.Name(), env.DB_DRIVER)

	return &GORMStore{db: db}, nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Info("Running GORM AutoMigrate for all models...")

	if err := s.db.AutoMigrate(model.All()...); err != nil {
		log.Errorf("Error running AutoMigrate: %v", err)
		return err
	}

	log.Info("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Info("Closing GORM database connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in services and handlers
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
