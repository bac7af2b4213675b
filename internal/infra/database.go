package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fincalibro/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs
// AutoMigrate for all tables, then applies the idempotent SQL patches
// GORM cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration
// tests against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.UsuarioFinca{},
		&model.Entrada{},
		&model.Gasto{},
		&model.ConsumoInventario{},
		&model.Inventario{},
		&model.MovimientoCaja{},
		&model.Liquidacion{},
		&model.EntradaLiquidada{},
		&model.GastoLiquidado{},
		&model.InventarioUsado{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot
// express. The partial indexes back the two hottest queries: pending
// selection and balance reconstruction.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_entradas_pendientes') THEN
		    CREATE INDEX idx_entradas_pendientes
		        ON entradas (usuario_id, finca, fecha_entrada DESC)
		        WHERE liquidada = false;
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_gastos_pendientes') THEN
		    CREATE INDEX idx_gastos_pendientes
		        ON gastos (usuario_id, finca, fecha DESC)
		        WHERE liquidada = false;
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_fold') THEN
		    CREATE INDEX idx_movimientos_fold
		        ON movimientos_caja (usuario_id, finca, fecha);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
