package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gasto is an expense. Valor is the direct (cash/labor) component; the
// inventory component lives in Consumos and is priced at settlement
// time against the current Inventario.Precio.
type Gasto struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UsuarioID     uuid.UUID            `gorm:"type:uuid;index:idx_gastos_scope;not null" json:"usuarioId"`
	Finca         string               `gorm:"type:varchar(100);index:idx_gastos_scope;not null" json:"finca"`
	Descripcion   string               `gorm:"type:varchar(200);not null" json:"descripcion"`
	Valor         decimal.Decimal      `gorm:"type:decimal(14,2);not null" json:"valor"`
	Fecha         time.Time            `gorm:"index;not null" json:"fecha"`
	Liquidada     bool                 `gorm:"index;default:false" json:"liquidada"`
	LiquidacionID *uuid.UUID           `gorm:"type:uuid;index" json:"liquidacionId,omitempty"`
	// FechaLiquidacion records when the settlement consumed the row.
	FechaLiquidacion *time.Time          `json:"fechaLiquidacion,omitempty"`
	Consumos         []ConsumoInventario `gorm:"foreignKey:GastoID;constraint:OnDelete:CASCADE" json:"consumos"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

func (Gasto) TableName() string { return "gastos" }

// ConsumoInventario is one inventory line consumed by an expense.
// NombreProducto and Unidad are snapshots taken at creation so the line
// stays readable if the product is later renamed or deleted.
type ConsumoInventario struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GastoID        uuid.UUID       `gorm:"type:uuid;index;not null" json:"gastoId"`
	InventarioID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"inventarioId"`
	NombreProducto string          `gorm:"type:varchar(100);not null" json:"nombreProducto"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"cantidad"`
	Unidad         string          `gorm:"type:varchar(20)" json:"unidad"`
}

func (ConsumoInventario) TableName() string { return "consumos_inventario" }
