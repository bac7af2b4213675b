package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement states.
const (
	LiquidacionCompletada = "completada"
	LiquidacionCancelada  = "cancelada"
)

// Liquidacion is a settlement: it consumes a set of unsettled entradas
// and gastos, prices inventory consumption at current prices, and
// closes the period with CajaFinal = CajaInicial + TotalIngresos -
// TotalEgresos. The child rows are immutable snapshots of what was
// settled, with the values frozen as computed at settlement time.
type Liquidacion struct {
	ID                uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UsuarioID         uuid.UUID          `gorm:"type:uuid;index:idx_liquidaciones_scope;not null" json:"usuarioId"`
	Finca             string             `gorm:"type:varchar(100);index:idx_liquidaciones_scope;not null" json:"finca"`
	Fecha             time.Time          `gorm:"index;not null" json:"fecha"`
	CajaInicial       decimal.Decimal    `gorm:"type:decimal(14,2);not null" json:"cajaInicial"`
	TotalIngresos     decimal.Decimal    `gorm:"type:decimal(14,2);not null" json:"totalIngresos"`
	TotalEgresos      decimal.Decimal    `gorm:"type:decimal(14,2);not null" json:"totalEgresos"`
	CajaFinal         decimal.Decimal    `gorm:"type:decimal(14,2);not null" json:"cajaFinal"`
	Estado            string             `gorm:"type:varchar(20);default:'completada'" json:"estado"`
	Notas             string             `gorm:"type:varchar(500)" json:"notas"`
	EntradasLiquidadas []EntradaLiquidada `gorm:"foreignKey:LiquidacionID;constraint:OnDelete:CASCADE" json:"entradasLiquidadas"`
	GastosLiquidados   []GastoLiquidado   `gorm:"foreignKey:LiquidacionID;constraint:OnDelete:CASCADE" json:"gastosLiquidados"`
	InventarioUsado    []InventarioUsado  `gorm:"foreignKey:LiquidacionID;constraint:OnDelete:CASCADE" json:"inventarioUsado"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

func (Liquidacion) TableName() string { return "liquidaciones" }

// EntradaLiquidada snapshots one income entry at settlement time.
type EntradaLiquidada struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	LiquidacionID uuid.UUID       `gorm:"type:uuid;index;not null" json:"liquidacionId"`
	EntradaID     uuid.UUID       `gorm:"type:uuid;not null" json:"entradaId"`
	Descripcion   string          `gorm:"type:varchar(200)" json:"descripcion"`
	Valor         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"valor"`
	FechaEntrada  time.Time       `json:"fechaEntrada"`
}

func (EntradaLiquidada) TableName() string { return "entradas_liquidadas" }

// GastoLiquidado snapshots one expense at settlement time; Valor is the
// full cost (direct value plus priced inventory consumption).
type GastoLiquidado struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	LiquidacionID uuid.UUID       `gorm:"type:uuid;index;not null" json:"liquidacionId"`
	GastoID       uuid.UUID       `gorm:"type:uuid;not null" json:"gastoId"`
	Descripcion   string          `gorm:"type:varchar(200)" json:"descripcion"`
	Valor         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"valor"`
	Fecha         time.Time       `json:"fecha"`
}

func (GastoLiquidado) TableName() string { return "gastos_liquidados" }

// InventarioUsado snapshots one priced consumption line; PrecioUnitario
// is the inventory price *at settlement time*, not at expense creation.
type InventarioUsado struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	LiquidacionID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"liquidacionId"`
	InventarioID   uuid.UUID       `gorm:"type:uuid;not null" json:"inventarioId"`
	NombreProducto string          `gorm:"type:varchar(100)" json:"nombreProducto"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"cantidad"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"precioUnitario"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
}

func (InventarioUsado) TableName() string { return "inventario_usado" }
