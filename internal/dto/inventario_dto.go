package dto

import (
	"github.com/shopspring/decimal"

	"fincalibro/internal/model"
)

type CrearInventarioRequest struct {
	Nombre      string          `json:"nombre" validate:"required,min=1,max=100"`
	Categoria   string          `json:"categoria" validate:"omitempty,max=50"`
	Stock       decimal.Decimal `json:"stock"`
	Unidad      string          `json:"unidad" validate:"omitempty,max=20"`
	Precio      decimal.Decimal `json:"precio"`
	StockMinimo decimal.Decimal `json:"stockMinimo"`
}

type ActualizarInventarioRequest struct {
	Nombre      *string          `json:"nombre" validate:"omitempty,min=1,max=100"`
	Categoria   *string          `json:"categoria" validate:"omitempty,max=50"`
	Stock       *decimal.Decimal `json:"stock"`
	Unidad      *string          `json:"unidad" validate:"omitempty,max=20"`
	Precio      *decimal.Decimal `json:"precio"`
	StockMinimo *decimal.Decimal `json:"stockMinimo"`
}

type InventarioListResponse struct {
	Success   bool               `json:"success"`
	Productos []model.Inventario `json:"productos"`
}

type InventarioResponse struct {
	Success  bool              `json:"success"`
	Producto *model.Inventario `json:"producto"`
}

type CategoriaStats struct {
	Categoria  string          `json:"categoria"`
	Cantidad   int64           `json:"cantidad"`
	ValorTotal decimal.Decimal `json:"valorTotal"`
}

type InventarioStatsResumen struct {
	TotalProductos int64            `json:"totalProductos"`
	ValorTotal     decimal.Decimal  `json:"valorTotal"`
	PorCategoria   []CategoriaStats `json:"porCategoria"`
}

type InventarioStatsResponse struct {
	Success bool                   `json:"success"`
	Stats   InventarioStatsResumen `json:"stats"`
}
