package repository

// TxRepositories agrupa los repositorios atados a una misma transacción.
type TxRepositories struct {
	Stock        StockRepository
	Adjustments  AdjustmentRepository
	Catalog      CatalogRepository
	Consignments ConsignmentRepository
	Returns      ReturnRequestRepository
	Sales        SaleRepository
}
