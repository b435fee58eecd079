package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	invdomain "github.com/jhoicas/stock-engine/internal/domain/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// ProductUseCase mantiene el catálogo: guarda productos con sus opciones y regenera las variantes.
// Las cantidades no se tocan aquí; se manejan vía el ledger de stock.
type ProductUseCase struct {
	txRunner inventory.TxRunner
	repo     repository.CatalogRepository
	notifier inventory.Notifier
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, repo repository.CatalogRepository, notifier inventory.Notifier) *ProductUseCase {
	if notifier == nil {
		notifier = inventory.NopNotifier{}
	}
	return &ProductUseCase{txRunner: txRunner, repo: repo, notifier: notifier}
}

// Save crea o actualiza un producto. Con opciones, regenera el producto cartesiano reutilizando las
// variantes cuyo mapa de opciones no cambió; sin opciones, colapsa a una sola variante.
// Los IDs de variantes nuevas quedan como {productID}_{índice} y nunca repiten uno ya asignado.
func (uc *ProductUseCase) Save(ctx context.Context, in dto.SaveProductRequest) (*dto.ProductResponse, error) {
	out, err := uc.save(ctx, in)
	inventory.NotifyOutcome(ctx, uc.notifier, "product.save", "producto guardado", err)
	return out, err
}

func (uc *ProductUseCase) save(ctx context.Context, in dto.SaveProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	options := make([]entity.OptionDefinition, 0, len(in.Options))
	for _, o := range in.Options {
		values := o.Values
		if len(values) == 0 && o.RawValues != "" {
			values = strings.Split(o.RawValues, ",")
		}
		options = append(options, entity.OptionDefinition{Name: o.Name, Values: values})
	}

	var saved *entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		now := time.Now()
		product := &entity.Product{ID: in.ID, CreatedAt: now}
		var existing []*entity.Variant
		if in.ID != "" {
			prev, err := repos.Catalog.GetProduct(ctx, in.ID)
			if err != nil {
				return err
			}
			if prev == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ID)
			}
			product = prev
			existing = prev.Variants
		} else {
			product.ID = uuid.New().String()
		}
		product.Name = strings.TrimSpace(in.Name)
		product.Category = in.Category
		product.SupplierID = in.SupplierID
		product.HasOptions = in.HasOptions
		product.UpdatedAt = now

		var variants []*entity.Variant
		if in.HasOptions {
			generated, err := invdomain.GenerateVariants(product.ID, options, existing)
			if err != nil {
				return err
			}
			variants = generated
			product.Options = product.Options[:0]
			for _, o := range options {
				name := strings.TrimSpace(o.Name)
				if name == "" {
					continue
				}
				product.Options = append(product.Options, entity.OptionDefinition{
					Name: name, Values: invdomain.ParseOptionValues(o.Values),
				})
			}
		} else {
			variants = invdomain.CollapseToSimple(product.ID, existing)
			product.Options = nil
		}
		if err := applyVariantInputs(variants, in.Variants); err != nil {
			return err
		}
		product.NextVariantIndex = invdomain.FinalizeVariantIDs(product.ID, product.NextVariantIndex, variants)
		for _, v := range variants {
			if v.CreatedAt.IsZero() {
				v.CreatedAt = now
			}
			v.UpdatedAt = now
		}
		if err := checkSKUs(ctx, repos.Catalog, product.ID, variants); err != nil {
			return err
		}

		if err := repos.Catalog.UpsertProduct(ctx, product); err != nil {
			return err
		}
		if err := repos.Catalog.UpsertVariants(ctx, product.ID, variants); err != nil {
			return err
		}
		product.Variants = variants
		saved = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(saved), nil
}

// GetByID obtiene un producto con sus variantes. Devuelve (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// List lista el catálogo con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ReadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	total := len(list)
	if offset > len(list) {
		offset = len(list)
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// UpdateVariant edita SKU, precio, costo o umbral de una variante. No toca sus opciones ni su stock.
func (uc *ProductUseCase) UpdateVariant(ctx context.Context, id string, in dto.UpdateVariantRequest) (*dto.VariantResponse, error) {
	out, err := uc.updateVariant(ctx, id, in)
	inventory.NotifyOutcome(ctx, uc.notifier, "variant.update", "variante actualizada", err)
	return out, err
}

func (uc *ProductUseCase) updateVariant(ctx context.Context, id string, in dto.UpdateVariantRequest) (*dto.VariantResponse, error) {
	var out dto.VariantResponse
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		v, err := repos.Catalog.GetVariant(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: variante %s", domain.ErrNotFound, id)
		}
		if in.SKU != nil {
			sku := strings.TrimSpace(*in.SKU)
			if sku == "" {
				return fmt.Errorf("%w: SKU vacío", domain.ErrInvalidInput)
			}
			other, err := repos.Catalog.GetVariantBySKU(ctx, sku)
			if err != nil {
				return err
			}
			if other != nil && other.ID != v.ID {
				return fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, sku)
			}
			v.SKU = sku
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
			}
			v.Price = *in.Price
		}
		if in.CostPrice != nil {
			if in.CostPrice.IsNegative() {
				return fmt.Errorf("%w: costo negativo", domain.ErrInvalidInput)
			}
			v.CostPrice = *in.CostPrice
		}
		if in.LowStockThreshold != nil {
			if *in.LowStockThreshold < 0 {
				return fmt.Errorf("%w: umbral negativo", domain.ErrInvalidInput)
			}
			v.LowStockThreshold = *in.LowStockThreshold
		}
		v.UpdatedAt = time.Now()
		if err := repos.Catalog.UpdateVariant(ctx, v); err != nil {
			return err
		}
		out = dto.ToVariantResponse(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// applyVariantInputs aplica los datos editados por firma de opciones a las variantes generadas.
func applyVariantInputs(variants []*entity.Variant, inputs []dto.VariantInput) error {
	if len(inputs) == 0 {
		return nil
	}
	bySig := make(map[string]*entity.Variant, len(variants))
	for _, v := range variants {
		bySig[invdomain.OptionsSignature(v.Options)] = v
	}
	for _, in := range inputs {
		opts := in.Options
		if opts == nil {
			opts = map[string]string{}
		}
		v, ok := bySig[invdomain.OptionsSignature(opts)]
		if !ok {
			continue
		}
		if s := strings.TrimSpace(in.SKU); s != "" {
			v.SKU = s
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
			}
			v.Price = *in.Price
		}
		if in.CostPrice != nil {
			if in.CostPrice.IsNegative() {
				return fmt.Errorf("%w: costo negativo", domain.ErrInvalidInput)
			}
			v.CostPrice = *in.CostPrice
		}
		if in.LowStockThreshold != nil {
			if *in.LowStockThreshold < 0 {
				return fmt.Errorf("%w: umbral negativo", domain.ErrInvalidInput)
			}
			v.LowStockThreshold = *in.LowStockThreshold
		}
	}
	return nil
}

// checkSKUs exige SKUs no vacíos y únicos en todo el catálogo.
func checkSKUs(ctx context.Context, repo repository.CatalogRepository, productID string, variants []*entity.Variant) error {
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if v.SKU == "" {
			return fmt.Errorf("%w: variante %s sin SKU", domain.ErrInvalidInput, v.ID)
		}
		if seen[v.SKU] {
			return fmt.Errorf("%w: SKU %s repetido en el producto", domain.ErrDuplicate, v.SKU)
		}
		seen[v.SKU] = true
		other, err := repo.GetVariantBySKU(ctx, v.SKU)
		if err != nil {
			return err
		}
		if other != nil && other.ProductID != productID {
			return fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, v.SKU)
		}
	}
	return nil
}
